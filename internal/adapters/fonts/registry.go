// Package fonts loads the font files that rasterized scenes may reference.
package fonts

import (
	"bytes"
	"context"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"
)

var _ ports.FontSource = (*Registry)(nil)

// Registry implements ports.FontSource over a fixed set of font files.
// Loading starts on the first Ready call and happens once; every later call
// observes the same outcome.
type Registry struct {
	paths []string

	once  sync.Once
	done  chan struct{}
	faces []ports.FontFace
	err   error
}

// NewRegistry creates a registry for the given font files.
func NewRegistry(paths ...string) *Registry {
	return &Registry{
		paths: slices.Clone(paths),
		done:  make(chan struct{}),
	}
}

// Ready blocks until every font is loaded, returning the first load error.
func (r *Registry) Ready(ctx context.Context) error {
	r.once.Do(func() {
		go r.load()
	})

	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Faces returns the loaded faces in configuration order.
func (r *Registry) Faces() []ports.FontFace {
	select {
	case <-r.done:
		return r.faces
	default:
		return nil
	}
}

func (r *Registry) load() {
	defer close(r.done)

	faces := make([]ports.FontFace, len(r.paths))
	var g errgroup.Group
	for i, path := range r.paths {
		g.Go(func() error {
			face, err := loadFace(path)
			if err != nil {
				return zerr.With(err, "path", path)
			}
			faces[i] = face
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.err = err
		return
	}
	r.faces = faces
}

func loadFace(path string) (ports.FontFace, error) {
	//nolint:gosec // Font paths come from the project configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return ports.FontFace{}, zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}
	return ParseFace(data)
}

// ParseFace validates raw font data and reads its family name.
func ParseFace(data []byte) (ports.FontFace, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return ports.FontFace{}, zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}

	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return ports.FontFace{}, zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}

	return ports.FontFace{
		Family:    strings.TrimSpace(family),
		MediaType: mediaType(data),
		Data:      data,
	}, nil
}

func mediaType(data []byte) string {
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return "font/otf"
	}
	return "font/ttf"
}
