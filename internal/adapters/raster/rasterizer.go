// Package raster implements ports.Rasterizer with a software SVG renderer.
package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.trai.ch/chartcache/internal/adapters/svg"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DataURLPrefix starts every snapshot produced by the rasterizer.
	DataURLPrefix = "data:image/png;base64,"

	// DefaultMaxPixels bounds the canvas area.
	DefaultMaxPixels = 1 << 26
	// MaxSide bounds each canvas dimension.
	MaxSide = 16384

	defaultCurrentColor = "#000000"
)

var _ ports.Rasterizer = (*Rasterizer)(nil)

// Rasterizer draws scenes onto an offscreen RGBA canvas and encodes them as PNG data URIs.
type Rasterizer struct {
	fonts     ports.FontSource
	resources *Resources
	maxPixels int
	typefaces fontCache
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithPixelLimit sets the largest canvas area, in device pixels, that may be allocated.
func WithPixelLimit(pixels int) Option {
	return func(r *Rasterizer) {
		r.maxPixels = pixels
	}
}

// WithResources sets the resource table serialized scenes are registered in.
func WithResources(res *Resources) Option {
	return func(r *Rasterizer) {
		r.resources = res
	}
}

// New creates a rasterizer that waits for fonts before every draw.
func New(fonts ports.FontSource, opts ...Option) *Rasterizer {
	r := &Rasterizer{
		fonts:     fonts,
		resources: NewResources(),
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rasterize draws scene at opts.Width x opts.Height CSS pixels, oversampled by opts.EffectiveScale.
// The canvas grows to fit content that overflows the requested size. The scene is not modified.
func (r *Rasterizer) Rasterize(ctx context.Context, scene *domain.Scene, opts domain.RasterOptions) (string, error) {
	if err := r.fonts.Ready(ctx); err != nil {
		return "", zerr.Wrap(err, domain.ErrFontsUnavailable.Error())
	}
	if scene == nil || scene.Root == nil {
		return "", zerr.Wrap(domain.ErrEmptyScene, domain.ErrSceneSerializationFailed.Error())
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return "", sizeError(opts.Width, opts.Height)
	}

	clone := scene.Clone()
	faces := r.fonts.Faces()
	width, height := expandCanvas(clone.Root, opts.Width, opts.Height, r.typefaces.measurer(faces))
	inlineFonts(clone.Root, faces)

	markup, err := svg.Serialize(clone)
	if err != nil {
		return "", err
	}

	scale := opts.EffectiveScale()
	pw := int(math.Ceil(float64(width) * scale))
	ph := int(math.Ceil(float64(height) * scale))
	if pw <= 0 || ph <= 0 || pw > MaxSide || ph > MaxSide || pw*ph > r.maxPixels {
		return "", sizeError(pw, ph)
	}

	url := r.resources.Create(markup)
	defer r.resources.Revoke(url)

	current := currentColor(clone.Root)
	icon, err := r.decode(url, current)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := draw(icon, pw, ph, &textLayer{
		current: current,
		faces:   faces,
		fonts:   &r.typefaces,
	}, clone.Root)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", zerr.Wrap(err, domain.ErrDrawingContextUnavailable.Error())
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (r *Rasterizer) decode(url, color string) (*oksvg.SvgIcon, error) {
	stream, ok := r.resources.Open(url)
	if !ok {
		return nil, zerr.With(domain.ErrImageDecodeFailed, "url", url)
	}
	icon, err := oksvg.ReadReplacingCurrentColor(stream, color, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageDecodeFailed.Error())
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, zerr.With(domain.ErrImageDecodeFailed, "reason", "empty view box")
	}
	return icon, nil
}

// draw paints the decoded shapes and then the text of root onto a w x h canvas.
// The view box origin maps to the canvas origin.
func draw(icon *oksvg.SvgIcon, w, h int, text *textLayer, root *domain.Node) (img *image.RGBA, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			img = nil
			err = zerr.With(domain.ErrImageDecodeFailed, "panic", fmt.Sprint(rec))
		}
	}()

	vb := icon.ViewBox
	sx, sy := float64(w)/vb.W, float64(h)/vb.H

	img = image.NewRGBA(image.Rect(0, 0, w, h))
	icon.Transform = rasterx.Identity.Scale(sx, sy).Translate(-vb.X, -vb.Y)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	text.dst = img
	text.vbX, text.vbY = vb.X, vb.Y
	text.sx, text.sy = sx, sy
	if err := text.draw(root); err != nil {
		return nil, err
	}
	return img, nil
}

// currentColor resolves the color keyword from the root's color attribute.
func currentColor(root *domain.Node) string {
	if c, ok := root.Attr("color"); ok && c != "" && c != "currentColor" {
		return c
	}
	return defaultCurrentColor
}

func sizeError(w, h int) error {
	return zerr.With(zerr.With(domain.ErrDrawingContextUnavailable, "width", w), "height", h)
}
