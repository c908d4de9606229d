package raster

import (
	"encoding/base64"
	"encoding/xml"
	"strings"
	"sync"

	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fallbackFont is used for text whose font-family matches no loaded face.
var fallbackFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// familyList splits a CSS font-family value into lowercased names.
func familyList(list string) []string {
	var families []string
	for _, f := range strings.Split(list, ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f != "" {
			families = append(families, strings.ToLower(f))
		}
	}
	return families
}

// referencedFamilies collects the font families named anywhere in the tree, lowercased.
func referencedFamilies(root *domain.Node) map[string]bool {
	families := make(map[string]bool)
	root.Walk(func(n *domain.Node) bool {
		if v, ok := property(n, "font-family"); ok {
			for _, f := range familyList(v) {
				families[f] = true
			}
		}
		return true
	})
	return families
}

// fontFaceCSS renders @font-face rules for the faces whose family is referenced.
// The data URI separator is CSS-escaped because decoders split declarations on raw semicolons.
func fontFaceCSS(faces []ports.FontFace, families map[string]bool) string {
	var sb strings.Builder
	for _, face := range faces {
		if !families[strings.ToLower(face.Family)] {
			continue
		}
		sb.WriteString(`@font-face{font-family:"`)
		sb.WriteString(face.Family)
		sb.WriteString(`";src:url("data:`)
		sb.WriteString(face.MediaType)
		sb.WriteString(`\3B base64,`)
		sb.WriteString(base64.StdEncoding.EncodeToString(face.Data))
		sb.WriteString(`")}`)
	}
	return sb.String()
}

// inlineFonts embeds the referenced faces into a <defs><style> block of root,
// so the serialized markup carries its own fonts. It reports whether anything was inlined.
func inlineFonts(root *domain.Node, faces []ports.FontFace) bool {
	if len(faces) == 0 {
		return false
	}
	css := fontFaceCSS(faces, referencedFamilies(root))
	if css == "" {
		return false
	}

	style := &domain.Node{
		Name:     xml.Name{Local: "style"},
		Attrs:    []xml.Attr{{Name: xml.Name{Local: "type"}, Value: "text/css"}},
		Children: []*domain.Node{{Text: css}},
	}

	for _, child := range root.Children {
		if child.Name.Local == "defs" {
			child.Children = append(child.Children, style)
			return true
		}
	}
	defs := &domain.Node{Name: xml.Name{Local: "defs"}, Children: []*domain.Node{style}}
	root.Children = append([]*domain.Node{defs}, root.Children...)
	return true
}

// fontCache parses loaded faces on first use, keyed by lowercased family.
type fontCache struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

// resolve returns the font of the first family in list that has a loaded face.
func (c *fontCache) resolve(list string, faces []ports.FontFace) (*opentype.Font, error) {
	for _, family := range familyList(list) {
		for _, face := range faces {
			if strings.ToLower(face.Family) == family {
				return c.parse(family, face.Data)
			}
		}
	}

	f, err := fallbackFont()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}
	return f, nil
}

func (c *fontCache) parse(family string, data []byte) (*opentype.Font, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.fonts[family]; ok {
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFontLoadFailed.Error()), "family", family)
	}
	if c.fonts == nil {
		c.fonts = make(map[string]*opentype.Font)
	}
	c.fonts[family] = f
	return f, nil
}

// newFace opens f at size pixels. Faces are not safe for concurrent use.
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFontLoadFailed.Error())
	}
	return face, nil
}

// measurer measures text with the faces that will draw it, falling back to the estimate.
func (c *fontCache) measurer(faces []ports.FontFace) measureFunc {
	return func(st textStyle, content string) float64 {
		f, err := c.resolve(st.family, faces)
		if err != nil {
			return approximateWidth(st, content)
		}
		face, err := newFace(f, st.size)
		if err != nil {
			return approximateWidth(st, content)
		}
		defer func() { _ = face.Close() }()
		return fixedToFloat(font.MeasureString(face, content))
	}
}
