package raster

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// textStyle is the inherited presentation state that text is drawn with.
type textStyle struct {
	family  string
	size    float64
	fill    string
	opacity float64
	anchor  string
}

func defaultTextStyle() textStyle {
	return textStyle{size: defaultFontSize, fill: "black", opacity: 1}
}

// inherit applies the text properties declared on n.
func (st textStyle) inherit(n *domain.Node) textStyle {
	if v, ok := property(n, "font-family"); ok && v != "" {
		st.family = v
	}
	if v, ok := property(n, "font-size"); ok {
		if f, ok := parseLength(v); ok && f > 0 {
			st.size = f
		}
	}
	if v, ok := property(n, "fill"); ok && v != "" {
		st.fill = v
	}
	if v, ok := property(n, "text-anchor"); ok && v != "" {
		st.anchor = v
	}
	for _, name := range []string{"opacity", "fill-opacity"} {
		if v, ok := property(n, name); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				st.opacity *= math.Max(0, math.Min(f, 1))
			}
		}
	}
	return st
}

// property reads a presentation property from the style attribute or the attribute of the same name.
func property(n *domain.Node, name string) (string, bool) {
	if style, ok := n.Attr("style"); ok {
		for _, decl := range strings.Split(style, ";") {
			k, v, found := strings.Cut(decl, ":")
			if found && strings.TrimSpace(k) == name {
				return strings.TrimSpace(v), true
			}
		}
	}
	v, ok := n.Attr(name)
	return strings.TrimSpace(v), ok
}

func hidden(n *domain.Node) bool {
	v, _ := property(n, "display")
	return v == "none"
}

// textLayer paints the text elements of a scene onto a canvas the shapes were already drawn on.
// Text is painted above all shapes.
type textLayer struct {
	dst      *image.RGBA
	vbX, vbY float64
	sx, sy   float64
	current  string
	faces    []ports.FontFace
	fonts    *fontCache
}

func (l *textLayer) draw(root *domain.Node) error {
	return l.visit(root, 0, 0, defaultTextStyle())
}

func (l *textLayer) visit(n *domain.Node, tx, ty float64, st textStyle) error {
	if n == nil || n.IsText() || nonRendered[n.Name.Local] || hidden(n) {
		return nil
	}
	if t, ok := n.Attr("transform"); ok {
		dx, dy := parseTranslate(t)
		tx += dx
		ty += dy
	}
	st = st.inherit(n)

	if n.Name.Local == "text" {
		return l.drawText(n, tx, ty, st)
	}
	for _, child := range n.Children {
		if err := l.visit(child, tx, ty, st); err != nil {
			return err
		}
	}
	return nil
}

func (l *textLayer) drawText(n *domain.Node, tx, ty float64, st textStyle) error {
	content := textContent(n)
	if content == "" {
		return nil
	}
	paint, err := l.paint(st)
	if err != nil || paint == nil {
		return err
	}

	f, err := l.fonts.resolve(st.family, l.faces)
	if err != nil {
		return err
	}
	face, err := newFace(f, st.size*l.sy)
	if err != nil {
		return err
	}
	defer func() { _ = face.Close() }()

	d := &font.Drawer{Dst: l.dst, Src: image.NewUniform(paint), Face: face}
	x := (lengthAttr(n, "x") + tx - l.vbX) * l.sx
	y := (lengthAttr(n, "y") + ty - l.vbY) * l.sy
	x -= anchorOffset(st.anchor, fixedToFloat(d.MeasureString(content)))

	d.Dot = fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)}
	d.DrawString(content)
	return nil
}

// paint resolves the fill of st. A nil color means the text is not painted.
func (l *textLayer) paint(st textStyle) (color.Color, error) {
	fill := st.fill
	if fill == "currentColor" {
		fill = l.current
	}
	c, err := oksvg.ParseSVGColor(fill)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageDecodeFailed.Error()), "fill", fill)
	}
	if c == nil || st.opacity <= 0 {
		return nil, nil
	}

	nc, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = uint8(math.Round(float64(nc.A) * st.opacity))
	return nc, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
