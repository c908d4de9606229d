package raster

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.trai.ch/chartcache/internal/core/domain"
)

const (
	defaultFontSize = 16.0
	// glyphAdvance approximates the average advance width as a share of the font size.
	glyphAdvance = 0.6
	ascent       = 0.8
	descent      = 0.2
)

// nonRendered lists containers whose children never paint at their own position.
var nonRendered = map[string]bool{
	"defs":     true,
	"clipPath": true,
	"mask":     true,
	"marker":   true,
	"pattern":  true,
	"symbol":   true,
	"style":    true,
	"title":    true,
	"desc":     true,
	"metadata": true,
}

// Box is an axis-aligned bounding box in user units.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
	valid                  bool
}

// Empty reports whether nothing was added to the box.
func (b Box) Empty() bool {
	return !b.valid
}

func (b *Box) add(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	if !b.valid {
		*b = Box{MinX: x, MinY: y, MaxX: x, MaxY: y, valid: true}
		return
	}
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

func (b *Box) union(o Box) {
	if o.Empty() {
		return
	}
	b.add(o.MinX, o.MinY)
	b.add(o.MaxX, o.MaxY)
}

func (b Box) grow(d, dx, dy float64) Box {
	if b.Empty() {
		return b
	}
	return Box{MinX: b.MinX - d + dx, MinY: b.MinY - d + dy, MaxX: b.MaxX + d + dx, MaxY: b.MaxY + d + dy, valid: true}
}

// measureFunc returns the advance width of content in user units.
type measureFunc func(st textStyle, content string) float64

func approximateWidth(st textStyle, content string) float64 {
	return float64(utf8.RuneCountInString(content)) * st.size * glyphAdvance
}

// Bounds computes the painted extent of the tree rooted at root.
// Only translate transforms are applied; other transforms are ignored.
// Text widths are estimated from the font size.
func Bounds(root *domain.Node) Box {
	return bounds(root, approximateWidth)
}

func bounds(root *domain.Node, measure measureFunc) Box {
	w := boundsWalker{measure: measure}
	w.visit(root, 0, 0, defaultTextStyle())
	return w.out
}

type boundsWalker struct {
	measure measureFunc
	out     Box
}

func (w *boundsWalker) visit(n *domain.Node, tx, ty float64, st textStyle) {
	if n == nil || n.IsText() || nonRendered[n.Name.Local] || hidden(n) {
		return
	}
	if t, ok := n.Attr("transform"); ok {
		dx, dy := parseTranslate(t)
		tx += dx
		ty += dy
	}
	st = st.inherit(n)

	if n.Name.Local == "text" {
		w.out.union(w.textBounds(n, st).grow(strokePad(n), tx, ty))
		return
	}
	w.out.union(shapeBounds(n).grow(strokePad(n), tx, ty))
	for _, child := range n.Children {
		w.visit(child, tx, ty, st)
	}
}

func (w *boundsWalker) textBounds(n *domain.Node, st textStyle) Box {
	content := textContent(n)
	if content == "" {
		return Box{}
	}
	x, y := lengthAttr(n, "x"), lengthAttr(n, "y")
	width := w.measure(st, content)
	x -= anchorOffset(st.anchor, width)

	var b Box
	b.add(x, y-st.size*ascent)
	b.add(x+width, y+st.size*descent)
	return b
}

func shapeBounds(n *domain.Node) Box {
	var b Box
	num := func(name string) float64 { return lengthAttr(n, name) }

	switch n.Name.Local {
	case "rect", "image", "use", "foreignObject":
		w, h := num("width"), num("height")
		if w <= 0 || h <= 0 {
			return b
		}
		x, y := num("x"), num("y")
		b.add(x, y)
		b.add(x+w, y+h)
	case "circle":
		cx, cy, r := num("cx"), num("cy"), num("r")
		b.add(cx-r, cy-r)
		b.add(cx+r, cy+r)
	case "ellipse":
		cx, cy, rx, ry := num("cx"), num("cy"), num("rx"), num("ry")
		b.add(cx-rx, cy-ry)
		b.add(cx+rx, cy+ry)
	case "line":
		b.add(num("x1"), num("y1"))
		b.add(num("x2"), num("y2"))
	case "polyline", "polygon":
		points, _ := n.Attr("points")
		nums := parseNumbers(points)
		for i := 0; i+1 < len(nums); i += 2 {
			b.add(nums[i], nums[i+1])
		}
	case "path":
		d, _ := n.Attr("d")
		pathBounds(d, &b)
	}
	return b
}

// textContent joins the character data of n with collapsed whitespace.
func textContent(n *domain.Node) string {
	var sb strings.Builder
	n.Walk(func(c *domain.Node) bool {
		if c.IsText() {
			sb.WriteString(c.Text)
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// anchorOffset is how far text of the given width starts left of its x position.
func anchorOffset(anchor string, width float64) float64 {
	switch anchor {
	case "middle":
		return width / 2
	case "end":
		return width
	}
	return 0
}

func lengthAttr(n *domain.Node, name string) float64 {
	v, _ := n.Attr(name)
	f, _ := parseLength(v)
	return f
}

// strokePad returns half the stroke width when the element is stroked.
func strokePad(n *domain.Node) float64 {
	stroke, ok := n.Attr("stroke")
	if !ok || stroke == "none" {
		return 0
	}
	width := 1.0
	if v, ok := n.Attr("stroke-width"); ok {
		if f, ok := parseLength(v); ok {
			width = f
		}
	}
	return width / 2
}

// parseTranslate extracts the translation of a transform list.
func parseTranslate(transform string) (float64, float64) {
	var dx, dy float64
	rest := transform
	for {
		i := strings.Index(rest, "translate(")
		if i == -1 {
			return dx, dy
		}
		rest = rest[i+len("translate("):]
		end := strings.IndexByte(rest, ')')
		if end == -1 {
			return dx, dy
		}
		args := parseNumbers(rest[:end])
		if len(args) > 0 {
			dx += args[0]
		}
		if len(args) > 1 {
			dy += args[1]
		}
		rest = rest[end+1:]
	}
}

// parseLength parses a user-unit or px length. Percentages and other units are rejected.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// viewBox is the user coordinate system of the root element.
type viewBox struct {
	X, Y, W, H float64
}

func parseViewBox(s string) (viewBox, bool) {
	nums := parseNumbers(s)
	if len(nums) != 4 || nums[2] <= 0 || nums[3] <= 0 {
		return viewBox{}, false
	}
	return viewBox{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}, true
}

func (v viewBox) String() string {
	return formatNumber(v.X) + " " + formatNumber(v.Y) + " " + formatNumber(v.W) + " " + formatNumber(v.H)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// expandCanvas grows the root so that the painted content is not clipped on any side.
// It returns the new size in CSS pixels and updates width, height and viewBox on root.
func expandCanvas(root *domain.Node, width, height int, measure measureFunc) (int, int) {
	vbAttr, _ := root.Attr("viewBox")
	vb, ok := parseViewBox(vbAttr)
	if !ok {
		vb = viewBox{W: float64(width), H: float64(height)}
	}

	minX, minY := vb.X, vb.Y
	maxX, maxY := vb.X+vb.W, vb.Y+vb.H
	if box := bounds(root, measure); !box.Empty() {
		minX = math.Min(minX, math.Floor(box.MinX))
		minY = math.Min(minY, math.Floor(box.MinY))
		maxX = math.Max(maxX, math.Ceil(box.MaxX))
		maxY = math.Max(maxY, math.Ceil(box.MaxY))
	}
	need := viewBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}

	newW := int(math.Ceil(float64(width) * need.W / vb.W))
	newH := int(math.Ceil(float64(height) * need.H / vb.H))

	root.SetAttr("width", strconv.Itoa(newW))
	root.SetAttr("height", strconv.Itoa(newH))
	root.SetAttr("viewBox", need.String())
	return newW, newH
}
