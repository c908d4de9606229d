package raster

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/core/ports"
	"golang.org/x/image/font/gofont/goregular"
)

func el(name string, attrs map[string]string, children ...*domain.Node) *domain.Node {
	n := &domain.Node{Name: xml.Name{Local: name}, Children: children}
	// Deterministic order keeps failures readable.
	for _, k := range []string{
		"x", "y", "width", "height", "cx", "cy", "r", "rx", "ry", "x1", "y1", "x2", "y2",
		"points", "d", "transform", "stroke", "stroke-width", "font-size", "font-family", "text-anchor", "viewBox", "style",
	} {
		if v, ok := attrs[k]; ok {
			n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: k}, Value: v})
		}
	}
	return n
}

func text(s string) *domain.Node {
	return &domain.Node{Text: s}
}

func TestBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *domain.Node
		want Box
	}{
		{
			name: "rect",
			node: el("rect", map[string]string{"x": "5", "y": "6", "width": "10", "height": "4"}),
			want: Box{MinX: 5, MinY: 6, MaxX: 15, MaxY: 10, valid: true},
		},
		{
			name: "stroked circle",
			node: el("circle", map[string]string{"cx": "10", "cy": "10", "r": "5", "stroke": "#000", "stroke-width": "4"}),
			want: Box{MinX: 3, MinY: 3, MaxX: 17, MaxY: 17, valid: true},
		},
		{
			name: "translated group",
			node: el("g", map[string]string{"transform": "translate(100, 50)"},
				el("line", map[string]string{"x1": "0", "y1": "0", "x2": "10", "y2": "-5"}),
			),
			want: Box{MinX: 100, MinY: 45, MaxX: 110, MaxY: 50, valid: true},
		},
		{
			name: "polygon",
			node: el("polygon", map[string]string{"points": "0,0 30,5 10,-10"}),
			want: Box{MinX: 0, MinY: -10, MaxX: 30, MaxY: 5, valid: true},
		},
		{
			name: "end anchored text",
			node: el("text", map[string]string{"x": "100", "y": "50", "font-size": "10", "text-anchor": "end"}, text("abcd")),
			want: Box{MinX: 76, MinY: 42, MaxX: 100, MaxY: 52, valid: true},
		},
		{
			name: "defs are ignored",
			node: el("defs", nil, el("rect", map[string]string{"width": "500", "height": "500"})),
			want: Box{},
		},
		{
			name: "degenerate rect",
			node: el("rect", map[string]string{"width": "0", "height": "10"}),
			want: Box{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDeltaMapValues(t, boxMap(tt.want), boxMap(Bounds(tt.node)), 1e-9)
			assert.Equal(t, tt.want.Empty(), Bounds(tt.node).Empty())
		})
	}
}

func boxMap(b Box) map[string]float64 {
	return map[string]float64{"minX": b.MinX, "minY": b.MinY, "maxX": b.MaxX, "maxY": b.MaxY}
}

func TestPathBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    string
		want Box
	}{
		{
			name: "absolute",
			d:    "M10 10 L20 20 h5 v-15 Z",
			want: Box{MinX: 10, MinY: 5, MaxX: 25, MaxY: 20, valid: true},
		},
		{
			name: "relative with implicit lineto",
			d:    "m5,5 10,0 0,10",
			want: Box{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15, valid: true},
		},
		{
			name: "compact numbers",
			d:    "M1.5.5L-1-2",
			want: Box{MinX: -1, MinY: -2, MaxX: 1.5, MaxY: 0.5, valid: true},
		},
		{
			name: "cubic control points",
			d:    "M0 0 C 0 -10 20 -10 20 0",
			want: Box{MinX: 0, MinY: -10, MaxX: 20, MaxY: 0, valid: true},
		},
		{
			name: "exponent",
			d:    "M1e1 0 L2e+1 1",
			want: Box{MinX: 10, MinY: 0, MaxX: 20, MaxY: 1, valid: true},
		},
		{
			name: "garbage",
			d:    "10 10",
			want: Box{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got Box
			pathBounds(tt.d, &got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandCanvas(t *testing.T) {
	t.Parallel()

	t.Run("no overflow keeps size", func(t *testing.T) {
		t.Parallel()
		root := el("svg", nil, el("rect", map[string]string{"width": "10", "height": "10"}))

		w, h := expandCanvas(root, 20, 20, approximateWidth)
		assert.Equal(t, 20, w)
		assert.Equal(t, 20, h)
		vb, _ := root.Attr("viewBox")
		assert.Equal(t, "0 0 20 20", vb)
	})

	t.Run("view box is scaled", func(t *testing.T) {
		t.Parallel()
		root := el("svg", map[string]string{"viewBox": "0 0 100 50"},
			el("rect", map[string]string{"x": "90", "width": "60", "height": "10"}),
		)

		w, h := expandCanvas(root, 200, 100, approximateWidth)
		assert.Equal(t, 300, w)
		assert.Equal(t, 100, h)

		width, _ := root.Attr("width")
		vb, _ := root.Attr("viewBox")
		assert.Equal(t, "300", width)
		assert.Equal(t, "0 0 150 50", vb)
	})

	t.Run("grows toward negative coordinates", func(t *testing.T) {
		t.Parallel()
		root := el("svg", nil,
			el("rect", map[string]string{"x": "-10", "width": "20", "height": "10"}),
			el("line", map[string]string{"x1": "0", "y1": "-2.5", "x2": "5", "y2": "0", "stroke": "#000"}),
		)

		w, h := expandCanvas(root, 10, 10, approximateWidth)
		assert.Equal(t, 20, w)
		assert.Equal(t, 13, h)
		vb, _ := root.Attr("viewBox")
		assert.Equal(t, "-10 -3 20 13", vb)
	})

	t.Run("end anchored label at the left edge", func(t *testing.T) {
		t.Parallel()
		root := el("svg", nil,
			el("g", map[string]string{"font-size": "10", "text-anchor": "end"},
				el("text", map[string]string{"x": "0", "y": "10"}, text("Share")),
			),
		)

		measure := func(textStyle, string) float64 { return 40 }
		w, _ := expandCanvas(root, 100, 20, measure)
		assert.Equal(t, 140, w)
		vb, _ := root.Attr("viewBox")
		assert.Equal(t, "-40 0 140 20", vb)
	})
}

func TestTextContent(t *testing.T) {
	t.Parallel()

	node := el("text", nil, text("\n  Share "), el("tspan", nil, text("of\tbottles")), text("  "))
	assert.Equal(t, "Share of bottles", textContent(node))
	assert.Empty(t, textContent(el("text", nil, text("   "))))
}

func TestTextStyleInherit(t *testing.T) {
	t.Parallel()

	group := el("g", map[string]string{"font-size": "12px", "font-family": "Go", "style": "fill: #336699; opacity: 0.5"})
	label := el("text", map[string]string{"text-anchor": "middle", "style": "font-size: 20"})

	st := defaultTextStyle().inherit(group).inherit(label)
	assert.Equal(t, "Go", st.family)
	assert.InDelta(t, 20.0, st.size, 0)
	assert.Equal(t, "#336699", st.fill)
	assert.InDelta(t, 0.5, st.opacity, 1e-9)
	assert.Equal(t, "middle", st.anchor)
}

func TestFontCache(t *testing.T) {
	t.Parallel()

	faces := []ports.FontFace{{Family: "Go", MediaType: "font/ttf", Data: goregular.TTF}}
	fallback, err := fallbackFont()
	require.NoError(t, err)

	var c fontCache
	configured, err := c.resolve(`"Inter", go, sans-serif`, faces)
	require.NoError(t, err)
	assert.NotSame(t, fallback, configured, "a loaded face wins over the fallback")

	again, err := c.resolve("GO", faces)
	require.NoError(t, err)
	assert.Same(t, configured, again, "faces are parsed once")

	unknown, err := c.resolve("Inter", faces)
	require.NoError(t, err)
	assert.Same(t, fallback, unknown)

	_, err = c.resolve("Broken", []ports.FontFace{{Family: "Broken", Data: []byte("zzz")}})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFontLoadFailed.Error())

	width := c.measurer(faces)(textStyle{family: "Go", size: 10}, "abcd")
	assert.Greater(t, width, 0.0)
}

func TestInlineFonts(t *testing.T) {
	t.Parallel()

	faces := []ports.FontFace{
		{Family: "Go", MediaType: "font/ttf", Data: []byte("abc")},
		{Family: "Unused", MediaType: "font/ttf", Data: []byte("zzz")},
	}

	t.Run("referenced family", func(t *testing.T) {
		t.Parallel()
		root := el("svg", nil, el("text", map[string]string{"font-family": `"go", sans-serif`}, text("hi")))

		require.True(t, inlineFonts(root, faces))
		require.Len(t, root.Children, 2)

		defs := root.Children[0]
		require.Equal(t, "defs", defs.Name.Local)
		require.Len(t, defs.Children, 1)
		style := defs.Children[0]
		assert.Equal(t, "style", style.Name.Local)
		assert.Equal(t, `@font-face{font-family:"Go";src:url("data:font/ttf\3B base64,YWJj")}`, style.Children[0].Text)
	})

	t.Run("style attribute and existing defs", func(t *testing.T) {
		t.Parallel()
		root := el("svg", nil,
			el("defs", nil),
			el("g", map[string]string{"style": "fill: red; font-family: Go"}),
		)

		require.True(t, inlineFonts(root, faces))
		require.Len(t, root.Children, 2)
		assert.Len(t, root.Children[0].Children, 1)
	})

	t.Run("nothing referenced", func(t *testing.T) {
		t.Parallel()
		root := el("svg", nil, el("rect", map[string]string{"width": "1", "height": "1"}))

		assert.False(t, inlineFonts(root, faces))
		assert.Len(t, root.Children, 1)
	})
}
