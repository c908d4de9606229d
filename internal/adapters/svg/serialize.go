package svg

import (
	"bytes"
	"encoding/xml"
	"slices"
	"strconv"
	"unicode"

	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// XLinkNamespace is the namespace of xlink:href references.
	XLinkNamespace = "http://www.w3.org/1999/xlink"
	xmlNamespace   = "http://www.w3.org/XML/1998/namespace"
)

// Serialize renders the scene as standalone SVG markup.
// The root always declares the SVG namespace so the output decodes on its own.
func Serialize(scene *domain.Scene) ([]byte, error) {
	if scene == nil || scene.Root == nil {
		return nil, zerr.Wrap(domain.ErrEmptyScene, domain.ErrSceneSerializationFailed.Error())
	}

	w := &writer{prefixes: map[string]string{xmlNamespace: "xml", XLinkNamespace: "xlink"}}
	scene.Root.Walk(func(n *domain.Node) bool {
		for _, a := range n.Attrs {
			w.prefix(a.Name.Space)
		}
		return true
	})

	if err := w.element(scene.Root, true); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSceneSerializationFailed.Error())
	}
	return w.buf.Bytes(), nil
}

type writer struct {
	buf      bytes.Buffer
	prefixes map[string]string
	// declared keeps the declaration order of prefixes used by attributes.
	declared []string
}

// prefix returns the attribute prefix for a namespace, registering it on first use.
func (w *writer) prefix(space string) string {
	if space == "" || space == domain.SVGNamespace {
		return ""
	}
	p, ok := w.prefixes[space]
	if !ok {
		p = "ns" + strconv.Itoa(len(w.prefixes)-1)
		w.prefixes[space] = p
	}
	if p != "xml" && !slices.Contains(w.declared, space) {
		w.declared = append(w.declared, space)
	}
	return p
}

func (w *writer) element(n *domain.Node, root bool) error {
	if n.IsText() {
		return xml.EscapeText(&w.buf, []byte(n.Text))
	}
	if !validName(n.Name.Local) {
		return zerr.With(zerr.New("invalid element name"), "name", n.Name.Local)
	}

	w.buf.WriteByte('<')
	w.buf.WriteString(n.Name.Local)

	switch {
	case root:
		w.attr("xmlns", domain.SVGNamespace)
		for _, space := range w.declared {
			w.attr("xmlns:"+w.prefixes[space], space)
		}
	case n.Name.Space != "" && n.Name.Space != domain.SVGNamespace:
		w.attr("xmlns", n.Name.Space)
	}

	for _, a := range n.Attrs {
		if !validName(a.Name.Local) {
			return zerr.With(zerr.New("invalid attribute name"), "name", a.Name.Local)
		}
		name := a.Name.Local
		if p := w.prefix(a.Name.Space); p != "" {
			name = p + ":" + name
		}
		w.attr(name, a.Value)
	}

	if len(n.Children) == 0 {
		w.buf.WriteString("/>")
		return nil
	}
	w.buf.WriteByte('>')
	for _, child := range n.Children {
		if err := w.element(child, false); err != nil {
			return err
		}
	}
	w.buf.WriteString("</")
	w.buf.WriteString(n.Name.Local)
	w.buf.WriteByte('>')
	return nil
}

func (w *writer) attr(name, value string) {
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	w.buf.WriteString(`="`)
	_ = xml.EscapeText(&w.buf, []byte(value))
	w.buf.WriteByte('"')
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
