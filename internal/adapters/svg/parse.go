// Package svg converts between SVG markup and the in-memory scene tree.
package svg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Parse reads SVG markup into a scene.
// Comments, processing instructions and whitespace-only text between elements are dropped.
func Parse(r io.Reader) (*domain.Scene, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var (
		root  *domain.Node
		stack []*domain.Node
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrSceneParseFailed.Error())
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &domain.Node{Name: t.Name}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				node.Attrs = append(node.Attrs, a)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, zerr.With(domain.ErrSceneParseFailed, "reason", "multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 || strings.TrimSpace(string(t)) == "" {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &domain.Node{Text: string(t)})
		}
	}

	if root == nil {
		return nil, domain.ErrEmptyScene
	}
	if root.Name.Local != "svg" {
		return nil, zerr.With(domain.ErrSceneParseFailed, "root", root.Name.Local)
	}
	return &domain.Scene{Root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(markup string) (*domain.Scene, error) {
	return Parse(strings.NewReader(markup))
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}
