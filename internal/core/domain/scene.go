package domain

import "encoding/xml"

// SVGNamespace is the namespace every serialized scene declares.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Node is one element or character-data node of a vector scene.
// A node with an empty Name.Local is a text node and only carries Text.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Text     string
}

// IsText reports whether the node is a character-data node.
func (n *Node) IsText() bool {
	return n.Name.Local == ""
}

// Attr returns the value of the attribute with the given local name.
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local && (a.Name.Space == "" || a.Name.Space == SVGNamespace) {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute with the given local name.
func (n *Node) SetAttr(local, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == local && (a.Name.Space == "" || a.Name.Space == SVGNamespace) {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

// RemoveAttr drops every attribute matching space and local name.
func (n *Node) RemoveAttr(space, local string) {
	kept := n.Attrs[:0]
	for _, a := range n.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			continue
		}
		kept = append(kept, a)
	}
	n.Attrs = kept
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name: n.Name,
		Text: n.Text,
	}
	if n.Attrs != nil {
		c.Attrs = make([]xml.Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Walk visits the node and its descendants depth-first.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Scene is a fully rendered vector representation of a chart.
type Scene struct {
	Root *Node
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	if s == nil {
		return nil
	}
	return &Scene{Root: s.Root.Clone()}
}

// RasterOptions controls the raster output of a scene.
type RasterOptions struct {
	// Width and Height are the target size in CSS pixels.
	Width  int
	Height int
	// Scale is the oversampling factor. Values below MinScale are raised to MinScale.
	Scale float64
}

// EffectiveScale returns the oversampling factor actually used.
func (o RasterOptions) EffectiveScale() float64 {
	if o.Scale < MinScale {
		return MinScale
	}
	return o.Scale
}
