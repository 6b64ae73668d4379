// internal/dom/dom.go
// Package dom defines the document tree consumed by the styling and layout
// stages. The tree is produced once by a front-end parser and treated as
// read-only for the rest of the pipeline.
package dom

import "strings"

// NodeType distinguishes the two kinds of document nodes.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is a single node in the document tree. Element nodes carry a tag
// name, an attribute map with at most one value per key, and an ordered
// child list. Text nodes carry only their content.
type Node struct {
	Type       NodeType
	Text       string
	TagName    string
	Attributes map[string]string
	Children   []*Node
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{Type: TextNode, Text: content}
}

// Element creates an element node with the given tag, attributes, and
// children, in document order.
func Element(tag string, attrs map[string]string, children ...*Node) *Node {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Node{
		Type:       ElementNode,
		TagName:    tag,
		Attributes: attrs,
		Children:   children,
	}
}

// Attr returns the value of the named attribute, if present.
func (n *Node) Attr(name string) (string, bool) {
	if n.Type != ElementNode {
		return "", false
	}
	v, ok := n.Attributes[name]
	return v, ok
}

// ID returns the element's id attribute, if present.
func (n *Node) ID() (string, bool) {
	return n.Attr("id")
}

// Classes returns the space-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// HasClass reports whether the element's class attribute contains the
// given token.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes() {
		if c == class {
			return true
		}
	}
	return false
}
