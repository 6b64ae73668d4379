// File: api/schemas/boxtree.go

// Package schemas defines the wire types emitted by the renderer.
package schemas

import (
	"io"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/xantheum/reflow/internal/layout"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BoxKind labels a snapshot node with the formatting role of its box.
type BoxKind string

const (
	BoxKindBlock     BoxKind = "block"
	BoxKindInline    BoxKind = "inline"
	BoxKindAnonymous BoxKind = "anonymous"
)

// Rect is the serialized form of a layout rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoxNode is one node of the serialized box tree. Boxes the solver
// skipped (inline content, anonymous wrappers) carry NotComputed and
// zeroed rectangles.
type BoxNode struct {
	ID          string     `json:"id"`
	Kind        BoxKind    `json:"kind"`
	TagName     string     `json:"tag_name,omitempty"`
	NotComputed bool       `json:"not_computed,omitempty"`
	ContentBox  Rect       `json:"content_box"`
	PaddingBox  Rect       `json:"padding_box"`
	BorderBox   Rect       `json:"border_box"`
	MarginBox   Rect       `json:"margin_box"`
	Children    []*BoxNode `json:"children,omitempty"`
}

// Snapshot flattens a laid-out box tree into its serializable form.
func Snapshot(root *layout.LayoutBox) *BoxNode {
	if root == nil {
		return nil
	}
	node := &BoxNode{
		ID:   uuid.NewString(),
		Kind: boxKind(root.BoxType),
	}
	if sn, err := root.StyleNode(); err == nil && sn.Node != nil {
		node.TagName = sn.Node.TagName
	}

	dims, err := root.ComputedDimensions()
	if err != nil {
		node.NotComputed = true
	} else {
		node.ContentBox = toRect(dims.Content)
		node.PaddingBox = toRect(dims.PaddingBox())
		node.BorderBox = toRect(dims.BorderBox())
		node.MarginBox = toRect(dims.MarginBox())
	}

	for _, child := range root.Children {
		node.Children = append(node.Children, Snapshot(child))
	}
	return node
}

// Marshal renders the snapshot as indented JSON.
func (b *BoxNode) Marshal() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Encode streams the snapshot to a writer.
func (b *BoxNode) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func boxKind(t layout.BoxType) BoxKind {
	switch t {
	case layout.BlockBox:
		return BoxKindBlock
	case layout.InlineBox:
		return BoxKindInline
	default:
		return BoxKindAnonymous
	}
}

func toRect(r layout.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
