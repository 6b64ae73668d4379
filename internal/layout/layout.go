// internal/layout/layout.go

// Package layout turns a styled tree into a tree of boxes and solves
// the block box model for it.
package layout

import (
	"fmt"

	"github.com/xantheum/reflow/internal/style"
)

// -- Core Structures: Box Model and Dimensions --

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// ExpandedBy returns the rectangle grown outward by the edge sizes.
func (r Rect) ExpandedBy(e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// EdgeSizes holds per-side thicknesses for one ring of the box model.
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Dimensions defines the geometry of a layout box: the content rect
// plus the padding, border, and margin rings around it.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// PaddingBox returns the rectangle enclosing content and padding.
func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BorderBox returns the rectangle enclosing content, padding, and border.
func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// MarginBox returns the full rectangle including the margin ring.
func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// BoxType classifies how a layout box participates in formatting.
type BoxType int

const (
	// BlockBox is generated by an element with display:block.
	BlockBox BoxType = iota
	// InlineBox is generated by an element with display:inline or by text.
	InlineBox
	// AnonymousBlock is a synthesized wrapper that groups consecutive
	// inline children inside a block container.
	AnonymousBlock
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case AnonymousBlock:
		return "anonymous"
	default:
		return fmt.Sprintf("BoxType(%d)", int(t))
	}
}

// State tracks how far layout has progressed for one box. Geometry
// fields are only trustworthy once the matching phase has run.
type State int

const (
	StateUnlaid State = iota
	StateWidthResolved
	StatePositionResolved
	StateChildrenLaidOut
	StateHeightResolved
)

func (s State) String() string {
	switch s {
	case StateUnlaid:
		return "unlaid"
	case StateWidthResolved:
		return "width-resolved"
	case StatePositionResolved:
		return "position-resolved"
	case StateChildrenLaidOut:
		return "children-laid-out"
	case StateHeightResolved:
		return "height-resolved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LayoutBox is one node of the box tree.
type LayoutBox struct {
	Dimensions Dimensions
	BoxType    BoxType
	Children   []*LayoutBox

	styled *style.StyledNode
	state  State
}

// NewLayoutBox builds a box with zeroed dimensions. Anonymous blocks
// carry no styled node.
func NewLayoutBox(boxType BoxType, styled *style.StyledNode) *LayoutBox {
	return &LayoutBox{BoxType: boxType, styled: styled}
}

// State reports the layout phase this box has reached.
func (lb *LayoutBox) State() State {
	return lb.state
}

// StyleNode returns the styled node behind this box. Anonymous blocks
// have none; asking for it is a programming error.
func (lb *LayoutBox) StyleNode() (*style.StyledNode, error) {
	if lb.BoxType == AnonymousBlock || lb.styled == nil {
		return nil, &InvariantError{Msg: "anonymous block has no style node"}
	}
	return lb.styled, nil
}

// ComputedDimensions returns the box geometry once layout has fully
// resolved it, and a wrapped ErrUnsupported before that.
func (lb *LayoutBox) ComputedDimensions() (Dimensions, error) {
	if lb.state != StateHeightResolved {
		return Dimensions{}, fmt.Errorf("box %s in state %s: %w", lb.BoxType, lb.state, ErrUnsupported)
	}
	return lb.Dimensions, nil
}

// -- Box Tree Construction --

// BuildLayoutTree converts a styled tree into a box tree. display:none
// subtrees are pruned; a root that is itself display:none has no box to
// build and violates the caller contract.
func BuildLayoutTree(sn *style.StyledNode) (*LayoutBox, error) {
	var root *LayoutBox
	switch sn.Display() {
	case style.DisplayBlock:
		root = NewLayoutBox(BlockBox, sn)
	case style.DisplayInline:
		root = NewLayoutBox(InlineBox, sn)
	default:
		return nil, &InvariantError{Msg: "root element has display: none"}
	}
	buildChildren(root, sn)
	return root, nil
}

func buildChildren(box *LayoutBox, sn *style.StyledNode) {
	for _, child := range sn.Children {
		switch child.Display() {
		case style.DisplayBlock:
			childBox := NewLayoutBox(BlockBox, child)
			buildChildren(childBox, child)
			box.Children = append(box.Children, childBox)
		case style.DisplayInline:
			childBox := NewLayoutBox(InlineBox, child)
			buildChildren(childBox, child)
			container := box.getInlineContainer()
			container.Children = append(container.Children, childBox)
		case style.DisplayNone:
			// Pruned together with its subtree.
		}
	}
}

// getInlineContainer returns where an inline child belongs. Inline
// boxes take children directly; block containers funnel them into a
// trailing anonymous block, reusing it across consecutive inline
// siblings so runs coalesce into a single wrapper.
func (lb *LayoutBox) getInlineContainer() *LayoutBox {
	switch lb.BoxType {
	case InlineBox, AnonymousBlock:
		return lb
	default:
		n := len(lb.Children)
		if n == 0 || lb.Children[n-1].BoxType != AnonymousBlock {
			lb.Children = append(lb.Children, NewLayoutBox(AnonymousBlock, nil))
			n++
		}
		return lb.Children[n-1]
	}
}
