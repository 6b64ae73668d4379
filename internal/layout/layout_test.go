// internal/layout/layout_test.go
package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xantheum/reflow/internal/css"
	"github.com/xantheum/reflow/internal/dom"
	"github.com/xantheum/reflow/internal/layout"
	"github.com/xantheum/reflow/internal/style"
)

// -- Test Helpers --

// buildTree parses CSS, styles the document, and constructs the box
// tree without laying it out.
func buildTree(t *testing.T, doc *dom.Node, cssString string) *layout.LayoutBox {
	t.Helper()
	sheet, err := css.Parse(cssString)
	require.NoError(t, err, "Failed to parse test CSS")
	root, err := layout.BuildLayoutTree(style.Tree(doc, sheet))
	require.NoError(t, err)
	return root
}

func block(attrs map[string]string, children ...*dom.Node) *dom.Node {
	return dom.Element("div", attrs, children...)
}

// -- Test Cases --

func TestBuildLayoutTreeRootDisplayNone(t *testing.T) {
	sheet, err := css.Parse(`div { display: none; }`)
	require.NoError(t, err)

	_, err = layout.BuildLayoutTree(style.Tree(block(nil), sheet))
	require.Error(t, err)

	var invErr *layout.InvariantError
	assert.ErrorAs(t, err, &invErr)
}

func TestBuildLayoutTreePrunesNoneSubtrees(t *testing.T) {
	doc := block(nil,
		block(map[string]string{"class": "hidden"},
			block(nil),
		),
		block(nil),
	)
	root := buildTree(t, doc, `
		div { display: block; }
		.hidden { display: none; }
	`)

	require.Len(t, root.Children, 1)
	assert.Equal(t, layout.BlockBox, root.Children[0].BoxType)
}

func TestBuildLayoutTreeAnonymousBlockCoalescing(t *testing.T) {
	doc := block(nil,
		dom.Element("span", nil),
		dom.Element("em", nil),
		block(map[string]string{"class": "sep"}),
		dom.Element("b", nil),
	)
	root := buildTree(t, doc, `div { display: block; }`)

	// Two inline runs around a block separator give exactly two
	// anonymous wrappers, never consecutive ones.
	require.Len(t, root.Children, 3)
	assert.Equal(t, layout.AnonymousBlock, root.Children[0].BoxType)
	assert.Equal(t, layout.BlockBox, root.Children[1].BoxType)
	assert.Equal(t, layout.AnonymousBlock, root.Children[2].BoxType)

	assert.Len(t, root.Children[0].Children, 2)
	assert.Len(t, root.Children[2].Children, 1)

	for i := 1; i < len(root.Children); i++ {
		consecutive := root.Children[i-1].BoxType == layout.AnonymousBlock &&
			root.Children[i].BoxType == layout.AnonymousBlock
		assert.False(t, consecutive, "anonymous siblings must coalesce")
	}
}

func TestBuildLayoutTreeInlineChildrenOfInlineParent(t *testing.T) {
	doc := dom.Element("span", nil,
		dom.Element("em", nil),
	)
	root := buildTree(t, doc, ``)

	// Inline parents hold inline children directly, no wrapper.
	require.Equal(t, layout.InlineBox, root.BoxType)
	require.Len(t, root.Children, 1)
	assert.Equal(t, layout.InlineBox, root.Children[0].BoxType)
}

func TestStyleNodeOnAnonymousBlock(t *testing.T) {
	doc := block(nil, dom.Element("span", nil))
	root := buildTree(t, doc, `div { display: block; }`)

	require.Len(t, root.Children, 1)
	anon := root.Children[0]
	require.Equal(t, layout.AnonymousBlock, anon.BoxType)

	_, err := anon.StyleNode()
	var invErr *layout.InvariantError
	assert.ErrorAs(t, err, &invErr)
}

func TestBoxTypeString(t *testing.T) {
	assert.Equal(t, "block", layout.BlockBox.String())
	assert.Equal(t, "inline", layout.InlineBox.String())
	assert.Equal(t, "anonymous", layout.AnonymousBlock.String())
}

func TestRectExpandedBy(t *testing.T) {
	r := layout.Rect{X: 10, Y: 20, Width: 100, Height: 50}
	e := layout.EdgeSizes{Top: 1, Right: 2, Bottom: 3, Left: 4}

	expanded := r.ExpandedBy(e)
	assert.Equal(t, layout.Rect{X: 6, Y: 19, Width: 106, Height: 54}, expanded)
}

func TestDimensionsBoxes(t *testing.T) {
	d := layout.Dimensions{
		Content: layout.Rect{X: 50, Y: 50, Width: 100, Height: 20},
		Padding: layout.EdgeSizes{Top: 5, Right: 5, Bottom: 5, Left: 5},
		Border:  layout.EdgeSizes{Top: 1, Right: 1, Bottom: 1, Left: 1},
		Margin:  layout.EdgeSizes{Top: 10, Right: 10, Bottom: 10, Left: 10},
	}

	assert.Equal(t, layout.Rect{X: 45, Y: 45, Width: 110, Height: 30}, d.PaddingBox())
	assert.Equal(t, layout.Rect{X: 44, Y: 44, Width: 112, Height: 32}, d.BorderBox())
	assert.Equal(t, layout.Rect{X: 34, Y: 34, Width: 132, Height: 52}, d.MarginBox())
}
