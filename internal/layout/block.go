// internal/layout/block.go
package layout

import "github.com/xantheum/reflow/internal/css"

// Layout solves geometry for this box within the given containing
// block. Only block boxes have a formatting algorithm today: inline and
// anonymous boxes are left in StateUnlaid and contribute no height, and
// asking them for computed dimensions reports ErrUnsupported.
func (lb *LayoutBox) Layout(containing Dimensions) error {
	if lb.BoxType != BlockBox {
		return nil
	}
	return lb.layoutBlock(containing)
}

// layoutBlock runs the four phases of CSS 2.1 block layout. Width
// depends only on the parent, height only on the children, so the
// order is width, position, children, height.
func (lb *LayoutBox) layoutBlock(containing Dimensions) error {
	if err := lb.calculateBlockWidth(containing); err != nil {
		return err
	}
	lb.state = StateWidthResolved

	lb.calculateBlockPosition(containing)
	lb.state = StatePositionResolved

	if err := lb.layoutBlockChildren(); err != nil {
		return err
	}
	lb.state = StateChildrenLaidOut

	lb.calculateBlockHeight()
	lb.state = StateHeightResolved
	return nil
}

// calculateBlockWidth resolves the horizontal constraint equation:
// margins + borders + padding + width must equal the containing
// block's content width.
func (lb *LayoutBox) calculateBlockWidth(containing Dimensions) error {
	sn, err := lb.StyleNode()
	if err != nil {
		return err
	}

	auto := css.NewKeyword("auto")
	zero := css.NewLength(0, css.UnitPx)

	width, ok := sn.Value("width")
	if !ok {
		width = auto
	}
	marginLeft := sn.Lookup("margin-left", "margin", zero)
	marginRight := sn.Lookup("margin-right", "margin", zero)
	borderLeft := sn.Lookup("border-left-width", "border-width", zero)
	borderRight := sn.Lookup("border-right-width", "border-width", zero)
	paddingLeft := sn.Lookup("padding-left", "padding", zero)
	paddingRight := sn.Lookup("padding-right", "padding", zero)

	total := width.ToPx() + marginLeft.ToPx() + marginRight.ToPx() +
		borderLeft.ToPx() + borderRight.ToPx() +
		paddingLeft.ToPx() + paddingRight.ToPx()

	// Over-constrained: auto margins are treated as zero before the
	// remaining slack is pushed into margin-right.
	if !width.IsKeyword("auto") && total > containing.Content.Width {
		if marginLeft.IsKeyword("auto") {
			marginLeft = zero
		}
		if marginRight.IsKeyword("auto") {
			marginRight = zero
		}
	}

	underflow := containing.Content.Width - total

	wAuto := width.IsKeyword("auto")
	mlAuto := marginLeft.IsKeyword("auto")
	mrAuto := marginRight.IsKeyword("auto")

	switch {
	case !wAuto && !mlAuto && !mrAuto:
		// Everything fixed: the right margin absorbs the slack, which
		// may make it negative.
		marginRight = css.NewLength(marginRight.ToPx()+underflow, css.UnitPx)

	case !wAuto && !mlAuto && mrAuto:
		marginRight = css.NewLength(underflow, css.UnitPx)

	case !wAuto && mlAuto && !mrAuto:
		marginLeft = css.NewLength(underflow, css.UnitPx)

	case wAuto:
		// An auto width swallows the slack; auto margins next to it
		// collapse to zero first.
		if mlAuto {
			marginLeft = zero
		}
		if mrAuto {
			marginRight = zero
		}
		if underflow >= 0 {
			width = css.NewLength(underflow, css.UnitPx)
		} else {
			// Width cannot go negative; the overflow lands in the
			// right margin instead.
			width = zero
			marginRight = css.NewLength(marginRight.ToPx()+underflow, css.UnitPx)
		}

	case mlAuto && mrAuto:
		marginLeft = css.NewLength(underflow/2, css.UnitPx)
		marginRight = css.NewLength(underflow/2, css.UnitPx)
	}

	d := &lb.Dimensions
	d.Content.Width = width.ToPx()
	d.Margin.Left = marginLeft.ToPx()
	d.Margin.Right = marginRight.ToPx()
	d.Border.Left = borderLeft.ToPx()
	d.Border.Right = borderRight.ToPx()
	d.Padding.Left = paddingLeft.ToPx()
	d.Padding.Right = paddingRight.ToPx()
	return nil
}

// calculateBlockPosition resolves vertical edges and places the box
// just below any content already laid out in the containing block.
func (lb *LayoutBox) calculateBlockPosition(containing Dimensions) {
	// StyleNode cannot fail here; width resolution already did the check.
	sn := lb.styled
	zero := css.NewLength(0, css.UnitPx)

	d := &lb.Dimensions
	d.Margin.Top = sn.Lookup("margin-top", "margin", zero).ToPx()
	d.Margin.Bottom = sn.Lookup("margin-bottom", "margin", zero).ToPx()
	d.Border.Top = sn.Lookup("border-top-width", "border-width", zero).ToPx()
	d.Border.Bottom = sn.Lookup("border-bottom-width", "border-width", zero).ToPx()
	d.Padding.Top = sn.Lookup("padding-top", "padding", zero).ToPx()
	d.Padding.Bottom = sn.Lookup("padding-bottom", "padding", zero).ToPx()

	d.Content.X = containing.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = containing.Content.Y + containing.Content.Height +
		d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutBlockChildren lays out children in document order, growing
// this box's content height by each child's margin box. The height is
// reset first so repeated layout of the same tree stays stable.
func (lb *LayoutBox) layoutBlockChildren() error {
	d := &lb.Dimensions
	d.Content.Height = 0
	for _, child := range lb.Children {
		if err := child.Layout(*d); err != nil {
			return err
		}
		d.Content.Height += child.Dimensions.MarginBox().Height
	}
	return nil
}

// calculateBlockHeight keeps the accumulated content height unless the
// stylesheet pinned an explicit pixel height.
func (lb *LayoutBox) calculateBlockHeight() {
	if h, ok := lb.styled.Value("height"); ok && h.Kind == css.Length {
		lb.Dimensions.Content.Height = h.ToPx()
	}
}
