package layout

import (
	"boxlayout/pkg/css"
)

// indefinite marks a containing block whose height is not known before its
// children are laid out.
const indefinite = Au(-1)

// layoutBox lays out a block-level box inside cb. cb.Content.Height is the
// height the container has accumulated so far; cbHeight is the container's
// specified height, or indefinite.
func (le *LayoutEngine) layoutBox(b *LayoutBox, floats *Floats, lastMarginBottom Au, cb Dimensions, cbHeight Au) {
	switch b.Type.(type) {
	case Block:
		le.layoutBlock(b, floats, lastMarginBottom, cb, cbHeight)
	case AnonymousBlock:
		le.layoutAnonymousBlock(b, floats, cb)
	case Float:
		le.layoutFloat(b, floats, cb, cbHeight)
	case None:
		b.Phase = HeightResolved
	default:
		invariant(b, "%s box in block formatting context", b.Type)
	}
}

func (le *LayoutEngine) layoutBlock(b *LayoutBox, floats *Floats, lastMarginBottom Au, cb Dimensions, cbHeight Au) {
	// Child width can depend on parent width, so this box's width is
	// resolved before its children are laid out.
	b.calculateBlockWidth(cb)
	b.calculateBlockPosition(lastMarginBottom, cb)

	own := floats.Clone()
	own.Translate(EdgeSizes{
		Top:   b.Dims.Content.Y,
		Left:  b.Dims.Content.X,
		Right: b.Dims.Margin.Right + b.Dims.Border.Right + b.Dims.Padding.Right,
	})

	height, definite := b.specifiedHeight(cbHeight)
	childHeight := indefinite
	if definite {
		childHeight = height
	}
	le.layoutBlockChildren(b, own, childHeight)

	// Parent height can depend on child height, so the height is resolved
	// after the children.
	if definite {
		b.Dims.Content.Height = height
	}
	b.Phase = HeightResolved
}

// calculateBlockWidth resolves width, horizontal margins, borders and
// padding so that together they add up to the containing block's width.
func (b *LayoutBox) calculateBlockWidth(cb Dimensions) {
	style := b.Style
	fs := style.GetFontSize()
	cw := cb.Content.Width
	d := &b.Dims

	d.Padding = edgeSizes(style, "padding", cw)
	d.Border = edgeSizes(style, "border", cw)

	width, widthAuto := Au(0), true
	if w, ok := resolveLength(style.Lookup("width", "", css.Auto), cw, fs); ok && w >= 0 {
		width, widthAuto = w, false
	} else if b.Info.Image != nil {
		w, _ := b.replacedSize(cw, indefinite)
		width, widthAuto = w, false
	}

	margin := func(side css.Side) (Au, bool) {
		v := style.GetEdge("margin", side)
		if v.IsAuto() {
			return 0, true
		}
		au, _ := resolveLength(v, cw, fs)
		return au, false
	}
	marginLeft, mlAuto := margin(css.Left)
	marginRight, mrAuto := margin(css.Right)

	total := marginLeft + marginRight + d.Border.Horizontal() + d.Padding.Horizontal() + width

	// If width is not auto and the total is wider than the container, treat
	// auto margins as 0.
	if !widthAuto && total > cw {
		mlAuto, mrAuto = false, false
	}

	underflow := cw - total

	switch {
	case !widthAuto && !mlAuto && !mrAuto:
		// Over-constrained: margin-right absorbs the difference. When the
		// box is wider than its container this leaves margin-right
		// negative, which keeps the horizontal sum equal to the width.
		marginRight += underflow
	case !widthAuto && !mlAuto && mrAuto:
		marginRight = underflow
	case !widthAuto && mlAuto && !mrAuto:
		marginLeft = underflow
	case widthAuto:
		if underflow >= 0 {
			width = underflow
		} else {
			// Width can't be negative.
			width = 0
			marginRight += underflow
		}
	default:
		marginLeft = underflow / 2
		marginRight = underflow - marginLeft
	}

	d.Content.Width = width
	d.Margin.Left = marginLeft
	d.Margin.Right = marginRight
	b.Phase = WidthResolved
}

// calculateBlockPosition resolves the vertical edges and places the box
// below the content its container has accumulated so far.
func (b *LayoutBox) calculateBlockPosition(lastMarginBottom Au, cb Dimensions) {
	style := b.Style
	cw := cb.Content.Width
	d := &b.Dims

	margin := edgeSizes(style, "margin", cw)
	d.Margin.Top = collapseMargins(lastMarginBottom, margin.Top)
	d.Margin.Bottom = margin.Bottom
	b.ZIndex = style.GetZIndex()

	d.Content.X = d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = cb.Content.Height + d.Margin.Top + d.Border.Top + d.Padding.Top
	b.Phase = PositionResolved
}

// layoutBlockChildren lays out the children top to bottom and sets the
// content height to their total.
func (le *LayoutEngine) layoutBlockChildren(b *LayoutBox, floats *Floats, cbHeight Au) {
	d := &b.Dims
	d.Content.Height = 0
	var lastMarginBottom Au

	for _, child := range b.Children {
		if clear := child.Style.GetClear(); clear != css.ClearNone {
			d.Content.Height += floats.Clearance(clear, d.Content.Height)
		}
		if floats.IsPresent() {
			floats.RaiseCeiling(d.Content.Height)
		}

		le.layoutBox(child, floats, lastMarginBottom, *d, cbHeight)

		if _, isFloat := child.Type.(Float); isFloat {
			continue
		}
		lastMarginBottom = child.Dims.Margin.Bottom
		d.Content.Height += child.Dims.MarginBox().Height
	}
	b.Phase = ChildrenLaidOut
}

// specifiedHeight returns the height property when it resolves: a length,
// or a percentage of a definite containing height.
func (b *LayoutBox) specifiedHeight(cbHeight Au) (Au, bool) {
	v, ok := b.Style.First("height")
	if !ok || v.IsAuto() {
		if b.Info.Image != nil {
			return b.replacedHeight(b.Dims.Content.Width, cbHeight), true
		}
		return 0, false
	}
	if v.Kind == css.LengthValue && v.Unit == css.UnitPercent && cbHeight == indefinite {
		return 0, false
	}
	h, ok := resolveLength(v, max(cbHeight, 0), b.Style.GetFontSize())
	if !ok || h < 0 {
		return 0, false
	}
	return h, true
}
