package layout

import (
	"boxlayout/pkg/css"
)

// layoutFloat sizes a float, places it at the highest position at or below
// the float ceiling where its margin box fits beside the floats already
// placed, and records it in floats.
func (le *LayoutEngine) layoutFloat(b *LayoutBox, floats *Floats, cb Dimensions, cbHeight Au) {
	side := b.Type.(Float).Side
	le.layoutShrinkToFit(b, cb.Content.Width, cbHeight)

	d := &b.Dims
	edges := d.edges()
	w := d.Content.Width + edges.Horizontal()
	h := d.Content.Height + edges.Vertical()
	cw := cb.Content.Width

	y := max(floats.Ceiling(), cb.Content.Height)
	var area Rect
	for {
		area = floats.availableSpan(cw, y, h)
		if area.Width >= w || area.Height == 0 {
			break
		}
		y += area.Height
	}

	x := area.X
	if side == css.FloatRight {
		x = max(area.X, area.X+area.Width-w)
	}
	d.Content.X = x + edges.Left
	d.Content.Y = y + edges.Top
	b.Phase = PositionResolved

	floats.AddFloat(side, Rect{X: x, Y: y, Width: w, Height: h}, cw)
	b.Phase = HeightResolved
}

// layoutInlineBlock lays out an inline-block against the width left on
// the current line. The line maker positions it.
func (le *LayoutEngine) layoutInlineBlock(b *LayoutBox, cbWidth Au) {
	le.layoutShrinkToFit(b, cbWidth, indefinite)
	b.Phase = HeightResolved
}

// layoutShrinkToFit resolves the edges and width of a float or
// inline-block, then lays out its children in a new block formatting
// context. The height grows to enclose floats inside it. The box is left
// at the origin of its containing block.
func (le *LayoutEngine) layoutShrinkToFit(b *LayoutBox, cbWidth, cbHeight Au) {
	style := b.Style
	d := &b.Dims
	d.Padding = edgeSizes(style, "padding", cbWidth)
	d.Border = edgeSizes(style, "border", cbWidth)
	d.Margin = edgeSizes(style, "margin", cbWidth)
	d.Content.X, d.Content.Y = 0, 0
	b.ZIndex = style.GetZIndex()

	available := max(0, cbWidth-d.edges().Horizontal())
	if w, ok := resolveLength(style.Lookup("width", "", css.Auto), cbWidth, style.GetFontSize()); ok && w >= 0 {
		d.Content.Width = w
	} else if b.Info.Image != nil {
		d.Content.Width, _ = b.replacedSize(cbWidth, cbHeight)
	} else {
		d.Content.Width = le.contentSizes(b).shrinkToFit(available)
	}
	b.Phase = WidthResolved

	height, definite := b.specifiedHeight(cbHeight)
	childHeight := indefinite
	if definite {
		childHeight = height
	}
	inner := NewFloats()
	le.layoutBlockChildren(b, inner, childHeight)

	// A new formatting context contains its floats.
	if definite {
		d.Content.Height = height
	} else {
		d.Content.Height += inner.Clearance(css.ClearBoth, d.Content.Height)
	}
}
