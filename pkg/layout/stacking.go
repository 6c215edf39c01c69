package layout

import (
	"sort"
)

// PaintOrder returns the children of b in the order they are painted:
// ascending z-index, ties in document order.
func PaintOrder(b *LayoutBox) []*LayoutBox {
	sorted := make([]*LayoutBox, len(b.Children))
	copy(sorted, b.Children)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZIndex < sorted[j].ZIndex
	})
	return sorted
}

// AbsoluteDimensions returns d with its content box moved from the parent's
// content origin (originX, originY) to page coordinates.
func AbsoluteDimensions(d Dimensions, originX, originY Au) Dimensions {
	d.Content.X += originX
	d.Content.Y += originY
	return d
}

// Walk visits the tree in paint order. fn receives each box with its
// dimensions in page coordinates and its depth; returning false skips the
// box's children.
func Walk(root *LayoutBox, fn func(b *LayoutBox, abs Dimensions, depth int) bool) {
	walk(root, 0, 0, 0, fn)
}

func walk(b *LayoutBox, originX, originY Au, depth int, fn func(*LayoutBox, Dimensions, int) bool) {
	abs := AbsoluteDimensions(b.Dims, originX, originY)
	if !fn(b, abs, depth) {
		return
	}
	for _, c := range PaintOrder(b) {
		walk(c, abs.Content.X, abs.Content.Y, depth+1, fn)
	}
}
