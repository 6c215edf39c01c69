package layout

import (
	"boxlayout/pkg/css"
)

// PlacedFloat is a float's margin box in the coordinate space of the
// formatting context that owns it. Inset is the distance from the context's
// edge on the float's side to the float's inner edge.
type PlacedFloat struct {
	Rect  Rect
	Side  css.FloatType
	Inset Au
}

// Floats is the float bookkeeping of one block formatting context. A box
// works on its own clone, translated into its local coordinate space, so
// floats placed inside a subtree never leak to its siblings.
type Floats struct {
	list    []PlacedFloat
	ceiling Au        // lowest allowed top for new floats, context space
	offset  EdgeSizes // local content box, inset from the context's edges
}

func NewFloats() *Floats {
	return &Floats{}
}

func (f *Floats) Clone() *Floats {
	c := *f
	c.list = append([]PlacedFloat(nil), f.list...)
	return &c
}

func (f *Floats) IsPresent() bool {
	return len(f.list) > 0
}

// List returns the placed floats in placement order.
func (f *Floats) List() []PlacedFloat {
	return f.list
}

// Translate moves the local coordinate space by delta: Top and Left are
// the new origin's offset, Right the new right edge's inset.
func (f *Floats) Translate(delta EdgeSizes) {
	f.offset = f.offset.Add(delta)
}

// AddFloat records a float whose margin box is r in the local coordinates
// of a box maxWidth wide.
func (f *Floats) AddFloat(side css.FloatType, r Rect, maxWidth Au) {
	inset := f.offset.Left + r.X + r.Width
	if side == css.FloatRight {
		inset = f.offset.Right + maxWidth - r.X
	}
	r.X += f.offset.Left
	r.Y += f.offset.Top
	f.list = append(f.list, PlacedFloat{Rect: r, Side: side, Inset: inset})
}

// RaiseCeiling keeps new floats from being placed above local y.
func (f *Floats) RaiseCeiling(y Au) {
	f.ceiling = max(f.ceiling, y+f.offset.Top)
}

// Ceiling returns the ceiling in local coordinates.
func (f *Floats) Ceiling() Au {
	return f.ceiling - f.offset.Top
}

// AvailableArea returns the horizontal band left free by floats at local y
// within a line of maxWidth. X is the width taken by left floats; Height
// is the distance down to the nearest bottom of a float covering y, or 0
// when no float does.
func (f *Floats) AvailableArea(maxWidth, y Au) Rect {
	return f.availableSpan(maxWidth, y, 0)
}

// LeftWidth returns the width left floats take from the local box at y.
func (f *Floats) LeftWidth(y Au) Au {
	left, _, _ := f.occupied(y, 0)
	return left
}

// RightWidth returns the width right floats take from the local box at y.
func (f *Floats) RightWidth(y Au) Au {
	_, right, _ := f.occupied(y, 0)
	return right
}

// Clearance returns how far local y must move down to clear every float
// on the given side.
func (f *Floats) Clearance(clear css.ClearType, y Au) Au {
	var bottom Au
	found := false
	for _, fl := range f.list {
		switch {
		case clear == css.ClearBoth,
			clear == css.ClearLeft && fl.Side == css.FloatLeft,
			clear == css.ClearRight && fl.Side == css.FloatRight:
			bottom = max(bottom, fl.Rect.Y+fl.Rect.Height-f.offset.Top)
			found = true
		}
	}
	if !found {
		return 0
	}
	return max(0, bottom-y)
}

// availableSpan is AvailableArea for a band [y, y+height). A zero height
// queries the single line at y.
func (f *Floats) availableSpan(maxWidth, y, height Au) Rect {
	left, right, h := f.occupied(y, height)
	return Rect{
		X:      left,
		Y:      y,
		Width:  max(0, maxWidth-left-right),
		Height: h,
	}
}

func (f *Floats) occupied(y, height Au) (left, right, clear Au) {
	gy := y + f.offset.Top
	var leftOn, rightOn bool
	nearest := Au(-1)
	// Floats of one side stack inward in placement order, so once a later
	// float reaches the band every earlier float of its side counts too.
	for i := len(f.list) - 1; i >= 0; i-- {
		fl := f.list[i]
		covers := overlaps(fl.Rect, gy, height)
		if covers {
			if d := fl.Rect.Y + fl.Rect.Height - gy; nearest < 0 || d < nearest {
				nearest = d
			}
		}
		switch fl.Side {
		case css.FloatLeft:
			if leftOn || covers {
				leftOn = true
				left = max(left, fl.Inset)
			}
		case css.FloatRight:
			if rightOn || covers {
				rightOn = true
				right = max(right, fl.Inset)
			}
		}
	}
	if leftOn {
		left = max(0, left-f.offset.Left)
	}
	if rightOn {
		right = max(0, right-f.offset.Right)
	}
	return left, right, max(0, nearest)
}

func overlaps(r Rect, y, height Au) bool {
	if height <= 0 {
		return r.Y <= y && y < r.Y+r.Height
	}
	return r.Y < y+height && y < r.Y+r.Height
}
