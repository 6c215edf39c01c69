package layout

import (
	"fmt"

	"boxlayout/pkg/css"
	"boxlayout/pkg/html"
	"boxlayout/pkg/text"
)

// Rect represents a rectangular region
type Rect struct {
	X      Au
	Y      Au
	Width  Au
	Height Au
}

// ExpandedBy returns the rect grown outward by the edge sizes.
func (r Rect) ExpandedBy(e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Contains reports whether o lies inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

type EdgeSizes struct {
	Top    Au
	Right  Au
	Bottom Au
	Left   Au
}

func (e EdgeSizes) Horizontal() Au { return e.Left + e.Right }
func (e EdgeSizes) Vertical() Au   { return e.Top + e.Bottom }

func (e EdgeSizes) Add(o EdgeSizes) EdgeSizes {
	return EdgeSizes{e.Top + o.Top, e.Right + o.Right, e.Bottom + o.Bottom, e.Left + o.Left}
}

// Dimensions is the CSS box model of one box. Content is relative to the
// content origin of the parent box.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

func (d Dimensions) PaddingBox() Rect { return d.Content.ExpandedBy(d.Padding) }
func (d Dimensions) BorderBox() Rect  { return d.PaddingBox().ExpandedBy(d.Border) }
func (d Dimensions) MarginBox() Rect  { return d.BorderBox().ExpandedBy(d.Margin) }

// edges is the sum of margin, border and padding.
func (d Dimensions) edges() EdgeSizes {
	return d.Margin.Add(d.Border).Add(d.Padding)
}

// BoxType is the kind of box a node generates. The set of variants is
// closed; TextRun carries the byte range of its text node.
type BoxType interface {
	fmt.Stringer
	boxType()
}

type (
	Block          struct{}
	Inline         struct{}
	InlineBlock    struct{}
	AnonymousBlock struct{}
	None           struct{}

	Float struct {
		Side css.FloatType
	}

	// TextRun is a slice [Start, End) of the node's text set in Font.
	TextRun struct {
		Start, End int
		Font       text.Font
	}
)

func (Block) boxType()          {}
func (Inline) boxType()         {}
func (InlineBlock) boxType()    {}
func (AnonymousBlock) boxType() {}
func (None) boxType()           {}
func (Float) boxType()          {}
func (TextRun) boxType()        {}

func (Block) String() string          { return "block" }
func (Inline) String() string         { return "inline" }
func (InlineBlock) String() string    { return "inline-block" }
func (AnonymousBlock) String() string { return "anonymous" }
func (None) String() string           { return "none" }
func (f Float) String() string        { return "float-" + string(f.Side) }
func (t TextRun) String() string      { return fmt.Sprintf("text[%d:%d]", t.Start, t.End) }

// Phase tracks how far layout has progressed on a box within one pass.
type Phase int

const (
	Unsized Phase = iota
	WidthResolved
	PositionResolved
	ChildrenLaidOut
	HeightResolved
)

func (p Phase) String() string {
	switch p {
	case Unsized:
		return "unsized"
	case WidthResolved:
		return "width-resolved"
	case PositionResolved:
		return "position-resolved"
	case ChildrenLaidOut:
		return "children-laid-out"
	case HeightResolved:
		return "height-resolved"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ImageInfo is the intrinsic size of a replaced element. Err is set when
// the image collaborator could not size the source; the box then lays out
// from its width and height attributes alone.
type ImageInfo struct {
	Src    string
	Width  int
	Height int
	Err    error
}

// LayoutInfo carries what layout needs beyond the style. Image is nil for
// non-replaced boxes.
type LayoutInfo struct {
	Image *ImageInfo
}

// LayoutBox is a node of the box tree. Children are owned exclusively; the
// tree has no parent pointers.
type LayoutBox struct {
	Node     *html.Node
	Style    css.PropertyMap
	Type     BoxType
	Dims     Dimensions
	ZIndex   int
	Info     LayoutInfo
	Phase    Phase
	Children []*LayoutBox

	// Lines is set on anonymous blocks after layout; each line is a range
	// over Children.
	Lines []Line
}

// Line is one line box of an anonymous block.
type Line struct {
	Start, End int // range over the anonymous block's children
	Above      Au  // above the baseline
	Under      Au  // below the baseline
	Width      Au  // sum of the margin-box widths
}

func (l Line) Height() Au { return l.Above + l.Under }

// Text returns the text of a TextRun box, or "" for other boxes.
func (b *LayoutBox) Text() string {
	t, ok := b.Type.(TextRun)
	if !ok || b.Node == nil {
		return ""
	}
	return b.Node.Text[t.Start:t.End]
}

// Clone deep-copies the box tree. Nodes and property maps are shared; they
// are not modified by layout.
func (b *LayoutBox) Clone() *LayoutBox {
	c := b.shallowClone()
	if b.Info.Image != nil {
		img := *b.Info.Image
		c.Info.Image = &img
	}
	if b.Lines != nil {
		c.Lines = append([]Line(nil), b.Lines...)
	}
	if len(b.Children) > 0 {
		c.Children = make([]*LayoutBox, len(b.Children))
		for i, child := range b.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

func (b *LayoutBox) shallowClone() *LayoutBox {
	c := *b
	c.Children = nil
	c.Lines = nil
	return &c
}

func (b *LayoutBox) tagName() string {
	if b.Node == nil {
		return ""
	}
	if b.Node.Type == html.TextNode {
		return "#text"
	}
	return b.Node.TagName
}

func (b *LayoutBox) String() string {
	if tag := b.tagName(); tag != "" {
		return fmt.Sprintf("%s <%s>", b.Type, tag)
	}
	return b.Type.String()
}

// Count returns the number of boxes in the tree.
func (b *LayoutBox) Count() int {
	n := 1
	for _, c := range b.Children {
		n += c.Count()
	}
	return n
}

// InvariantError reports an internal inconsistency in the box tree, such as
// a text node carrying a non-text box type. Layout panics with it.
type InvariantError struct {
	Box string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("layout invariant violated at %s: %s", e.Box, e.Msg)
}

func invariant(b *LayoutBox, format string, args ...any) {
	panic(&InvariantError{Box: b.String(), Msg: fmt.Sprintf(format, args...)})
}
