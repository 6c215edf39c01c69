package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"boxlayout/pkg/css"
	"boxlayout/pkg/html"
	"boxlayout/pkg/text"
)

// LineMaker breaks the inline content of one anonymous block into lines.
// It consumes a FIFO work list; every box it produces lands in boxes, and
// lines partition boxes into contiguous ranges.
type LineMaker struct {
	le       *LayoutEngine
	floats   *Floats
	maxWidth Au
	align    css.TextAlign

	work  []*LayoutBox
	boxes []*LayoutBox
	lines []Line

	start     int // first box of the open line
	curWidth  Au
	curHeight Au // top of the open line
	above     Au
	under     Au
	reserve   Au // right edges of the inline boxes being flattened
	// left edges of inline boxes that have not produced a box yet; they
	// move to the next line with their first fragment
	pendingLeft Au
}

func newLineMaker(le *LayoutEngine, floats *Floats, maxWidth Au, align css.TextAlign) *LineMaker {
	return &LineMaker{le: le, floats: floats, maxWidth: maxWidth, align: align}
}

// layoutAnonymousBlock lays out a run of inline content as line boxes. The
// block spans the containing block's width and is as tall as its lines.
func (le *LayoutEngine) layoutAnonymousBlock(b *LayoutBox, floats *Floats, cb Dimensions) {
	d := &b.Dims
	*d = Dimensions{}
	d.Content.Width = cb.Content.Width
	b.Phase = WidthResolved
	d.Content.Y = cb.Content.Height
	b.Phase = PositionResolved

	own := floats.Clone()
	own.Translate(EdgeSizes{Top: d.Content.Y})

	lm := newLineMaker(le, own, d.Content.Width, b.Style.GetTextAlign())
	lm.work = append(lm.work, b.Children...)
	lm.run()
	lm.endOfLines()
	lm.assignPosition()

	b.Children = lm.boxes
	b.Lines = lm.lines
	b.Phase = ChildrenLaidOut
	d.Content.Height = lm.curHeight
	b.Phase = HeightResolved
}

func (lm *LineMaker) run() {
	for len(lm.work) > 0 {
		box := lm.work[0]
		lm.work = lm.work[1:]

		if box.Node != nil && box.Node.Type == html.TextNode {
			if _, ok := box.Type.(TextRun); !ok {
				invariant(box, "text node with %s box type", box.Type)
			}
		}
		switch box.Type.(type) {
		case TextRun:
			lm.runText(box)
		case Inline:
			if box.Info.Image != nil {
				lm.runAtomic(box)
			} else {
				lm.runInline(box)
			}
		case InlineBlock:
			lm.runAtomic(box)
		default:
			invariant(box, "%s box in inline formatting context", box.Type)
		}
	}
}

// available returns the width of the open line left by floats.
func (lm *LineMaker) available() Au {
	return lm.floats.AvailableArea(lm.maxWidth, lm.curHeight).Width - lm.reserve
}

func (lm *LineMaker) lineEmpty() bool {
	return len(lm.boxes) == lm.start
}

func (lm *LineMaker) flushLine() {
	lm.lines = append(lm.lines, Line{
		Start: lm.start,
		End:   len(lm.boxes),
		Above: lm.above,
		Under: lm.under,
	})
	lm.curHeight += lm.above + lm.under
	lm.start = len(lm.boxes)
	lm.curWidth = lm.pendingLeft
	lm.above, lm.under = 0, 0
}

func (lm *LineMaker) endOfLines() {
	if !lm.lineEmpty() {
		lm.flushLine()
	}
}

func (lm *LineMaker) runText(box *LayoutBox) {
	t := box.Type.(TextRun)
	s := box.Node.Text
	fs := PxToAu(t.Font.Size)
	lh := PxToAu(box.Style.GetLineHeight())
	half := (lh - fs) / 2

	pos := t.Start
	for pos < t.End {
		n := lm.maxChars(s[pos:t.End], t.Font, lm.available()-lm.curWidth)
		if n == 0 {
			if !lm.lineEmpty() {
				lm.flushLine()
				continue
			}
			// Nothing fits on an empty line; take one character anyway.
			_, n = utf8.DecodeRuneInString(s[pos:t.End])
		}
		end := pos + n

		piece := box.shallowClone()
		piece.Type = TextRun{Start: pos, End: end, Font: t.Font}
		measured := s[pos:end]
		if end < t.End {
			// whitespace at a break hangs past the line end
			measured = strings.TrimRightFunc(measured, unicode.IsSpace)
		}
		piece.Dims = Dimensions{Content: Rect{Width: lm.le.measure(measured, t.Font), Height: fs}}
		piece.Phase = WidthResolved

		lm.boxes = append(lm.boxes, piece)
		lm.pendingLeft = 0
		lm.curWidth += piece.Dims.Content.Width
		lm.above = max(lm.above, lh-half)
		lm.under = max(lm.under, half)

		pos = end
		if pos < t.End {
			lm.flushLine()
		}
	}
}

// maxChars returns the byte length of the longest prefix of s that fits in
// width. On overflow it breaks after the last whitespace up to and
// including the overflowing character, or else right before that
// character, which may leave nothing.
func (lm *LineMaker) maxChars(s string, f text.Font, width Au) int {
	if lm.le.measure(s, f) <= width {
		return len(s)
	}
	lastBreak := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		end := i + size
		if unicode.IsSpace(r) {
			lastBreak = end
		}
		if lm.le.measure(s[:end], f) > width {
			if lastBreak > 0 {
				return lastBreak
			}
			return i
		}
		i = end
	}
	return len(s)
}

// runInline flattens an inline element: its children join the line, and
// every box they produce is wrapped in a fragment of the element.
func (lm *LineMaker) runInline(box *LayoutBox) {
	box.Dims = Dimensions{
		Padding: edgeSizes(box.Style, "padding", lm.maxWidth),
		Border:  edgeSizes(box.Style, "border", lm.maxWidth),
		Margin:  edgeSizes(box.Style, "margin", lm.maxWidth),
	}
	e := box.Dims.edges()

	saved := lm.work
	lm.work = append([]*LayoutBox(nil), box.Children...)
	first := len(lm.boxes)

	lm.curWidth += e.Left
	lm.pendingLeft += e.Left
	lm.reserve += e.Right
	lm.run()
	lm.reserve -= e.Right
	lm.curWidth += e.Right

	lm.work = saved
	lm.wrapFragments(box, first)
}

// wrapFragments replaces boxes[first:] with fragments of the inline box,
// one per produced box. Only the first fragment keeps the left edges and
// only the last the right edges.
func (lm *LineMaker) wrapFragments(box *LayoutBox, first int) {
	frags := lm.boxes[first:]
	if len(frags) == 0 {
		empty := box.shallowClone()
		empty.Phase = WidthResolved
		lm.boxes = append(lm.boxes, empty)
		lm.pendingLeft = 0
		return
	}
	n := len(frags)
	for i, child := range frags {
		w := box.shallowClone()
		if n > 1 {
			if i > 0 {
				w.Dims.Margin.Left, w.Dims.Border.Left, w.Dims.Padding.Left = 0, 0, 0
			}
			if i < n-1 {
				w.Dims.Margin.Right, w.Dims.Border.Right, w.Dims.Padding.Right = 0, 0, 0
			}
		}
		mb := child.Dims.MarginBox()
		ce := child.Dims.edges()
		w.Dims.Content.Width = mb.Width
		w.Dims.Content.Height = mb.Height
		child.Dims.Content.X = ce.Left
		child.Dims.Content.Y = ce.Top
		w.Children = []*LayoutBox{child}
		w.Phase = WidthResolved
		lm.boxes[first+i] = w
	}
}

// runAtomic places an inline-block or image as a single unit, starting a
// new line first when it does not fit on the open one.
func (lm *LineMaker) runAtomic(box *LayoutBox) {
	if _, ok := box.Type.(InlineBlock); ok {
		// Layout replaces the children with line boxes, so a retry on the
		// next line starts again from an untouched copy.
		pristine := box.Clone()
		lm.le.layoutInlineBlock(box, max(0, lm.available()-lm.curWidth))
		if lm.curWidth+box.Dims.MarginBox().Width > lm.available() && !lm.lineEmpty() {
			lm.flushLine()
			box = pristine
			lm.le.layoutInlineBlock(box, max(0, lm.available()-lm.curWidth))
		}
	} else {
		box.Dims = Dimensions{
			Padding: edgeSizes(box.Style, "padding", lm.maxWidth),
			Border:  edgeSizes(box.Style, "border", lm.maxWidth),
			Margin:  edgeSizes(box.Style, "margin", lm.maxWidth),
		}
		box.Dims.Content.Width, box.Dims.Content.Height = box.replacedSize(lm.maxWidth, indefinite)
		box.ZIndex = box.Style.GetZIndex()
		if lm.curWidth+box.Dims.MarginBox().Width > lm.available() && !lm.lineEmpty() {
			lm.flushLine()
		}
	}

	mb := box.Dims.MarginBox()
	lm.boxes = append(lm.boxes, box)
	lm.pendingLeft = 0
	lm.curWidth += mb.Width
	lm.above = max(lm.above, mb.Height)
}

// assignPosition places every box of every line, aligning each box's
// baseline with the line's.
func (lm *LineMaker) assignPosition() {
	var y Au
	for i := range lm.lines {
		line := &lm.lines[i]
		boxes := lm.boxes[line.Start:line.End]
		for _, b := range boxes {
			line.Width += b.Dims.MarginBox().Width
		}

		area := lm.floats.AvailableArea(lm.maxWidth, y)
		x := area.X + alignOffset(lm.align, area.Width, line.Width)
		for _, b := range boxes {
			e := b.Dims.edges()
			b.Dims.Content.X = x + e.Left
			b.Dims.Content.Y = y + line.Above - inlineAscent(b)
			x += b.Dims.MarginBox().Width
			markResolved(b)
		}
		y += line.Height()
	}
	lm.curHeight = y
}

func alignOffset(align css.TextAlign, available, lineWidth Au) Au {
	switch align {
	case css.TextAlignCenter:
		return (available - lineWidth) / 2
	case css.TextAlignRight:
		return available - lineWidth
	}
	return 0
}

// inlineAscent returns the distance from the top of b's content box to
// its baseline. Atomic boxes sit with their margin box on the baseline.
func inlineAscent(b *LayoutBox) Au {
	switch b.Type.(type) {
	case TextRun:
		return b.Dims.Content.Height
	case Inline:
		if b.Info.Image == nil && len(b.Children) == 1 {
			c := b.Children[0]
			return c.Dims.Content.Y + inlineAscent(c)
		}
	}
	return b.Dims.Content.Height + b.Dims.Padding.Bottom + b.Dims.Border.Bottom + b.Dims.Margin.Bottom
}

func markResolved(b *LayoutBox) {
	if b.Phase == HeightResolved {
		return
	}
	b.Phase = HeightResolved
	for _, c := range b.Children {
		markResolved(c)
	}
}
