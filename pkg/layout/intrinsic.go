package layout

import (
	"strings"

	"boxlayout/pkg/css"
)

// MinMaxSizes are the min-content and max-content widths of a box.
type MinMaxSizes struct {
	MinContentSize Au
	MaxContentSize Au
}

// shrinkToFit clamps the available width between the min-content and
// max-content widths (CSS 2.1 §10.3.5).
func (m MinMaxSizes) shrinkToFit(available Au) Au {
	return min(max(m.MinContentSize, available), m.MaxContentSize)
}

// contentSizes returns the min/max widths of b's content, excluding its own
// margins, borders and padding.
func (le *LayoutEngine) contentSizes(b *LayoutBox) MinMaxSizes {
	switch t := b.Type.(type) {
	case TextRun:
		return le.textSizes(b, t)
	case Inline:
		if b.Info.Image != nil {
			w, _ := b.replacedSize(0, indefinite)
			return MinMaxSizes{w, w}
		}
		return le.inlineRunSizes(b.Children)
	case AnonymousBlock:
		return le.inlineRunSizes(b.Children)
	}

	if b.Info.Image != nil {
		w, _ := b.replacedSize(0, indefinite)
		return MinMaxSizes{w, w}
	}
	// Block containers: block children stack, floats sit side by side.
	var sizes MinMaxSizes
	var floatsMax Au
	for _, c := range b.Children {
		cs := le.outerSizes(c)
		sizes.MinContentSize = max(sizes.MinContentSize, cs.MinContentSize)
		if _, ok := c.Type.(Float); ok {
			floatsMax += cs.MaxContentSize
			continue
		}
		sizes.MaxContentSize = max(sizes.MaxContentSize, cs.MaxContentSize)
	}
	sizes.MaxContentSize = max(sizes.MaxContentSize, floatsMax)
	return sizes
}

// outerSizes adds b's horizontal margins, borders and padding. A box with
// a fixed width contributes that width.
func (le *LayoutEngine) outerSizes(b *LayoutBox) MinMaxSizes {
	if _, ok := b.Type.(TextRun); ok {
		return le.contentSizes(b)
	}
	if _, ok := b.Type.(AnonymousBlock); ok {
		return le.contentSizes(b)
	}
	edges := edgeSizes(b.Style, "margin", 0).Horizontal() +
		edgeSizes(b.Style, "border", 0).Horizontal() +
		edgeSizes(b.Style, "padding", 0).Horizontal()

	if _, inline := b.Type.(Inline); !inline {
		if v, ok := b.Style.First("width"); ok && !(v.Kind == css.LengthValue && v.Unit == css.UnitPercent) {
			if w, ok := resolveLength(v, 0, b.Style.GetFontSize()); ok && w >= 0 {
				return MinMaxSizes{w + edges, w + edges}
			}
		}
	}
	sizes := le.contentSizes(b)
	sizes.MinContentSize += edges
	sizes.MaxContentSize += edges
	return sizes
}

// inlineRunSizes measures a run of inline-level boxes set on one line.
func (le *LayoutEngine) inlineRunSizes(children []*LayoutBox) MinMaxSizes {
	var sizes MinMaxSizes
	for _, c := range children {
		cs := le.outerSizes(c)
		sizes.MinContentSize = max(sizes.MinContentSize, cs.MinContentSize)
		sizes.MaxContentSize += cs.MaxContentSize
	}
	return sizes
}

// textSizes: the max-content width is the whole text, the min-content
// width its longest word.
func (le *LayoutEngine) textSizes(b *LayoutBox, t TextRun) MinMaxSizes {
	s := b.Node.Text[t.Start:t.End]
	var longest Au
	for _, word := range strings.Fields(s) {
		longest = max(longest, le.measure(word, t.Font))
	}
	return MinMaxSizes{
		MinContentSize: longest,
		MaxContentSize: le.measure(strings.TrimRight(s, " \t\n"), t.Font),
	}
}
