package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxlayout/pkg/css"
	"boxlayout/pkg/html"
	"boxlayout/pkg/images"
	"boxlayout/pkg/text"
)

// lineBox returns the anonymous block holding the inline content of the
// first child of root.
func lineBox(t *testing.T, root *LayoutBox) *LayoutBox {
	t.Helper()
	require.NotEmpty(t, root.Children)
	p := root.Children[0]
	require.NotEmpty(t, p.Children)
	anon := p.Children[0]
	require.IsType(t, AnonymousBlock{}, anon.Type)
	return anon
}

func lineTexts(anon *LayoutBox) [][]string {
	var out [][]string
	for _, l := range anon.Lines {
		var texts []string
		for _, b := range anon.Children[l.Start:l.End] {
			texts = append(texts, b.Text())
		}
		out = append(out, texts)
	}
	return out
}

func TestInline_LineBreaking(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		text  string
		want  [][]string
	}{
		{"fits", 100, "aaaa bbbb", [][]string{{"aaaa bbbb"}}},
		{"breaks at whitespace", 60, "aaaa bbbb", [][]string{{"aaaa "}, {"bbbb"}}},
		{"breaks inside a long word", 50, "abcdefgh", [][]string{{"abcde"}, {"fgh"}}},
		{"exact fit", 40, "abcd", [][]string{{"abcd"}}},
		{"zero width takes a character per line", 0, "abc", [][]string{{"a"}, {"b"}, {"c"}}},
		{"multiple breaks", 50, "aa bb cc dd", [][]string{{"aa bb "}, {"cc dd"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := layoutNodes(t, tt.width, el("p", "font-size: 10px", txt(tt.text)))
			anon := lineBox(t, root)
			assert.Equal(t, tt.want, lineTexts(anon))
			checkAu(t, "block height", root.Children[0].Dims.Content.Height, float64(12*len(tt.want)))
		})
	}
}

func TestInline_HangingWhitespace(t *testing.T) {
	root := layoutNodes(t, 60, el("p", "font-size: 10px", txt("aaaa bbbb")))
	anon := lineBox(t, root)
	require.Len(t, anon.Children, 2)
	// the trailing space is kept in the run but not measured
	checkAu(t, "first piece width", anon.Children[0].Dims.Content.Width, 40)
	checkAu(t, "first line width", anon.Lines[0].Width, 40)
	checkAu(t, "second piece width", anon.Children[1].Dims.Content.Width, 40)
}

func TestInline_LineMetrics(t *testing.T) {
	root := layoutNodes(t, 300,
		el("p", "font-size: 10px", txt("ab")),
		el("p", "font-size: 10px; line-height: 20px", txt("ab")),
	)
	normal := lineBox(t, root)
	line := normal.Lines[0]
	checkAu(t, "above", line.Above, 11)
	checkAu(t, "under", line.Under, 1)
	checkAu(t, "text y", normal.Children[0].Dims.Content.Y, 1)
	checkAu(t, "text height", normal.Children[0].Dims.Content.Height, 10)

	tall := root.Children[1].Children[0]
	checkAu(t, "tall line height", tall.Lines[0].Height(), 20)
	checkAu(t, "tall text y", tall.Children[0].Dims.Content.Y, 5)
	checkAu(t, "second paragraph y", root.Children[1].Dims.Content.Y, 12)
}

func TestInline_TextAlign(t *testing.T) {
	tests := []struct {
		align string
		wantX float64
	}{
		{"left", 0},
		{"center", 40},
		{"right", 80},
	}
	for _, tt := range tests {
		t.Run(tt.align, func(t *testing.T) {
			root := layoutNodes(t, 100, el("p", "font-size: 10px; text-align: "+tt.align, txt("ab")))
			anon := lineBox(t, root)
			checkAu(t, "text x", anon.Children[0].Dims.Content.X, tt.wantX)
		})
	}
}

func TestInline_FragmentEdges(t *testing.T) {
	root := layoutNodes(t, 60,
		el("p", "font-size: 10px",
			el("span", "margin: 0 3px; padding: 0 5px", txt("aaaa bbbb")),
		),
	)
	anon := lineBox(t, root)
	require.Len(t, anon.Lines, 2)
	require.Len(t, anon.Children, 2)

	first, last := anon.Children[0], anon.Children[1]
	for _, f := range anon.Children {
		require.IsType(t, Inline{}, f.Type)
		require.Len(t, f.Children, 1)
	}
	assert.Equal(t, "aaaa ", first.Children[0].Text())
	assert.Equal(t, "bbbb", last.Children[0].Text())

	checkAu(t, "first margin-left", first.Dims.Margin.Left, 3)
	checkAu(t, "first padding-left", first.Dims.Padding.Left, 5)
	checkAu(t, "first margin-right", first.Dims.Margin.Right, 0)
	checkAu(t, "first padding-right", first.Dims.Padding.Right, 0)
	checkAu(t, "last margin-left", last.Dims.Margin.Left, 0)
	checkAu(t, "last padding-right", last.Dims.Padding.Right, 5)
	checkAu(t, "last margin-right", last.Dims.Margin.Right, 3)

	checkAu(t, "first x", first.Dims.Content.X, 8)
	checkAu(t, "last x", last.Dims.Content.X, 0)
	checkAu(t, "first line width", anon.Lines[0].Width, 48)
	checkAu(t, "last line width", anon.Lines[1].Width, 48)
}

func TestInline_EmptyInline(t *testing.T) {
	root := layoutNodes(t, 300,
		el("p", "font-size: 10px",
			txt("a"),
			el("span", "padding: 0 5px"),
			txt("b"),
		),
	)
	anon := lineBox(t, root)
	require.Len(t, anon.Children, 3)
	assert.Empty(t, anon.Children[1].Children)
	checkAu(t, "text after empty span", anon.Children[2].Dims.Content.X, 20)
}

func TestInline_InlineBlockWraps(t *testing.T) {
	root := layoutNodes(t, 100,
		el("p", "font-size: 10px",
			txt("aaaaaaa"),
			el("span", "display: inline-block; width: 50px; height: 20px"),
		),
	)
	anon := lineBox(t, root)
	require.Len(t, anon.Lines, 2)
	ib := anon.Children[1]
	require.IsType(t, InlineBlock{}, ib.Type)
	checkAu(t, "inline-block x", ib.Dims.Content.X, 0)
	checkAu(t, "inline-block y", ib.Dims.Content.Y, 12)
	checkAu(t, "inline-block width", ib.Dims.Content.Width, 50)
	checkAu(t, "paragraph height", root.Children[0].Dims.Content.Height, 32)
}

func TestInline_InlineBlockShrinksToFit(t *testing.T) {
	root := layoutNodes(t, 300,
		el("p", "font-size: 10px",
			el("span", "display: inline-block; padding: 2px", txt("abc")),
			txt("d"),
		),
	)
	anon := lineBox(t, root)
	ib := anon.Children[0]
	checkAu(t, "width", ib.Dims.Content.Width, 30)
	checkAu(t, "height", ib.Dims.Content.Height, 12)
	// 2 + 30 + 2 of margin box before the text
	checkAu(t, "text x", anon.Children[1].Dims.Content.X, 34)
	// the atomic box stands on the baseline
	checkAu(t, "line above", anon.Lines[0].Above, 16)
}

// inlineBlockIn lays out a paragraph of optional leading text followed by
// the inline-block ib and returns the inline-block's box.
func inlineBlockIn(t *testing.T, width float64, before string, ib *html.Node) *LayoutBox {
	t.Helper()
	p := el("p", "font-size: 10px", ib)
	if before != "" {
		p = el("p", "font-size: 10px", txt(before), ib)
	}
	anon := lineBox(t, layoutNodes(t, width, p))
	last := anon.Children[len(anon.Children)-1]
	require.IsType(t, InlineBlock{}, last.Type)
	return last
}

func TestInline_WrappedInlineBlockKeepsFragmentEdges(t *testing.T) {
	ib := func() *html.Node {
		return el("span", "display: inline-block; width: 50px",
			el("span", "padding: 0 5px", txt("aa bb")))
	}
	alone := inlineBlockIn(t, 100, "", ib())
	wrapped := inlineBlockIn(t, 100, "aaaaaaa", ib())

	for name, box := range map[string]*LayoutBox{"alone": alone, "wrapped": wrapped} {
		inner := box.Children[0]
		require.Len(t, inner.Children, 2, name)
		first, last := inner.Children[0], inner.Children[1]
		checkAu(t, name+" first padding-left", first.Dims.Padding.Left, 5)
		checkAu(t, name+" first padding-right", first.Dims.Padding.Right, 0)
		checkAu(t, name+" last padding-left", last.Dims.Padding.Left, 0)
		checkAu(t, name+" last padding-right", last.Dims.Padding.Right, 5)
	}
	assert.Equal(t, alone.Children[0].Snapshot(), wrapped.Children[0].Snapshot())
}

func TestInline_WrappedInlineBlockShrinksLikeUnwrapped(t *testing.T) {
	ib := func() *html.Node {
		return el("span", "display: inline-block", txt("aa bb"))
	}
	alone := inlineBlockIn(t, 100, "", ib())
	wrapped := inlineBlockIn(t, 100, "aaaaaaaaa", ib())

	checkAu(t, "alone width", alone.Dims.Content.Width, 50)
	checkAu(t, "wrapped width", wrapped.Dims.Content.Width, 50)
	checkAu(t, "wrapped height", wrapped.Dims.Content.Height, 12)
	assert.Len(t, wrapped.Children[0].Lines, 1)
	checkAu(t, "wrapped x", wrapped.Dims.Content.X, 0)
}

func TestInline_LeftEdgeMovesWithWrappedText(t *testing.T) {
	root := layoutNodes(t, 60,
		el("p", "font-size: 10px",
			txt("aaaaa"),
			el("span", "padding-left: 10px", txt("bbbbbb")),
		),
	)
	anon := lineBox(t, root)
	require.Len(t, anon.Lines, 3)
	checkAu(t, "first line", anon.Lines[0].Width, 50)
	checkAu(t, "second line", anon.Lines[1].Width, 60)
	checkAu(t, "third line", anon.Lines[2].Width, 10)
	for i, l := range anon.Lines {
		assert.LessOrEqual(t, l.Width, px(60), "line %d overflows", i)
	}
	span := anon.Children[1]
	require.IsType(t, Inline{}, span.Type)
	checkAu(t, "first fragment padding-left", span.Dims.Padding.Left, 10)
	checkAu(t, "first fragment x", span.Dims.Content.X, 10)
}

func layoutWithImages(t *testing.T, width float64, sizes images.StaticSizer, nodes ...*html.Node) *LayoutBox {
	t.Helper()
	return LayoutTree(styledDoc("", nodes...), text.AhemMeasurer{}, sizes, Viewport{Width: width, Height: 600})
}

func img(src string, attrs map[string]string) *html.Node {
	all := map[string]string{"src": src}
	for k, v := range attrs {
		all[k] = v
	}
	return html.NewElement("img", all)
}

func TestInline_Images(t *testing.T) {
	sizes := images.StaticSizer{"cat.png": {200, 100}}
	tests := []struct {
		name         string
		attrs        map[string]string
		wantW, wantH float64
	}{
		{"intrinsic", nil, 200, 100},
		{"width attribute keeps ratio", map[string]string{"width": "50"}, 50, 25},
		{"height attribute keeps ratio", map[string]string{"height": "10"}, 20, 10},
		{"both attributes", map[string]string{"width": "30", "height": "30"}, 30, 30},
		{"css wins over attribute", map[string]string{"width": "50", "style": "width: 100px"}, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := layoutWithImages(t, 300, sizes, el("p", "font-size: 10px", img("cat.png", tt.attrs)))
			anon := lineBox(t, root)
			im := anon.Children[0]
			require.NotNil(t, im.Info.Image)
			checkAu(t, "width", im.Dims.Content.Width, tt.wantW)
			checkAu(t, "height", im.Dims.Content.Height, tt.wantH)
			checkAu(t, "y", im.Dims.Content.Y, 0)
		})
	}
}

func TestInline_MissingImage(t *testing.T) {
	root := layoutWithImages(t, 300, images.StaticSizer{}, el("p", "", img("gone.png", nil)))
	im := lineBox(t, root).Children[0]
	require.NotNil(t, im.Info.Image)
	assert.Error(t, im.Info.Image.Err)
	checkAu(t, "width", im.Dims.Content.Width, 0)
	checkAu(t, "height", im.Dims.Content.Height, 0)
}

func TestInline_BlockImage(t *testing.T) {
	sizes := images.StaticSizer{"cat.png": {200, 100}}
	root := layoutWithImages(t, 300, sizes,
		img("cat.png", map[string]string{"style": "display: block"}),
		img("cat.png", map[string]string{"style": "display: block; width: 100px"}),
	)
	require.Len(t, root.Children, 2)
	checkAu(t, "intrinsic width", root.Children[0].Dims.Content.Width, 200)
	checkAu(t, "intrinsic height", root.Children[0].Dims.Content.Height, 100)
	checkAu(t, "scaled height", root.Children[1].Dims.Content.Height, 50)
	checkAu(t, "second y", root.Children[1].Dims.Content.Y, 100)
}

func TestInline_TextBesideFloat(t *testing.T) {
	root := layoutNodes(t, 100,
		el("div", "float: left; width: 50px; height: 15px"),
		el("p", "font-size: 10px", txt("aaaa bbbb")),
		el("p", "font-size: 10px", txt("cc")),
	)
	p := root.Children[1]
	anon := p.Children[0]
	assert.Equal(t, [][]string{{"aaaa "}, {"bbbb"}}, lineTexts(anon))
	checkAu(t, "first line x", anon.Children[0].Dims.Content.X, 50)
	// the second line starts at 12px, still beside the float
	checkAu(t, "second line x", anon.Children[1].Dims.Content.X, 50)
	checkAu(t, "block width is unchanged", p.Dims.Content.Width, 100)

	below := root.Children[2].Children[0]
	checkAu(t, "text below float", below.Children[0].Dims.Content.X, 0)
}

func TestInline_LinesPartitionBoxes(t *testing.T) {
	root := layoutNodes(t, 80,
		el("p", "font-size: 10px",
			txt("one two "),
			el("span", "", txt("three "), el("em", "", txt("four five"))),
			txt(" six"),
		),
	)
	anon := lineBox(t, root)
	require.NotEmpty(t, anon.Lines)
	next := 0
	for i, l := range anon.Lines {
		if l.Start != next || l.End <= l.Start {
			t.Fatalf("line %d covers [%d, %d), expected to start at %d", i, l.Start, l.End, next)
		}
		next = l.End
		if i > 0 {
			prev := anon.Lines[i-1]
			y := anon.Children[l.Start].Dims.MarginBox().Y
			if y < anon.Children[prev.Start].Dims.MarginBox().Y {
				t.Errorf("line %d is above line %d", i, i-1)
			}
		}
	}
	assert.Equal(t, len(anon.Children), next)
}

func TestLineMaker_InvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		box  *LayoutBox
		want string
	}{
		{"text node as inline", &LayoutBox{Node: html.NewText("x"), Style: css.PropertyMap{}, Type: Inline{}}, "text node"},
		{"block in line", &LayoutBox{Style: css.PropertyMap{}, Type: Block{}}, "inline formatting context"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			le := NewLayoutEngine(text.AhemMeasurer{})
			lm := newLineMaker(le, NewFloats(), px(100), css.TextAlignLeft)
			lm.work = []*LayoutBox{tt.box}
			defer func() {
				err, ok := recover().(*InvariantError)
				require.True(t, ok, "expected an *InvariantError panic")
				assert.Contains(t, err.Error(), tt.want)
			}()
			lm.run()
		})
	}
}
