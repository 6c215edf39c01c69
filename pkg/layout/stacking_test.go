package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaintOrder(t *testing.T) {
	parent := &LayoutBox{}
	for i, z := range []int{2, 0, -1, 0, 2} {
		parent.Children = append(parent.Children, &LayoutBox{ZIndex: z, Dims: Dimensions{Content: Rect{X: Au(i)}}})
	}
	var got []Au
	for _, c := range PaintOrder(parent) {
		got = append(got, c.Dims.Content.X)
	}
	assert.Equal(t, []Au{2, 1, 3, 0, 4}, got, "ascending z-index, ties in document order")
	assert.Equal(t, Au(0), parent.Children[0].Dims.Content.X, "children are not reordered in place")
}

func TestWalk(t *testing.T) {
	root := layoutNodes(t, 200,
		el("div", "margin: 10px; padding: 5px; z-index: 1",
			el("div", "margin-left: 20px; height: 10px"),
		),
		el("div", "height: 30px"),
	)

	type visit struct {
		x, y  float64
		depth int
	}
	var visits []visit
	Walk(root, func(b *LayoutBox, abs Dimensions, depth int) bool {
		visits = append(visits, visit{abs.Content.X.Px(), abs.Content.Y.Px(), depth})
		return true
	})
	want := []visit{
		{0, 0, 0},
		// z-index 0 before z-index 1
		{0, 40, 1},
		{15, 15, 1},
		{35, 15, 2},
	}
	assert.Equal(t, want, visits)

	var count int
	Walk(root, func(*LayoutBox, Dimensions, int) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
