package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxlayout/pkg/css"
)

func TestFloats_Empty(t *testing.T) {
	f := NewFloats()
	if f.IsPresent() {
		t.Error("expected a new float context to be empty")
	}
	area := f.AvailableArea(px(300), px(10))
	assert.Equal(t, Rect{X: 0, Y: px(10), Width: px(300), Height: 0}, area)
	assert.Zero(t, f.Clearance(css.ClearBoth, 0))
}

func TestFloats_AvoidanceBand(t *testing.T) {
	f := NewFloats()
	f.AddFloat(css.FloatLeft, Rect{X: 0, Y: 0, Width: px(50), Height: px(20)}, px(300))

	inside := f.AvailableArea(px(300), px(10))
	if inside.X < px(50) {
		t.Errorf("expected left offset >= 50px at y=10, got %gpx", inside.X.Px())
	}
	checkAu(t, "width at y=10", inside.Width, 250)
	checkAu(t, "height to float bottom", inside.Height, 10)

	below := f.AvailableArea(px(300), px(25))
	checkAu(t, "left offset at y=25", below.X, 0)
	checkAu(t, "width at y=25", below.Width, 300)
	checkAu(t, "height at y=25", below.Height, 0)

	// the bottom edge is exclusive
	checkAu(t, "left offset at y=20", f.AvailableArea(px(300), px(20)).X, 0)
}

func TestFloats_StackedSameSide(t *testing.T) {
	f := NewFloats()
	f.AddFloat(css.FloatLeft, Rect{X: 0, Y: 0, Width: px(50), Height: px(40)}, px(300))
	f.AddFloat(css.FloatLeft, Rect{X: px(50), Y: 0, Width: px(30), Height: px(10)}, px(300))
	f.AddFloat(css.FloatRight, Rect{X: px(260), Y: 0, Width: px(40), Height: px(30)}, px(300))

	area := f.AvailableArea(px(300), px(5))
	checkAu(t, "left", area.X, 80)
	checkAu(t, "width", area.Width, 180)
	checkAu(t, "nearest bottom", area.Height, 5)

	checkAu(t, "left below second float", f.LeftWidth(px(15)), 50)
	checkAu(t, "right at 15", f.RightWidth(px(15)), 40)
	checkAu(t, "right below right float", f.RightWidth(px(35)), 0)
}

func TestFloats_Translate(t *testing.T) {
	f := NewFloats()
	f.AddFloat(css.FloatLeft, Rect{X: 0, Y: 0, Width: px(50), Height: px(100)}, px(300))
	f.AddFloat(css.FloatRight, Rect{X: px(240), Y: 0, Width: px(60), Height: px(100)}, px(300))

	child := f.Clone()
	child.Translate(EdgeSizes{Top: px(40), Left: px(20), Right: px(10)})

	checkAu(t, "left inside child", child.LeftWidth(0), 30)
	checkAu(t, "right inside child", child.RightWidth(0), 50)
	checkAu(t, "clearance in child space", child.Clearance(css.ClearLeft, px(10)), 50)

	// a float added in the child's space keeps its context position
	child.AddFloat(css.FloatLeft, Rect{X: px(30), Y: px(70), Width: px(10), Height: px(10)}, px(240))
	pf := child.List()[2]
	assert.Equal(t, Rect{X: px(50), Y: px(110), Width: px(10), Height: px(10)}, pf.Rect)
	checkAu(t, "inset", pf.Inset, 60)

	require.Len(t, f.List(), 2, "clones do not share floats")
}

func TestFloats_Clearance(t *testing.T) {
	f := NewFloats()
	f.AddFloat(css.FloatLeft, Rect{Y: 0, Width: px(10), Height: px(30)}, px(100))
	f.AddFloat(css.FloatRight, Rect{X: px(90), Y: px(10), Width: px(10), Height: px(50)}, px(100))

	tests := []struct {
		clear css.ClearType
		y     float64
		want  float64
	}{
		{css.ClearLeft, 0, 30},
		{css.ClearLeft, 20, 10},
		{css.ClearLeft, 40, 0},
		{css.ClearRight, 0, 60},
		{css.ClearBoth, 25, 35},
		{css.ClearNone, 0, 0},
	}
	for _, tt := range tests {
		checkAu(t, string(tt.clear), f.Clearance(tt.clear, px(tt.y)), tt.want)
	}
}

func TestFloats_Ceiling(t *testing.T) {
	f := NewFloats()
	f.RaiseCeiling(px(30))
	f.RaiseCeiling(px(10))
	checkAu(t, "ceiling", f.Ceiling(), 30)

	child := f.Clone()
	child.Translate(EdgeSizes{Top: px(20)})
	checkAu(t, "ceiling in child space", child.Ceiling(), 10)
}

func TestLayoutFloat_Placement(t *testing.T) {
	root := layoutNodes(t, 300,
		el("div", "float: left; width: 100px; height: 50px"),
		el("div", "float: left; width: 100px; height: 30px"),
		el("div", "float: right; width: 50px; height: 20px"),
		el("div", "float: left; width: 150px; height: 10px"),
	)
	require.Len(t, root.Children, 4)
	first, second, right, wide := root.Children[0], root.Children[1], root.Children[2], root.Children[3]

	checkAu(t, "first x", first.Dims.Content.X, 0)
	checkAu(t, "second x", second.Dims.Content.X, 100)
	checkAu(t, "right x", right.Dims.Content.X, 250)
	checkAu(t, "right y", right.Dims.Content.Y, 0)
	// 150px only fits once the second float ends
	checkAu(t, "wide y", wide.Dims.Content.Y, 30)
	checkAu(t, "wide x", wide.Dims.Content.X, 100)
	checkAu(t, "floats take no height", root.Dims.Content.Height, 0)
}

func TestLayoutFloat_ShrinkToFit(t *testing.T) {
	root := layoutNodes(t, 300,
		el("div", "float: left; font-size: 10px; padding: 5px",
			txt("aaa bb"),
		),
		el("div", "float: right; font-size: 10px",
			txt("aaaaaaaaaa bbbbbbbbbbbbbbbbbbbb"),
		),
	)
	short, long := root.Children[0], root.Children[1]
	checkAu(t, "short float width", short.Dims.Content.Width, 60)
	checkAu(t, "short float height", short.Dims.Content.Height, 12)
	checkAu(t, "short float x", short.Dims.Content.X, 5)

	// 300px does not fit beside the first float; the float drops below it
	checkAu(t, "long float width", long.Dims.Content.Width, 300)
	checkAu(t, "long float y", long.Dims.Content.Y, 22)
}

func TestLayoutFloat_ContainsInnerFloats(t *testing.T) {
	root := layoutNodes(t, 300,
		el("div", "float: left",
			el("div", "float: left; width: 40px; height: 70px"),
			el("div", "height: 10px"),
		),
	)
	outer := root.Children[0]
	checkAu(t, "width", outer.Dims.Content.Width, 40)
	checkAu(t, "height", outer.Dims.Content.Height, 70)
}

func TestLayoutFloat_ScopedToFormattingContext(t *testing.T) {
	root := layoutNodes(t, 300,
		el("div", "",
			el("div", "float: left; width: 100px; height: 100px"),
		),
		el("div", "float: left; width: 50px; height: 10px"),
	)
	// the first div's float is not visible to its parent's later floats
	checkAu(t, "sibling float x", root.Children[1].Dims.Content.X, 0)
}
