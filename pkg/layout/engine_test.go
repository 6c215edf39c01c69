package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"boxlayout/pkg/css"
	"boxlayout/pkg/html"
	"boxlayout/pkg/images"
	"boxlayout/pkg/text"
)

func samplePage() *css.StyledNode {
	return styledDoc(`
		.side { float: left; width: 120px; height: 80px; }
		p { font-size: 10px; margin: 10px 0; }
		.box { width: 50%; margin: 0 auto; padding: 5px; border: 2px solid; }
	`,
		html.NewElement("div", map[string]string{"class": "side"}),
		html.NewElement("p", nil, txt("the quick brown fox jumps over the lazy dog")),
		html.NewElement("div", map[string]string{"class": "box"},
			html.NewElement("p", nil, txt("inside "), html.NewElement("em", nil, txt("a box"))),
			html.NewElement("img", map[string]string{"src": "cat.png", "width": "30"}),
		),
	)
}

func newEngine(opts ...Option) *LayoutEngine {
	opts = append([]Option{WithImageSizer(images.StaticSizer{"cat.png": {60, 40}})}, opts...)
	le := NewLayoutEngine(text.AhemMeasurer{}, opts...)
	le.SetDocument(samplePage())
	return le
}

func TestLayoutEngine_NoDocument(t *testing.T) {
	le := NewLayoutEngine(text.AhemMeasurer{})
	_, err := le.Layout(Viewport{Width: 800, Height: 600})
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestLayoutEngine_InvalidViewport(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
	}{
		{"negative width", Viewport{Width: -1, Height: 600}},
		{"negative height", Viewport{Width: 800, Height: -1}},
		{"width beyond Au range", Viewport{Width: MaxPx + 1, Height: 600}},
		{"height beyond Au range", Viewport{Width: 800, Height: 4e7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			le := newEngine()
			_, err := le.Layout(tt.vp)
			assert.ErrorIs(t, err, ErrInvalidViewport)
			assert.Zero(t, le.Builds())
		})
	}
}

func TestLayoutEngine_Idempotent(t *testing.T) {
	vp := Viewport{Width: 640, Height: 480}
	a, err := newEngine().Layout(vp)
	require.NoError(t, err)
	b, err := newEngine().Layout(vp)
	require.NoError(t, err)
	if diff := cmp.Diff(a.Snapshot(), b.Snapshot()); diff != "" {
		t.Errorf("layouts differ (-first +second):\n%s", diff)
	}
}

func TestLayoutEngine_ResizeReusesBoxTree(t *testing.T) {
	le := newEngine()
	wide, err := le.Layout(Viewport{Width: 800, Height: 600})
	require.NoError(t, err)
	wideSnap := wide.Snapshot()

	narrow, err := le.Layout(Viewport{Width: 400, Height: 600})
	require.NoError(t, err)
	again, err := le.Layout(Viewport{Width: 800, Height: 600})
	require.NoError(t, err)

	assert.Equal(t, 1, le.Builds(), "resizing must not rebuild the box tree")
	assert.NotEqual(t, wideSnap, narrow.Snapshot())
	if diff := cmp.Diff(wideSnap, again.Snapshot()); diff != "" {
		t.Errorf("layout after resize round trip differs:\n%s", diff)
	}

	// A fresh engine at the final size agrees with the resized one.
	fresh, err := newEngine().Layout(Viewport{Width: 800, Height: 600})
	require.NoError(t, err)
	if diff := cmp.Diff(fresh.Snapshot(), again.Snapshot()); diff != "" {
		t.Errorf("resized layout differs from fresh layout:\n%s", diff)
	}
}

func TestLayoutEngine_SameViewportIsCached(t *testing.T) {
	le := newEngine()
	vp := Viewport{Width: 500, Height: 500}
	first, err := le.Layout(vp)
	require.NoError(t, err)
	second, err := le.Layout(vp)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLayoutEngine_SetDocumentRebuilds(t *testing.T) {
	le := newEngine()
	_, err := le.Layout(Viewport{Width: 500, Height: 500})
	require.NoError(t, err)

	le.SetDocument(styledDoc("", el("div", "height: 7px")))
	root, err := le.Layout(Viewport{Width: 500, Height: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, le.Builds())
	checkAu(t, "new document height", root.Dims.Content.Height, 7)

	le.Invalidate()
	_, err = le.Layout(Viewport{Width: 500, Height: 500})
	require.NoError(t, err)
	assert.Equal(t, 3, le.Builds())
}

func TestLayoutEngine_AllBoxesResolved(t *testing.T) {
	root, err := newEngine().Layout(Viewport{Width: 320, Height: 200})
	require.NoError(t, err)
	Walk(root, func(b *LayoutBox, _ Dimensions, _ int) bool {
		if b.Phase != HeightResolved {
			t.Errorf("%s left in phase %s", b, b.Phase)
		}
		return true
	})
}

func TestLayoutEngine_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	le := NewLayoutEngine(text.AhemMeasurer{}, WithLogger(zap.New(core)), WithImageSizer(images.StaticSizer{}))
	le.SetDocument(styledDoc("", el("p", "", html.NewElement("img", map[string]string{"src": "missing.png"}))))

	vp := Viewport{Width: 100, Height: 100}
	_, err := le.Layout(vp)
	require.NoError(t, err)
	_, err = le.Layout(vp)
	require.NoError(t, err)
	_, err = le.Layout(Viewport{Width: 50, Height: 100})
	require.NoError(t, err)

	warnings := logs.FilterMessage("image has no intrinsic size").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "missing.png", warnings[0].ContextMap()["src"])

	assert.Equal(t, 1, logs.FilterMessage("box tree built").Len())
	assert.Equal(t, 1, logs.FilterMessage("layout reused").Len())
	assert.Equal(t, 1, logs.FilterMessage("box tree reused").Len())
	assert.Equal(t, 2, logs.FilterMessage("layout done").Len())
}
