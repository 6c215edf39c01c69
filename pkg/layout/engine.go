package layout

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"boxlayout/pkg/css"
	"boxlayout/pkg/images"
	"boxlayout/pkg/text"
)

// ErrNoDocument is returned by Layout before a document has been set.
var ErrNoDocument = errors.New("layout: no document")

// ErrInvalidViewport is returned by Layout for a negative viewport or one
// too large for Au geometry.
var ErrInvalidViewport = errors.New("layout: invalid viewport")

// Viewport is the size of the initial containing block in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayoutEngine drives layout for one document. It keeps the box tree built
// for the document and the result of the last pass: a pass at the same
// viewport returns the cached result, a pass at a new viewport recomputes
// geometry on a copy of the cached box tree without rebuilding it.
// A LayoutEngine is not safe for concurrent use.
type LayoutEngine struct {
	measurer text.Measurer
	sizer    images.Sizer
	logger   *zap.Logger

	styled       *css.StyledNode
	lastTree     *LayoutBox // built, never laid out
	lastViewport Viewport
	lastResult   *LayoutBox
	builds       int
}

type Option func(*LayoutEngine)

func WithLogger(logger *zap.Logger) Option {
	return func(le *LayoutEngine) { le.logger = logger }
}

// WithImageSizer sets the collaborator that reports image sizes.
func WithImageSizer(sizer images.Sizer) Option {
	return func(le *LayoutEngine) { le.sizer = sizer }
}

func NewLayoutEngine(measurer text.Measurer, opts ...Option) *LayoutEngine {
	le := &LayoutEngine{
		measurer: measurer,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(le)
	}
	return le
}

// SetDocument replaces the styled document and drops every cached result.
func (le *LayoutEngine) SetDocument(root *css.StyledNode) {
	le.styled = root
	le.Invalidate()
}

// Invalidate drops the cached box tree and layout result, as after a change
// to the document or its styles.
func (le *LayoutEngine) Invalidate() {
	le.lastTree = nil
	le.lastResult = nil
	le.lastViewport = Viewport{}
}

// Builds returns how many times the box tree has been built.
func (le *LayoutEngine) Builds() int {
	return le.builds
}

// Layout returns the positioned box tree for the viewport. The returned
// tree is shared with the cache and must not be modified.
func (le *LayoutEngine) Layout(vp Viewport) (*LayoutBox, error) {
	if le.styled == nil {
		return nil, ErrNoDocument
	}
	if vp.Width < 0 || vp.Height < 0 || vp.Width > MaxPx || vp.Height > MaxPx {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidViewport, vp.Width, vp.Height)
	}
	if le.lastResult != nil && vp == le.lastViewport {
		le.logger.Debug("layout reused", zap.Float64("width", vp.Width), zap.Float64("height", vp.Height))
		return le.lastResult, nil
	}

	if le.lastTree == nil {
		le.lastTree = BuildLayoutTree(le.styled, le.sizer)
		le.builds++
		le.logger.Debug("box tree built", zap.Int("boxes", le.lastTree.Count()))
		le.logImageErrors(le.lastTree)
	} else {
		le.logger.Debug("box tree reused", zap.Int("boxes", le.lastTree.Count()))
	}

	root := le.lastTree.Clone()
	le.layoutRoot(root, vp)

	le.lastViewport = vp
	le.lastResult = root
	le.logger.Debug("layout done",
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.Int("boxes", root.Count()),
		zap.Float64("documentHeight", root.Dims.MarginBox().Height.Px()),
	)
	return root, nil
}

func (le *LayoutEngine) layoutRoot(root *LayoutBox, vp Viewport) {
	var cb Dimensions
	cb.Content.Width = PxToAu(vp.Width)
	// The container height starts at 0 and accumulates.
	le.layoutBox(root, NewFloats(), 0, cb, PxToAu(vp.Height))
}

// LayoutTree builds and lays out a styled tree in one step.
func LayoutTree(root *css.StyledNode, measurer text.Measurer, sizer images.Sizer, vp Viewport) *LayoutBox {
	le := NewLayoutEngine(measurer, WithImageSizer(sizer))
	box := BuildLayoutTree(root, sizer)
	le.layoutRoot(box, vp)
	return box
}

func (le *LayoutEngine) measure(s string, f text.Font) Au {
	if s == "" {
		return 0
	}
	return PxToAu(le.measurer.TextWidth(s, f))
}

func (le *LayoutEngine) logImageErrors(b *LayoutBox) {
	if img := b.Info.Image; img != nil && img.Err != nil {
		le.logger.Warn("image has no intrinsic size", zap.String("src", img.Src), zap.Error(img.Err))
	}
	for _, c := range b.Children {
		le.logImageErrors(c)
	}
}
