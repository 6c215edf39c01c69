package render

import (
	"image"
	"io"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"boxlayout/pkg/css"
	"boxlayout/pkg/layout"
	"boxlayout/pkg/text"
)

// FaceSource supplies font faces for text runs.
type FaceSource interface {
	Face(f text.Font) (font.Face, error)
}

// ImageSource decodes the images referenced by <img> boxes.
type ImageSource interface {
	LoadImage(src string) (image.Image, error)
}

// Renderer paints a laid out box tree onto an RGBA canvas.
type Renderer struct {
	context *gg.Context
	fonts   FaceSource
	images  ImageSource
	logger  *zap.Logger
}

type Option func(*Renderer)

func WithImages(src ImageSource) Option {
	return func(r *Renderer) { r.images = src }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// NewRenderer creates a white canvas. fonts may be nil, in which case text
// is not drawn.
func NewRenderer(width, height int, fonts FaceSource, opts ...Option) *Renderer {
	r := &Renderer{
		context: gg.NewContext(width, height),
		fonts:   fonts,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render paints the tree rooted at root. Siblings are painted in ascending
// z-index, ties in document order. Text decorations propagate from an
// element to all text inside it.
func (r *Renderer) Render(root *layout.LayoutBox) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	var decorations []css.TextDecoration
	layout.Walk(root, func(b *layout.LayoutBox, abs layout.Dimensions, depth int) bool {
		if _, hidden := b.Type.(layout.None); hidden {
			return false
		}
		decorations = decorations[:depth]
		deco := b.Style.GetTextDecoration()
		if deco == css.TextDecorationNone && depth > 0 {
			deco = decorations[depth-1]
		}
		decorations = append(decorations, deco)
		r.drawBox(b, abs, deco)
		return true
	})
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}

// box is a box's geometry in pixels, page coordinates.
type box struct {
	x, y, width, height float64 // content box
	padding, border     [4]float64
}

func pixels(d layout.Dimensions) box {
	edges := func(e layout.EdgeSizes) [4]float64 {
		return [4]float64{e.Top.Px(), e.Right.Px(), e.Bottom.Px(), e.Left.Px()}
	}
	return box{
		x:       d.Content.X.Px(),
		y:       d.Content.Y.Px(),
		width:   d.Content.Width.Px(),
		height:  d.Content.Height.Px(),
		padding: edges(d.Padding),
		border:  edges(d.Border),
	}
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

func (r *Renderer) drawBox(b *layout.LayoutBox, abs layout.Dimensions, deco css.TextDecoration) {
	// Anonymous blocks and text runs have no background or border of their own.
	switch b.Type.(type) {
	case layout.AnonymousBlock:
		return
	case layout.TextRun:
		r.drawText(b, pixels(abs), deco)
		return
	}
	p := pixels(abs)
	r.drawBackground(b, p)
	r.drawBorder(b, p)
	if b.Info.Image != nil {
		r.drawImage(b, p)
	}
}

// drawBackground fills the padding box.
func (r *Renderer) drawBackground(b *layout.LayoutBox, p box) {
	c := b.Style.GetColor("background-color", css.Transparent)
	if c.A == 0 {
		return
	}
	x := p.x - p.padding[3]
	y := p.y - p.padding[0]
	w := p.width + p.padding[1] + p.padding[3]
	h := p.height + p.padding[0] + p.padding[2]
	if w <= 0 || h <= 0 {
		return
	}
	r.setColor(c)
	r.context.DrawRectangle(x, y, w, h)
	r.context.Fill()
}

func borderVisible(style css.PropertyMap, side css.Side) bool {
	v, ok := style.First("border-" + side.String() + "-style")
	if !ok || v.Kind != css.KeywordValue {
		return false
	}
	return v.Keyword != "none" && v.Keyword != "hidden"
}

// drawBorder paints each side as a trapezoid between the border and
// padding edges, so corners are mitered.
func (r *Renderer) drawBorder(b *layout.LayoutBox, p box) {
	innerLeft := p.x - p.padding[3]
	innerTop := p.y - p.padding[0]
	innerRight := p.x + p.width + p.padding[1]
	innerBottom := p.y + p.height + p.padding[2]
	outerLeft := innerLeft - p.border[3]
	outerTop := innerTop - p.border[0]
	outerRight := innerRight + p.border[1]
	outerBottom := innerBottom + p.border[2]

	sides := []struct {
		side  css.Side
		width float64
		pts   [4][2]float64
	}{
		{css.Top, p.border[0], [4][2]float64{{outerLeft, outerTop}, {outerRight, outerTop}, {innerRight, innerTop}, {innerLeft, innerTop}}},
		{css.Right, p.border[1], [4][2]float64{{outerRight, outerTop}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerRight, innerTop}}},
		{css.Bottom, p.border[2], [4][2]float64{{outerLeft, outerBottom}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerLeft, innerBottom}}},
		{css.Left, p.border[3], [4][2]float64{{outerLeft, outerTop}, {outerLeft, outerBottom}, {innerLeft, innerBottom}, {innerLeft, innerTop}}},
	}
	for _, s := range sides {
		if s.width <= 0 || !borderVisible(b.Style, s.side) {
			continue
		}
		c := b.Style.GetBorderColor(s.side)
		if c.A == 0 {
			continue
		}
		r.setColor(c)
		r.context.MoveTo(s.pts[0][0], s.pts[0][1])
		for _, pt := range s.pts[1:] {
			r.context.LineTo(pt[0], pt[1])
		}
		r.context.ClosePath()
		r.context.Fill()
	}
}

// drawText draws a text run with its baseline at the bottom of its box,
// then any text decoration.
func (r *Renderer) drawText(b *layout.LayoutBox, p box, decoration css.TextDecoration) {
	s := strings.TrimRightFunc(b.Text(), unicode.IsSpace)
	if s == "" || r.fonts == nil {
		return
	}
	t := b.Type.(layout.TextRun)
	face, err := r.fonts.Face(t.Font)
	if err != nil {
		r.logger.Debug("font face unavailable", zap.Float64("size", t.Font.Size), zap.Error(err))
		return
	}
	r.context.SetFontFace(face)
	r.setColor(b.Style.GetColor("color", css.Black))

	baseline := p.y + t.Font.Size
	r.context.DrawString(s, p.x, baseline)

	if decoration == css.TextDecorationNone {
		return
	}
	r.context.SetLineWidth(max(1, t.Font.Size/12))
	var y float64
	switch decoration {
	case css.TextDecorationUnderline:
		y = baseline + t.Font.Size*0.1
	case css.TextDecorationOverline:
		y = p.y
	case css.TextDecorationLineThrough:
		y = p.y + t.Font.Size*0.5
	}
	r.context.DrawLine(p.x, y, p.x+p.width, y)
	r.context.Stroke()
}

// drawImage scales the image into the content box. A missing image is
// drawn as a crossed-out placeholder.
func (r *Renderer) drawImage(b *layout.LayoutBox, p box) {
	if p.width <= 0 || p.height <= 0 {
		return
	}
	var img image.Image
	err := b.Info.Image.Err
	if err == nil && r.images != nil {
		img, err = r.images.LoadImage(b.Info.Image.Src)
	}
	if img == nil {
		if err != nil {
			r.logger.Debug("drawing image placeholder", zap.String("src", b.Info.Image.Src), zap.Error(err))
		}
		r.context.SetRGB(0.9, 0.9, 0.9)
		r.context.DrawRectangle(p.x, p.y, p.width, p.height)
		r.context.Fill()
		r.context.SetRGB(0.5, 0.5, 0.5)
		r.context.SetLineWidth(2)
		r.context.DrawLine(p.x, p.y, p.x+p.width, p.y+p.height)
		r.context.DrawLine(p.x+p.width, p.y, p.x, p.y+p.height)
		r.context.Stroke()
		return
	}

	bounds := img.Bounds()
	r.context.Push()
	r.context.Translate(p.x, p.y)
	r.context.Scale(p.width/float64(bounds.Dx()), p.height/float64(bounds.Dy()))
	r.context.DrawImage(img, 0, 0)
	r.context.Pop()
}
