package text

import (
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font describes the face a run of text is set in.
type Font struct {
	Size   float64 // pixels
	Bold   bool
	Italic bool
}

// Measurer reports the advance width of a string in pixels.
type Measurer interface {
	TextWidth(s string, f Font) float64
}

// FontConfig holds paths to font files used for text measurement and
// rendering. Empty paths fall back to the embedded Go fonts.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// FontPath returns the font path for the given style combination.
func (fc FontConfig) FontPath(bold, italic bool) string {
	if bold && italic && fc.BoldItalic != "" {
		return fc.BoldItalic
	}
	if bold && fc.Bold != "" {
		return fc.Bold
	}
	if italic && fc.Italic != "" {
		return fc.Italic
	}
	return fc.Regular
}

type style struct{ bold, italic bool }

type faceKey struct {
	style
	size float64
}

// FaceMeasurer measures text with OpenType faces. It also hands out the
// faces so the painter draws with the same metrics the layout used.
type FaceMeasurer struct {
	mu    sync.Mutex
	fonts map[style]*opentype.Font
	faces map[faceKey]font.Face
}

// NewFaceMeasurer parses the configured fonts, using the embedded Go fonts
// for any style without a path.
func NewFaceMeasurer(cfg FontConfig) (*FaceMeasurer, error) {
	m := &FaceMeasurer{
		fonts: make(map[style]*opentype.Font, 4),
		faces: make(map[faceKey]font.Face),
	}
	builtin := map[style][]byte{
		{false, false}: goregular.TTF,
		{true, false}:  gobold.TTF,
		{false, true}:  goitalic.TTF,
		{true, true}:   gobolditalic.TTF,
	}
	for st, data := range builtin {
		path := cfg.FontPath(st.bold, st.italic)
		if path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading font %s: %w", path, err)
			}
			data = b
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font %q: %w", path, err)
		}
		m.fonts[st] = f
	}
	return m, nil
}

// Face returns a face for f, creating and caching it on first use.
func (m *FaceMeasurer) Face(f Font) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face(f)
}

func (m *FaceMeasurer) face(f Font) (font.Face, error) {
	key := faceKey{style{f.Bold, f.Italic}, f.Size}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	// 72 DPI makes one point one pixel.
	face, err := opentype.NewFace(m.fonts[key.style], &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face %+v: %w", f, err)
	}
	m.faces[key] = face
	return face, nil
}

func (m *FaceMeasurer) TextWidth(s string, f Font) float64 {
	if s == "" || f.Size <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(f)
	if err != nil {
		return ApproximateWidth(s, f)
	}
	return float64(font.MeasureString(face, s)) / 64
}

// Close releases the cached faces.
func (m *FaceMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for k, face := range m.faces {
		if err := face.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.faces, k)
	}
	return firstErr
}

// ApproximateWidth estimates a width without font data: 0.6em per
// character.
func ApproximateWidth(s string, f Font) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size * 0.6
}

// AhemMeasurer measures as the Ahem test font does: every glyph is 1em
// wide. Layout results under it are exact and font independent.
type AhemMeasurer struct{}

func (AhemMeasurer) TextWidth(s string, f Font) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size
}
