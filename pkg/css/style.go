package css

import (
	"sort"
	"strings"
)

// PropertyMap holds the specified values of one styled node, keyed by
// property name. Shorthands are expanded to longhands when parsed, so every
// key is a longhand.
type PropertyMap map[string][]Value

// DefaultFontSize is the root font size in pixels.
const DefaultFontSize = 16.0

func (p PropertyMap) Get(property string) ([]Value, bool) {
	vals, ok := p[property]
	return vals, ok && len(vals) > 0
}

// First returns the first component of a property.
func (p PropertyMap) First(property string) (Value, bool) {
	vals, ok := p.Get(property)
	if !ok {
		return Value{}, false
	}
	return vals[0], true
}

func (p PropertyMap) Set(property string, vals ...Value) {
	p[property] = vals
}

// Lookup returns the first component of name, then of fallback, then def.
func (p PropertyMap) Lookup(name, fallback string, def Value) Value {
	if v, ok := p.First(name); ok {
		return v
	}
	if fallback != "" {
		if v, ok := p.First(fallback); ok {
			return v
		}
	}
	return def
}

func (p PropertyMap) Clone() PropertyMap {
	out := make(PropertyMap, len(p))
	for k, v := range p {
		out[k] = append([]Value(nil), v...)
	}
	return out
}

// Names returns the property names in sorted order.
func (p PropertyMap) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (p PropertyMap) String() string {
	var sb strings.Builder
	for i, name := range p.Names() {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		for j, v := range p[name] {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(v.String())
		}
	}
	return sb.String()
}

// inheritedProperties are copied from a parent element to its children.
var inheritedProperties = []string{
	"font-size",
	"line-height",
	"font-weight",
	"font-style",
	"text-align",
	"color",
}

// Inheritable returns the subset of p that element children inherit.
func (p PropertyMap) Inheritable() PropertyMap {
	out := make(PropertyMap, len(inheritedProperties))
	for _, name := range inheritedProperties {
		if vals, ok := p.Get(name); ok {
			out[name] = append([]Value(nil), vals...)
		}
	}
	return out
}

// Side names one edge of a box.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

var sideNames = [...]string{"top", "right", "bottom", "left"}

func (s Side) String() string { return sideNames[s] }

// EdgeProperty returns the longhand for one side of margin, padding or
// border ("border" maps to border-<side>-width).
func EdgeProperty(prefix string, side Side) string {
	if prefix == "border" {
		return "border-" + side.String() + "-width"
	}
	return prefix + "-" + side.String()
}

// GetEdge returns one side of margin, padding or border width. Missing
// values are zero.
func (p PropertyMap) GetEdge(prefix string, side Side) Value {
	return p.Lookup(EdgeProperty(prefix, side), "", Px(0))
}

// GetFontSize returns the computed font size in pixels.
func (p PropertyMap) GetFontSize() float64 {
	if v, ok := p.First("font-size"); ok {
		if px, ok := v.ToPx(DefaultFontSize, DefaultFontSize); ok && px >= 0 {
			return px
		}
	}
	return DefaultFontSize
}

// GetLineHeight returns the line height in pixels. "normal" and missing
// values are 1.2 times the font size; bare numbers multiply it.
func (p PropertyMap) GetLineHeight() float64 {
	fs := p.GetFontSize()
	v, ok := p.First("line-height")
	if !ok {
		return fs * 1.2
	}
	switch {
	case v.Kind == NumberValue:
		return v.Num * fs
	case v.Kind == LengthValue:
		if px, ok := v.ToPx(fs, fs); ok {
			return px
		}
	}
	return fs * 1.2
}

type FloatType string

const (
	FloatNone  FloatType = "none"
	FloatLeft  FloatType = "left"
	FloatRight FloatType = "right"
)

// GetFloat returns the float value (default: none)
func (p PropertyMap) GetFloat() FloatType {
	if v, ok := p.First("float"); ok {
		switch {
		case v.IsKeyword("left"):
			return FloatLeft
		case v.IsKeyword("right"):
			return FloatRight
		}
	}
	return FloatNone
}

type ClearType string

const (
	ClearNone  ClearType = "none"
	ClearLeft  ClearType = "left"
	ClearRight ClearType = "right"
	ClearBoth  ClearType = "both"
)

// GetClear returns the clear value (default: none)
func (p PropertyMap) GetClear() ClearType {
	if v, ok := p.First("clear"); ok && v.Kind == KeywordValue {
		switch v.Keyword {
		case "left":
			return ClearLeft
		case "right":
			return ClearRight
		case "both":
			return ClearBoth
		}
	}
	return ClearNone
}

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// GetTextAlign returns the text-align value (default: left). justify is
// laid out as left.
func (p PropertyMap) GetTextAlign() TextAlign {
	if v, ok := p.First("text-align"); ok && v.Kind == KeywordValue {
		switch v.Keyword {
		case "center":
			return TextAlignCenter
		case "right":
			return TextAlignRight
		}
	}
	return TextAlignLeft
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

// GetFontWeight returns the font-weight value (default: normal)
func (p PropertyMap) GetFontWeight() FontWeight {
	if v, ok := p.First("font-weight"); ok {
		switch {
		case v.IsKeyword("bold"), v.IsKeyword("bolder"):
			return FontWeightBold
		case v.Kind == NumberValue && v.Num >= 600:
			return FontWeightBold
		}
	}
	return FontWeightNormal
}

type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

// GetFontStyle returns the font-style value; oblique is treated as italic.
func (p PropertyMap) GetFontStyle() FontStyle {
	if v, ok := p.First("font-style"); ok {
		if v.IsKeyword("italic") || v.IsKeyword("oblique") {
			return FontStyleItalic
		}
	}
	return FontStyleNormal
}

type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value. Missing values are inline, which
// is the initial value; the default stylesheet makes elements block.
func (p PropertyMap) GetDisplay() DisplayType {
	if v, ok := p.First("display"); ok && v.Kind == KeywordValue {
		switch v.Keyword {
		case "block", "list-item", "table", "flex", "grid":
			return DisplayBlock
		case "inline-block", "inline-table", "inline-flex":
			return DisplayInlineBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayInline
}

// GetColor returns a color property, or def when it is missing or invalid.
// Named colors are stored as keywords and resolved here.
func (p PropertyMap) GetColor(property string, def Color) Color {
	v, ok := p.First(property)
	if !ok {
		return def
	}
	switch v.Kind {
	case ColorValue:
		return v.Color
	case KeywordValue:
		if v.Keyword == "currentcolor" && property != "color" {
			return p.GetColor("color", Black)
		}
		if c, ok := ParseColor(v.Keyword); ok {
			return c
		}
	}
	return def
}

// GetBorderColor returns the border color of one side, falling back to the
// element's text color.
func (p PropertyMap) GetBorderColor(side Side) Color {
	return p.GetColor("border-"+side.String()+"-color", p.GetColor("color", Black))
}

type TextDecoration string

const (
	TextDecorationNone        TextDecoration = "none"
	TextDecorationUnderline   TextDecoration = "underline"
	TextDecorationLineThrough TextDecoration = "line-through"
	TextDecorationOverline    TextDecoration = "overline"
)

func (p PropertyMap) GetTextDecoration() TextDecoration {
	if v, ok := p.First("text-decoration"); ok && v.Kind == KeywordValue {
		switch v.Keyword {
		case "underline":
			return TextDecorationUnderline
		case "line-through":
			return TextDecorationLineThrough
		case "overline":
			return TextDecorationOverline
		}
	}
	return TextDecorationNone
}

// GetZIndex returns the z-index value (default: 0, also for auto).
func (p PropertyMap) GetZIndex() int {
	if v, ok := p.First("z-index"); ok && v.Kind == NumberValue {
		return int(v.Num)
	}
	return 0
}
