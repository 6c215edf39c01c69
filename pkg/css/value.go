package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit attached to a length value.
type Unit int

const (
	UnitPx Unit = iota
	UnitPt
	UnitPercent
	UnitEm
)

func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitPt:
		return "pt"
	case UnitPercent:
		return "%"
	case UnitEm:
		return "em"
	}
	return "?"
}

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KeywordValue ValueKind = iota
	LengthValue
	NumberValue
	ColorValue
)

// Value is a single component of a declaration: a keyword, a length with
// unit, a bare number, or a color.
type Value struct {
	Kind    ValueKind
	Keyword string
	Num     float64
	Unit    Unit
	Color   Color
}

func Keyword(k string) Value { return Value{Kind: KeywordValue, Keyword: strings.ToLower(k)} }

func Length(n float64, u Unit) Value { return Value{Kind: LengthValue, Num: n, Unit: u} }

func Px(n float64) Value { return Length(n, UnitPx) }

func Number(n float64) Value { return Value{Kind: NumberValue, Num: n} }

func ColorOf(c Color) Value { return Value{Kind: ColorValue, Color: c} }

// Auto is the `auto` keyword.
var Auto = Keyword("auto")

// IsKeyword reports whether v is the keyword k.
func (v Value) IsKeyword(k string) bool {
	return v.Kind == KeywordValue && v.Keyword == k
}

func (v Value) IsAuto() bool { return v.IsKeyword("auto") }

// ptToPx converts points to CSS pixels (96 px per inch, 72 pt per inch).
const ptToPx = 96.0 / 72.0

// ToPx resolves a length against the given percentage base and font size.
// Bare numbers are read as pixels. Keywords and colors do not resolve.
func (v Value) ToPx(percentBase, fontSize float64) (float64, bool) {
	switch v.Kind {
	case NumberValue:
		return v.Num, true
	case LengthValue:
		switch v.Unit {
		case UnitPx:
			return v.Num, true
		case UnitPt:
			return v.Num * ptToPx, true
		case UnitPercent:
			return v.Num / 100 * percentBase, true
		case UnitEm:
			return v.Num * fontSize, true
		}
	}
	return 0, false
}

// ToPxOr is ToPx with a default for unresolvable values.
func (v Value) ToPxOr(percentBase, fontSize, def float64) float64 {
	if px, ok := v.ToPx(percentBase, fontSize); ok {
		return px
	}
	return def
}

func (v Value) String() string {
	switch v.Kind {
	case KeywordValue:
		return v.Keyword
	case LengthValue:
		return strconv.FormatFloat(v.Num, 'f', -1, 64) + v.Unit.String()
	case NumberValue:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ColorValue:
		return v.Color.String()
	}
	return fmt.Sprintf("Value(%d)", v.Kind)
}

// ParseValue parses one component value. It returns false for input that
// no declaration could use, such as a length with an unknown unit.
func ParseValue(tok string) (Value, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Value{}, false
	}
	lower := strings.ToLower(tok)
	if strings.HasPrefix(lower, "#") || strings.HasPrefix(lower, "rgb") {
		c, ok := ParseColor(lower)
		if !ok {
			return Value{}, false
		}
		return ColorOf(c), true
	}
	if c := lower[0]; (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
		return parseNumeric(lower)
	}
	return Keyword(lower), true
}

func parseNumeric(s string) (Value, bool) {
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}
	num, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// e.g. a keyword that starts with '-' like "-webkit-box"
		if s[0] == '-' {
			return Keyword(s), true
		}
		return Value{}, false
	}
	switch s[end:] {
	case "":
		return Number(num), true
	case "px":
		return Length(num, UnitPx), true
	case "pt":
		return Length(num, UnitPt), true
	case "%":
		return Length(num, UnitPercent), true
	case "em":
		return Length(num, UnitEm), true
	}
	return Value{}, false
}

// ParseValues splits a declaration value on whitespace and commas, keeping
// parenthesised groups such as rgb(1, 2, 3) together.
func ParseValues(raw string) ([]Value, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "!important"))
	var values []Value
	depth := 0
	start := -1
	flush := func(end int) bool {
		if start < 0 {
			return true
		}
		v, ok := ParseValue(raw[start:end])
		start = -1
		if !ok {
			return false
		}
		values = append(values, v)
		return true
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (c == ' ' || c == '\t' || c == '\n' || c == ','):
			if !flush(i) {
				return nil, false
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if !flush(len(raw)) {
		return nil, false
	}
	return values, len(values) > 0
}
