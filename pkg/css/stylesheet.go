package css

import (
	"fmt"
	"sort"
	"strings"
)

// Declaration is one "name: values" pair. Names are lowercase longhands.
type Declaration struct {
	Name   string
	Values []Value
}

// Rule is a selector list with its declarations. Selectors are sorted by
// descending specificity so the first match is the most specific.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet is an ordered list of rules.
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS text. Malformed or unsupported selectors are
// dropped individually; a rule left without selectors is dropped; invalid
// declarations are dropped. At-rules are skipped with their block.
func ParseStylesheet(src string) *Stylesheet {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}
	src = stripCSSComments(src)
	for _, ruleStr := range splitRules(src) {
		rule, err := parseRule(ruleStr)
		if err != nil {
			continue
		}
		sheet.Rules = append(sheet.Rules, rule)
	}
	return sheet
}

// MustParseStylesheet is for stylesheets known at compile time.
func MustParseStylesheet(src string) *Stylesheet {
	sheet := ParseStylesheet(src)
	if len(sheet.Rules) == 0 && strings.TrimSpace(src) != "" {
		panic(fmt.Sprintf("css: no rules in stylesheet %q", src))
	}
	return sheet
}

// stripCSSComments removes /* */ comments. An unterminated comment runs to
// the end of input.
func stripCSSComments(src string) string {
	var sb strings.Builder
	for {
		start := strings.Index(src, "/*")
		if start < 0 {
			sb.WriteString(src)
			return sb.String()
		}
		sb.WriteString(src[:start])
		end := strings.Index(src[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		src = src[start+2+end+2:]
	}
}

// splitRules splits CSS into top-level "prelude { block }" chunks. An
// unterminated final block is closed at end of input.
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0
	for i := 0; i < len(css); i++ {
		switch css[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				// stray brace, discard everything before it
				start = i + 1
				continue
			}
			depth--
			if depth == 0 {
				if ruleStr := strings.TrimSpace(css[start : i+1]); ruleStr != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
		case ';':
			// statement at-rules such as @import; end at the semicolon
			if depth == 0 && strings.HasPrefix(strings.TrimSpace(css[start:i]), "@") {
				start = i + 1
			}
		}
	}
	if depth > 0 {
		rules = append(rules, strings.TrimSpace(css[start:])+strings.Repeat("}", depth))
	}
	return rules
}

func parseRule(ruleStr string) (Rule, error) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		return Rule{}, fmt.Errorf("no opening brace found")
	}
	prelude := strings.TrimSpace(ruleStr[:bracePos])
	if strings.HasPrefix(prelude, "@") {
		return Rule{}, fmt.Errorf("unsupported at-rule %q", prelude)
	}

	var selectors []Selector
	for _, part := range strings.Split(prelude, ",") {
		sel, err := ParseSelector(part)
		if err != nil {
			continue
		}
		selectors = append(selectors, sel)
	}
	if len(selectors) == 0 {
		return Rule{}, fmt.Errorf("no usable selectors in %q", prelude)
	}
	sort.SliceStable(selectors, func(i, j int) bool {
		return selectors[j].Specificity().Less(selectors[i].Specificity())
	})

	declEnd := strings.LastIndex(ruleStr, "}")
	if declEnd < bracePos {
		declEnd = len(ruleStr)
	}
	return Rule{
		Selectors:    selectors,
		Declarations: ParseDeclarations(ruleStr[bracePos+1 : declEnd]),
	}, nil
}

// ParseDeclarations parses a declaration block body, such as the contents
// of a style attribute. Shorthands are expanded to longhands.
func ParseDeclarations(declStr string) []Declaration {
	decls := make([]Declaration, 0)
	for _, part := range strings.Split(declStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colonPos := strings.Index(part, ":")
		if colonPos == -1 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colonPos]))
		if !validPropertyName(property) {
			continue
		}
		values, ok := ParseValues(part[colonPos+1:])
		if !ok {
			continue
		}
		decls = append(decls, expandShorthand(property, values)...)
	}
	return decls
}

func expandShorthand(property string, values []Value) []Declaration {
	switch property {
	case "margin", "padding":
		return expandBoxProperty(property, "", values)
	case "border-width":
		return expandBoxProperty("border", "-width", values)
	case "border-color":
		return expandBoxProperty("border", "-color", values)
	case "border-style":
		return expandBoxProperty("border", "-style", values)
	case "border":
		return expandBorderProperty(sideNames[:], values)
	case "border-top", "border-right", "border-bottom", "border-left":
		return expandBorderProperty([]string{strings.TrimPrefix(property, "border-")}, values)
	}
	return []Declaration{{Name: property, Values: values}}
}

// expandBoxProperty expands the 1 to 4 value box shorthands:
// "a" (all), "a b" (vertical horizontal), "a b c" (top horizontal bottom),
// "a b c d" (top right bottom left).
func expandBoxProperty(prefix, suffix string, values []Value) []Declaration {
	var top, right, bottom, left Value
	switch len(values) {
	case 1:
		top, right, bottom, left = values[0], values[0], values[0], values[0]
	case 2:
		top, right, bottom, left = values[0], values[1], values[0], values[1]
	case 3:
		top, right, bottom, left = values[0], values[1], values[2], values[1]
	case 4:
		top, right, bottom, left = values[0], values[1], values[2], values[3]
	default:
		return nil
	}
	return []Declaration{
		{Name: prefix + "-top" + suffix, Values: []Value{top}},
		{Name: prefix + "-right" + suffix, Values: []Value{right}},
		{Name: prefix + "-bottom" + suffix, Values: []Value{bottom}},
		{Name: prefix + "-left" + suffix, Values: []Value{left}},
	}
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "solid": true, "dotted": true, "dashed": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// expandBorderProperty expands "border" and "border-<side>":
// "1px solid black" sets width, style and color of each listed side.
func expandBorderProperty(sides []string, values []Value) []Declaration {
	decls := make([]Declaration, 0, 3*len(sides))
	set := func(what string, v Value) {
		for _, side := range sides {
			decls = append(decls, Declaration{Name: "border-" + side + "-" + what, Values: []Value{v}})
		}
	}
	for _, v := range values {
		switch {
		case v.Kind == LengthValue || v.Kind == NumberValue:
			set("width", v)
		case v.Kind == KeywordValue && borderStyles[v.Keyword]:
			set("style", v)
			if v.Keyword == "none" || v.Keyword == "hidden" {
				set("width", Px(0))
			}
		case v.Kind == KeywordValue && (v.Keyword == "thin" || v.Keyword == "medium" || v.Keyword == "thick"):
			set("width", Px(map[string]float64{"thin": 1, "medium": 3, "thick": 5}[v.Keyword]))
		default:
			set("color", v)
		}
	}
	return decls
}

func validPropertyName(name string) bool {
	if name == "" || !(name[0] == '-' || (name[0] >= 'a' && name[0] <= 'z')) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return false
		}
	}
	return true
}
