package css

import (
	"fmt"
	"strings"
)

// Specificity is (id count, class count, tag count), compared
// lexicographically.
type Specificity [3]int

// Less reports whether s sorts before o.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

func (s Specificity) add(o Specificity) Specificity {
	return Specificity{s[0] + o[0], s[1] + o[1], s[2] + o[2]}
}

// Selector is one of SimpleSelector, DescendantSelector or ChildSelector.
type Selector interface {
	Specificity() Specificity
	String() string
	selector()
}

// SimpleSelector matches a single element. Empty fields match anything,
// so the zero value is the universal selector.
type SimpleSelector struct {
	Tag     string
	ID      string
	Classes []string
}

// DescendantSelector is "Ancestor Rest".
type DescendantSelector struct {
	Ancestor SimpleSelector
	Rest     Selector
}

// ChildSelector is "Parent > Rest".
type ChildSelector struct {
	Parent SimpleSelector
	Rest   Selector
}

func (SimpleSelector) selector()     {}
func (DescendantSelector) selector() {}
func (ChildSelector) selector()      {}

func (s SimpleSelector) Specificity() Specificity {
	var spec Specificity
	if s.ID != "" {
		spec[0] = 1
	}
	spec[1] = len(s.Classes)
	if s.Tag != "" {
		spec[2] = 1
	}
	return spec
}

func (s DescendantSelector) Specificity() Specificity {
	return s.Ancestor.Specificity().add(s.Rest.Specificity())
}

func (s ChildSelector) Specificity() Specificity {
	return s.Parent.Specificity().add(s.Rest.Specificity())
}

func (s SimpleSelector) String() string {
	var sb strings.Builder
	sb.WriteString(s.Tag)
	if s.ID != "" {
		sb.WriteString("#" + s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteString("." + c)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

func (s DescendantSelector) String() string {
	return s.Ancestor.String() + " " + s.Rest.String()
}

func (s ChildSelector) String() string {
	return s.Parent.String() + " > " + s.Rest.String()
}

// ParseSelector parses a single complex selector. Attribute selectors,
// pseudo-classes, pseudo-elements and the sibling combinators are not
// supported and produce an error.
func ParseSelector(src string) (Selector, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty selector")
	}
	if strings.ContainsAny(src, "[]:+~()") {
		return nil, fmt.Errorf("unsupported selector %q", src)
	}
	src = strings.ReplaceAll(src, ">", " > ")
	fields := strings.Fields(src)

	var parts []SimpleSelector
	var child []bool // child[i] is the combinator between parts[i] and parts[i+1]
	expectCompound := true
	for _, f := range fields {
		if f == ">" {
			if expectCompound {
				return nil, fmt.Errorf("dangling combinator in %q", src)
			}
			child[len(child)-1] = true
			expectCompound = true
			continue
		}
		simple, err := parseSimpleSelector(f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, simple)
		child = append(child, false)
		expectCompound = false
	}
	if expectCompound {
		return nil, fmt.Errorf("dangling combinator in %q", src)
	}

	var sel Selector = parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		if child[i] {
			sel = ChildSelector{Parent: parts[i], Rest: sel}
		} else {
			sel = DescendantSelector{Ancestor: parts[i], Rest: sel}
		}
	}
	return sel, nil
}

func parseSimpleSelector(src string) (SimpleSelector, error) {
	var s SimpleSelector
	i := 0
	readIdent := func() string {
		start := i
		for i < len(src) && isIdentChar(src[i]) {
			i++
		}
		return src[start:i]
	}
	if src[0] == '*' {
		i++
	} else if isIdentChar(src[0]) {
		s.Tag = strings.ToLower(readIdent())
	}
	for i < len(src) {
		c := src[i]
		i++
		name := readIdent()
		if name == "" {
			return SimpleSelector{}, fmt.Errorf("invalid selector %q", src)
		}
		switch c {
		case '#':
			if s.ID != "" {
				return SimpleSelector{}, fmt.Errorf("multiple ids in %q", src)
			}
			s.ID = name
		case '.':
			s.Classes = append(s.Classes, name)
		default:
			return SimpleSelector{}, fmt.Errorf("invalid selector %q", src)
		}
	}
	return s, nil
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c >= 0x80
}
