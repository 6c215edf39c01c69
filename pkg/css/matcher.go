package css

import (
	"boxlayout/pkg/html"
)

// Element is the part of an element that selectors look at.
type Element struct {
	Tag     string
	ID      string
	Classes []string
}

// ElementOf extracts the selector-relevant fields of an element node.
func ElementOf(n *html.Node) Element {
	return Element{Tag: n.TagName, ID: n.ID(), Classes: n.Classes()}
}

// Matches reports whether sel matches target, whose ancestors are given
// root first. A descendant combinator accepts a matching ancestor anywhere
// in the path; a child combinator requires the element directly above the
// one matched by its right-hand side.
func Matches(sel Selector, target Element, ancestors []Element) bool {
	parts, child := flatten(sel, nil, nil)
	last := len(parts) - 1
	if !matchesSimple(parts[last], target) {
		return false
	}
	return matchesLeft(parts, child, last-1, len(ancestors), ancestors)
}

// flatten turns the right-nested selector into its simple parts, left to
// right. child[i] tells whether parts[i] and parts[i+1] are joined by ">".
func flatten(sel Selector, parts []SimpleSelector, child []bool) ([]SimpleSelector, []bool) {
	switch s := sel.(type) {
	case SimpleSelector:
		return append(parts, s), child
	case DescendantSelector:
		return flatten(s.Rest, append(parts, s.Ancestor), append(child, false))
	case ChildSelector:
		return flatten(s.Rest, append(parts, s.Parent), append(child, true))
	}
	panic("css: unknown selector type")
}

// matchesLeft matches parts[idx] and everything to its left. anchor is the
// path index of the element matched by parts[idx+1] (len(path) for the
// target itself).
func matchesLeft(parts []SimpleSelector, child []bool, idx, anchor int, path []Element) bool {
	if idx < 0 {
		return true
	}
	if child[idx] {
		parent := anchor - 1
		if parent < 0 || !matchesSimple(parts[idx], path[parent]) {
			return false
		}
		return matchesLeft(parts, child, idx-1, parent, path)
	}
	for i := len(path) - 1; i >= 0; i-- {
		if matchesSimple(parts[idx], path[i]) && matchesLeft(parts, child, idx-1, i, path) {
			return true
		}
	}
	return false
}

func matchesSimple(s SimpleSelector, e Element) bool {
	if s.Tag != "" && s.Tag != e.Tag {
		return false
	}
	if s.ID != "" && s.ID != e.ID {
		return false
	}
	for _, want := range s.Classes {
		found := false
		for _, have := range e.Classes {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
