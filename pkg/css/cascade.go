package css

import (
	"sort"

	"boxlayout/pkg/html"
)

// Resolver computes the property map of an element from the user-agent
// stylesheet and the author stylesheets.
type Resolver struct {
	userAgent *Stylesheet
	author    []*Stylesheet
}

// NewResolver creates a resolver. ua may be nil to resolve against author
// rules only.
func NewResolver(ua *Stylesheet, author ...*Stylesheet) *Resolver {
	return &Resolver{userAgent: ua, author: author}
}

type matchedRule struct {
	spec  Specificity
	order int // origin-major source order; user-agent rules come first
	decls []Declaration
}

// Resolve returns the property map of target. inherited is applied first,
// then matching rules in ascending specificity (ties by source order,
// user-agent before author), then the inline declarations.
func (r *Resolver) Resolve(target Element, ancestors []Element, inherited PropertyMap, inline []Declaration) PropertyMap {
	matched := r.matchingRules(target, ancestors)
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].spec != matched[j].spec {
			return matched[i].spec.Less(matched[j].spec)
		}
		return matched[i].order < matched[j].order
	})

	props := inherited.Clone()
	for _, m := range matched {
		for _, d := range m.decls {
			props[d.Name] = d.Values
		}
	}
	for _, d := range inline {
		props[d.Name] = d.Values
	}
	computeFontSize(props, inherited)
	return props
}

func (r *Resolver) matchingRules(target Element, ancestors []Element) []matchedRule {
	var matched []matchedRule
	order := 0
	collect := func(sheet *Stylesheet) {
		if sheet == nil {
			return
		}
		for _, rule := range sheet.Rules {
			order++
			// selectors are sorted most specific first
			for _, sel := range rule.Selectors {
				if Matches(sel, target, ancestors) {
					matched = append(matched, matchedRule{spec: sel.Specificity(), order: order, decls: rule.Declarations})
					break
				}
			}
		}
	}
	collect(r.userAgent)
	for _, sheet := range r.author {
		collect(sheet)
	}
	return matched
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
}

// computeFontSize turns a relative font-size into pixels against the
// inherited size, so descendants inherit an absolute value.
func computeFontSize(props, inherited PropertyMap) {
	v, ok := props.First("font-size")
	if !ok {
		return
	}
	parent := inherited.GetFontSize()
	switch v.Kind {
	case LengthValue, NumberValue:
		if px, ok := v.ToPx(parent, parent); ok && px >= 0 {
			props.Set("font-size", Px(px))
			return
		}
	case KeywordValue:
		if px, ok := fontSizeKeywords[v.Keyword]; ok {
			props.Set("font-size", Px(px))
			return
		}
		switch v.Keyword {
		case "smaller":
			props.Set("font-size", Px(parent/1.2))
			return
		case "larger":
			props.Set("font-size", Px(parent*1.2))
			return
		}
	}
	// invalid; keep the inherited size
	props.Set("font-size", Px(parent))
}

// StyledNode is a DOM node paired with its resolved property map.
type StyledNode struct {
	Node     *html.Node
	Style    PropertyMap
	Children []*StyledNode
}

// Display returns the node's display type. Text nodes are inline.
func (s *StyledNode) Display() DisplayType {
	if s.Node.Type == html.TextNode {
		return DisplayInline
	}
	return s.Style.GetDisplay()
}

// ApplyStyles resolves the whole document against the default stylesheet,
// the document's own <style> sheets and the given author sheets.
func ApplyStyles(doc *html.Document, author ...*Stylesheet) *StyledNode {
	sheets := make([]*Stylesheet, 0, len(doc.Stylesheets)+len(author))
	for _, src := range doc.Stylesheets {
		sheets = append(sheets, ParseStylesheet(src))
	}
	sheets = append(sheets, author...)
	return NewResolver(DefaultStylesheet(), sheets...).StyleTree(doc.Root)
}

// StyleTree resolves root and its subtree.
func (r *Resolver) StyleTree(root *html.Node) *StyledNode {
	return r.styleNode(root, nil, PropertyMap{}, nil)
}

func (r *Resolver) styleNode(n *html.Node, ancestors []Element, inherited PropertyMap, parent *StyledNode) *StyledNode {
	if n.Type == html.TextNode {
		// Text under an inline element takes all of its properties.
		props := inherited
		if parent != nil {
			if parent.Style.GetDisplay() == DisplayInline {
				props = parent.Style.Clone()
			} else {
				props = parent.Style.Inheritable()
			}
		}
		return &StyledNode{Node: n, Style: props}
	}

	var inline []Declaration
	if styleAttr, ok := n.GetAttribute("style"); ok {
		inline = ParseDeclarations(styleAttr)
	}
	elem := ElementOf(n)
	styled := &StyledNode{
		Node:  n,
		Style: r.Resolve(elem, ancestors, inherited, inline),
	}

	path := make([]Element, len(ancestors)+1)
	copy(path, ancestors)
	path[len(ancestors)] = elem
	childInherited := styled.Style.Inheritable()
	styled.Children = make([]*StyledNode, 0, len(n.Children))
	for _, c := range n.Children {
		styled.Children = append(styled.Children, r.styleNode(c, path, childInherited, styled))
	}
	return styled
}
