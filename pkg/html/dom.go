package html

import (
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	}
	return "unknown"
}

// Document is the parsed input handed to the style and layout stages.
// Root is a synthetic "document" element; its children are the top-level
// elements of the page.
type Document struct {
	Root        *Node
	Stylesheets []string // CSS from <style> tags, in document order
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
	}
}

// NewElement creates an element node. attrs may be nil.
func NewElement(tag string, attrs map[string]string, children ...*Node) *Node {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: attrs,
		Children:   children,
	}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// AddChild appends child to n's children.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.Children = append(n.Children, NewText(text))
}

// ID returns the element's id attribute, or "" when absent.
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return strings.TrimSpace(id)
}

// Classes returns the whitespace-separated class list.
func (n *Node) Classes() []string {
	classAttr, ok := n.GetAttribute("class")
	if !ok {
		return nil
	}
	return strings.Fields(classAttr)
}

// IsElement reports whether n is an element with the given tag.
func (n *Node) IsElement(tag string) bool {
	return n.Type == ElementNode && n.TagName == tag
}

// FindFirst returns the first element in document order with the given tag.
func (n *Node) FindFirst(tag string) *Node {
	if n.IsElement(tag) {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindFirst(tag); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

func (n *Node) String() string {
	if n.Type == TextNode {
		return "#text " + strings.TrimSpace(n.Text)
	}
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.TagName)
	if id := n.ID(); id != "" {
		sb.WriteString(` id="` + id + `"`)
	}
	if classes := n.Classes(); len(classes) > 0 {
		sb.WriteString(` class="` + strings.Join(classes, " ") + `"`)
	}
	sb.WriteByte('>')
	return sb.String()
}
