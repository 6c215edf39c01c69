package html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrEmptyDocument is returned when the input produced no elements at all.
var ErrEmptyDocument = errors.New("html: empty document")

// Parser converts the token stream of golang.org/x/net/html into the
// reduced DOM used by the style and layout stages. Comments, doctypes and
// <script> contents are discarded; <style> contents are collected into
// Document.Stylesheets and the <style> element itself is kept so the
// default stylesheet can hide it.
type Parser struct {
	doc *Document
}

func NewParser() *Parser {
	return &Parser{doc: NewDocument()}
}

// Parse reads a complete HTML document.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if node := p.convert(c); node != nil {
			p.doc.Root.AddChild(node)
		}
	}
	if len(p.doc.Root.Children) == 0 {
		return nil, ErrEmptyDocument
	}
	return p.doc, nil
}

func (p *Parser) convert(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		text := normalizeWhitespace(n.Data)
		if text == "" {
			return nil
		}
		return NewText(text)
	case html.ElementNode:
		attrs := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			attrs[strings.ToLower(a.Key)] = a.Val
		}
		elem := NewElement(n.Data, attrs)
		switch n.DataAtom {
		case atom.Style:
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			p.doc.Stylesheets = append(p.doc.Stylesheets, sb.String())
			return elem
		case atom.Script:
			return elem
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := p.convert(c); child != nil {
				elem.AddChild(child)
			}
		}
		return elem
	}
	return nil
}

// normalizeWhitespace collapses runs of HTML whitespace into a single space.
// Leading and trailing whitespace is kept (as one space) because it separates
// words across inline element boundaries.
func normalizeWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
		default:
			sb.WriteRune(r)
			inSpace = false
		}
	}
	return sb.String()
}

// Parse parses an HTML string.
func Parse(src string) (*Document, error) {
	return NewParser().Parse(strings.NewReader(src))
}

// ParseReader parses HTML from r.
func ParseReader(r io.Reader) (*Document, error) {
	return NewParser().Parse(r)
}
