package layout

import (
	"strings"

	"boxlayout/pkg/css"
	"boxlayout/pkg/html"
	"boxlayout/pkg/images"
	"boxlayout/pkg/text"
)

// BuildLayoutTree generates the box tree for a style tree. No geometry is
// computed. A root with display:none yields a lone None box; an inline-level
// root is wrapped in an anonymous block. sizer may be nil, in which case
// images have no intrinsic size.
func BuildLayoutTree(root *css.StyledNode, sizer images.Sizer) *LayoutBox {
	if root.Display() == css.DisplayNone {
		return &LayoutBox{Node: root.Node, Style: root.Style, Type: None{}}
	}
	b := &builder{sizer: sizer}
	box, hoisted := b.build(root)
	if !isBlockLevel(box) {
		anon := &LayoutBox{Type: AnonymousBlock{}, Style: root.Style.Inheritable()}
		anon.Children = []*LayoutBox{box}
		wrapper := &LayoutBox{Node: root.Node, Style: css.PropertyMap{}, Type: Block{}}
		wrapper.Children = append([]*LayoutBox{anon}, hoisted...)
		return wrapper
	}
	return box
}

type builder struct {
	sizer images.Sizer
}

// build returns the box for s and the floats found inside it that belong
// to the nearest block container above it.
func (b *builder) build(s *css.StyledNode) (*LayoutBox, []*LayoutBox) {
	box := &LayoutBox{
		Node:   s.Node,
		Style:  s.Style,
		Type:   boxTypeFor(s),
		ZIndex: s.Style.GetZIndex(),
	}
	if s.Node.Type == html.TextNode {
		return box, nil
	}
	if s.Node.TagName == "img" {
		box.Info.Image = b.imageInfo(s.Node)
		return box, nil
	}

	if _, ok := box.Type.(Inline); ok {
		// Inline content stays with the inline box; floats escape to the
		// enclosing block container.
		var hoisted []*LayoutBox
		for _, c := range s.Children {
			if c.Display() == css.DisplayNone {
				continue
			}
			child, up := b.build(c)
			if _, isFloat := child.Type.(Float); isFloat {
				hoisted = append(hoisted, child)
			} else {
				if _, isBlock := child.Type.(Block); isBlock {
					// blocks inside inline content are laid out atomically
					child.Type = InlineBlock{}
				}
				box.Children = append(box.Children, child)
			}
			hoisted = append(hoisted, up...)
		}
		return box, hoisted
	}

	var run *LayoutBox
	closeRun := func() {
		if run != nil && !whitespaceOnly(run.Children) {
			box.Children = append(box.Children, run)
		}
		run = nil
	}
	for _, c := range s.Children {
		if c.Display() == css.DisplayNone {
			continue
		}
		child, hoisted := b.build(c)
		if isBlockLevel(child) {
			closeRun()
			box.Children = append(box.Children, child)
		} else {
			if run == nil {
				run = &LayoutBox{Type: AnonymousBlock{}, Style: s.Style.Inheritable()}
			}
			run.Children = append(run.Children, child)
		}
		if len(hoisted) > 0 {
			closeRun()
			box.Children = append(box.Children, hoisted...)
		}
	}
	closeRun()
	return box, nil
}

func boxTypeFor(s *css.StyledNode) BoxType {
	if s.Node.Type == html.TextNode {
		return TextRun{Start: 0, End: len(s.Node.Text), Font: fontOf(s.Style)}
	}
	if side := s.Style.GetFloat(); side != css.FloatNone {
		return Float{Side: side}
	}
	switch s.Display() {
	case css.DisplayBlock:
		return Block{}
	case css.DisplayInlineBlock:
		return InlineBlock{}
	}
	return Inline{}
}

func fontOf(style css.PropertyMap) text.Font {
	return text.Font{
		Size:   style.GetFontSize(),
		Bold:   style.GetFontWeight() == css.FontWeightBold,
		Italic: style.GetFontStyle() == css.FontStyleItalic,
	}
}

func isBlockLevel(b *LayoutBox) bool {
	switch b.Type.(type) {
	case Block, Float, AnonymousBlock:
		return true
	}
	return false
}

func whitespaceOnly(boxes []*LayoutBox) bool {
	for _, b := range boxes {
		if _, ok := b.Type.(TextRun); !ok || strings.TrimSpace(b.Node.Text) != "" {
			return false
		}
	}
	return true
}

func (b *builder) imageInfo(n *html.Node) *ImageInfo {
	src, _ := n.GetAttribute("src")
	info := &ImageInfo{Src: src}
	if b.sizer == nil {
		info.Err = images.ErrNoSource
		return info
	}
	info.Width, info.Height, info.Err = b.sizer.IntrinsicSize(src)
	return info
}
