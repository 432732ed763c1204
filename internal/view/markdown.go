package view

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// tocMarker is a paragraph that is replaced by the table of contents.
const tocMarker = "[TOC]"

// Markdown renders post bodies to HTML. Raw HTML in the source is omitted
// and unsafe link schemes are dropped.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (m *Markdown) Render(src string) (string, error) {
	source := []byte(src)
	doc := m.md.Parser().Parse(text.NewReader(source))
	insertTOC(doc, source)

	var buf bytes.Buffer
	if err := m.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type heading struct {
	level int
	id    string
	title string
}

func insertTOC(doc ast.Node, source []byte) {
	var headings []heading
	var markers []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			h := heading{level: node.Level, title: plainText(node, source)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.id = string(b)
				}
			}
			headings = append(headings, h)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if strings.TrimSpace(plainText(node, source)) == tocMarker {
				markers = append(markers, node)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, marker := range markers {
		parent := marker.Parent()
		if len(headings) == 0 {
			parent.RemoveChild(parent, marker)
			continue
		}
		parent.ReplaceChild(parent, marker, buildTOC(headings))
	}
}

// buildTOC nests headings into lists by level.
func buildTOC(headings []heading) *ast.List {
	type frame struct {
		list  *ast.List
		level int
	}
	root := newTOCList()
	stack := []frame{{list: root, level: headings[0].level}}

	for _, h := range headings {
		top := stack[len(stack)-1]
		for h.level > top.level {
			parent := top.list.LastChild()
			if parent == nil {
				parent = ast.NewListItem(2)
				top.list.AppendChild(top.list, parent)
			}
			sub := newTOCList()
			parent.AppendChild(parent, sub)
			top = frame{list: sub, level: top.level + 1}
			stack = append(stack, top)
		}
		for h.level < top.level && len(stack) > 1 {
			stack = stack[:len(stack)-1]
			top = stack[len(stack)-1]
		}

		link := ast.NewLink()
		link.Destination = []byte("#" + h.id)
		link.AppendChild(link, ast.NewString([]byte(h.title)))
		block := ast.NewTextBlock()
		block.AppendChild(block, link)
		item := ast.NewListItem(2)
		item.AppendChild(item, block)
		top.list.AppendChild(top.list, item)
	}
	return root
}

func newTOCList() *ast.List {
	l := ast.NewList('-')
	l.IsTight = true
	l.SetAttributeString("class", []byte("toc"))
	return l
}

func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(plainText(c, source))
		}
	}
	return sb.String()
}
