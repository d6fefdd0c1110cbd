package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mevzuat/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	decoded, err := DecodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode markdown: %w", err)
	}
	src := []byte(decoded)

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}

	// Headings nest by level; root is level 0.
	type stackEntry struct {
		node  *doctree.DocNode
		level int
	}
	root := &doctree.DocNode{Title: tree.Title}
	stack := []stackEntry{{node: root, level: 0}}

	var body []string
	flushText := func() {
		if len(body) == 0 {
			return
		}
		top := stack[len(stack)-1].node
		t := strings.Join(body, "\n")
		if top.Text != "" {
			top.Text += "\n" + t
		} else {
			top.Text = t
		}
		body = body[:0]
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flushText()
			newNode := &doctree.DocNode{Title: inlineText(h, src)}
			for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, newNode)
			stack = append(stack, stackEntry{node: newNode, level: h.Level})
			continue
		}
		if t := blockText(n, src); t != "" {
			body = append(body, t)
		}
	}
	flushText()

	tree.Children = root.Children
	if len(tree.Children) == 0 && root.Text != "" {
		tree.Children = []*doctree.DocNode{{Text: root.Text}}
	} else if root.Text != "" {
		// Text before the first heading stays in front of it.
		tree.Children = append([]*doctree.DocNode{{Text: root.Text}}, tree.Children...)
	}

	return tree, nil
}

// blockText renders a block node as newline-separated lines.
func blockText(n ast.Node, src []byte) string {
	switch node := n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	case *ast.List:
		return listText(node, src)
	}

	if fc := n.FirstChild(); fc != nil && fc.Type() == ast.TypeInline {
		return inlineText(n, src)
	}

	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// listText restores ordered-list markers, which goldmark strips. Statutes
// written as "1. ..." lists depend on them for article numbering.
func listText(list *ast.List, src []byte) string {
	var lines []string
	num := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		t := blockText(item, src)
		if list.IsOrdered() {
			t = fmt.Sprintf("%d%c %s", num, list.Marker, t)
			num++
		}
		if strings.TrimSpace(t) != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte('\n')
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
