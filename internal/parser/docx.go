package parser

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/dgallion1/mevzuat/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

// docxHeadingStyle matches heading style ids. Turkish Word stores "Başlık 1"
// as style id "Balk1".
var docxHeadingStyle = regexp.MustCompile(`(?i)^(?:heading|balk|başlık)\s*([1-6])$`)

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "mevzuat-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}

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

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		level := docxHeadingLevel(para)
		if level == 0 {
			body = append(body, text)
			continue
		}

		flushText()
		newNode := &doctree.DocNode{Title: text}
		for len(stack) > 1 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, newNode)
		stack = append(stack, stackEntry{node: newNode, level: level})
	}
	flushText()

	tree.Children = root.Children
	if len(tree.Children) == 0 && root.Text != "" {
		tree.Children = []*doctree.DocNode{{Text: root.Text}}
	} else if root.Text != "" {
		tree.Children = append([]*doctree.DocNode{{Text: root.Text}}, tree.Children...)
	}

	return tree, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	m := docxHeadingStyle.FindStringSubmatch(strings.TrimSpace(para.Properties.Style.Val))
	if m == nil {
		return 0
	}
	return int(m[1][0] - '0')
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return normalize(strings.TrimSpace(buf.String()))
}
