// Package doctree holds the format-neutral structure that every file parser
// produces and flattens it back to the line-oriented text the legal parser
// consumes.
package doctree

import "strings"

// DocTree is the root of an extracted document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Heading text as it appears in the source (empty for plain text)
	Text     string     // Body text; lines separated by '\n'
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// PlainText flattens the tree in document order. Each heading becomes its own
// line so that statute headings such as "MADDE 1" stay line-initial.
func (t *DocTree) PlainText() string {
	var sb strings.Builder
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" {
				writeLine(&sb, n.Title)
			}
			if n.Text != "" {
				writeLine(&sb, n.Text)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return sb.String()
}

func writeLine(sb *strings.Builder, s string) {
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(s)
}
