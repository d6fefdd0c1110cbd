package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/mevzuat/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files, e.g. statute pages saved from an official gazette.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	decoded, err := DecodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode html: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	if title := findTitle(doc); title != "" {
		tree.Title = title
	}

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
	appendBlock := func(t string) {
		if t != "" {
			body = append(body, t)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				flushText()
				newNode := &doctree.DocNode{Title: strings.Join(strings.Fields(textContent(n)), " ")}
				for len(stack) > 1 && stack[len(stack)-1].level >= level {
					stack = stack[:len(stack)-1]
				}
				parent := stack[len(stack)-1].node
				parent.Children = append(parent.Children, newNode)
				stack = append(stack, stackEntry{node: newNode, level: level})
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "noscript":
				return
			case "ol":
				appendBlock(orderedListText(n))
				return
			case "p", "li", "td", "blockquote", "pre":
				appendBlock(textContent(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if bodyNode := findBody(doc); bodyNode != nil {
		walk(bodyNode)
	} else {
		walk(doc)
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

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// orderedListText renders <ol> items with their numbers, honouring start=.
func orderedListText(ol *html.Node) string {
	num := 1
	for _, a := range ol.Attr {
		if a.Key == "start" {
			if n, err := strconv.Atoi(a.Val); err == nil {
				num = n
			}
		}
	}
	var lines []string
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		if t := textContent(c); t != "" {
			lines = append(lines, fmt.Sprintf("%d. %s", num, t))
		}
		num++
	}
	return strings.Join(lines, "\n")
}

// textContent collects the text below n. <br> becomes a line break and runs
// of other whitespace collapse to one space.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			// Source newlines are layout, not content; only <br> breaks a line.
			buf.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return normalize(strings.Join(lines, "\n"))
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
