package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mevzuat/internal/doctree"
)

// TextParser handles plain text files.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	text, err := DecodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	var current []string
	flush := func() {
		if len(current) > 0 {
			tree.Children = append(tree.Children, &doctree.DocNode{Text: strings.Join(current, "\n")})
			current = current[:0]
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan text: %w", err)
	}
	flush()

	return tree, nil
}
