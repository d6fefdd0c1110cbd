package parser

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "MADDE 1\nBirinci madde metni.\n\nMADDE 2\nİkinci madde metni.\n\nYürürlük."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", tree.Title)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(tree.Children))
	}

	want := []string{
		"MADDE 1\nBirinci madde metni.",
		"MADDE 2\nİkinci madde metni.",
		"Yürürlük.",
	}
	for i, w := range want {
		if tree.Children[i].Text != w {
			t.Errorf("child[%d]: expected %q, got %q", i, w, tree.Children[i].Text)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \n\n\nPara two.\r\n"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
	if tree.Children[1].Text != "Para two." {
		t.Errorf("expected trailing CR to be trimmed, got %q", tree.Children[1].Text)
	}
}

func TestTextParser_Windows1254(t *testing.T) {
	// "MADDE 1\nBaşlık ığdır" in Windows-1254.
	input := []byte("MADDE 1\nBa\xfel\xfdk \xfd\xf0d\xfdr")
	p := &TextParser{}
	tree, err := p.Parse(bytes.NewReader(input), "eski.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tree.PlainText(); got != "MADDE 1\nBaşlık ığdır" {
		t.Errorf("unexpected decoded text %q", got)
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8 passthrough", []byte("Türk Ceza Kanunu"), "Türk Ceza Kanunu"},
		{"bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, "MADDE 1"...), "MADDE 1"},
		{"decomposed cedilla composed", []byte("s\u0327art"), "\u015fart"},
		{"windows-1254", []byte("\xdeart"), "Şart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
