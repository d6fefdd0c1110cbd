package legal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// headingPatterns are tried in order on every line; the first match opens a
// new article. Group 1 is the article number, group 2 (if any) the text that
// follows it on the heading line. RE2's \s is ASCII only, so separators also
// accept Unicode space separators such as NBSP.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:Madde|MADDE|Article|ARTICLE)[\s\p{Zs}]*(\d+[a-zA-Z]?)`),
	regexp.MustCompile(`^(\d+[a-zA-Z]?)[\s\p{Zs}]*[-–—][\s\p{Zs}]*(.+)`),
	regexp.MustCompile(`^(\d+[a-zA-Z]?)[\s\p{Zs}]*\.[\s\p{Zs}]*(.+)`),
	regexp.MustCompile(`^(\d+[a-zA-Z]?)[\s\p{Zs}]*\)[\s\p{Zs}]*(.+)`),
}

var articleNumberPattern = regexp.MustCompile(`^\d+[a-zA-Z]?$`)

// pendingArticle is the article currently accumulating body lines.
type pendingArticle struct {
	number  string
	title   string
	text    strings.Builder
	pattern int
	line    int
}

// Segment splits raw statute text into articles. The returned Result carries
// the articles and any segmentation warnings; it has no errors, those are
// added by Validate.
func Segment(raw string) Result {
	res := newResult()
	var cur *pendingArticle

	finalize := func() {
		if cur == nil {
			return
		}
		text := strings.TrimSpace(cur.text.String())
		switch {
		case cur.number == "":
		case text == "":
			res.Warnings = append(res.Warnings, ParseWarning{
				Line:       cur.line,
				Message:    fmt.Sprintf("article %s has no body text and was skipped", cur.number),
				Suggestion: "check that the article body was extracted from the source file",
			})
		default:
			res.Articles = append(res.Articles, ParsedArticle{
				Number:     cur.number,
				Title:      cur.title,
				Text:       text,
				OrderIndex: len(res.Articles),
				Confidence: CalculateConfidence(text, cur.pattern),
				Line:       cur.line,
			})
		}
		cur = nil
	}

	for i, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimFunc(rawLine, isTrimmable)
		if line == "" {
			continue
		}
		lineNo := i + 1

		idx, m := matchHeading(line)
		if m == nil {
			if cur != nil {
				if cur.text.Len() > 0 {
					cur.text.WriteByte(' ')
				}
				cur.text.WriteString(line)
			}
			continue
		}

		finalize()
		cur = &pendingArticle{number: m[1], pattern: idx, line: lineNo}
		if len(m) > 2 {
			cur.title = m[2]
			cur.text.WriteString(m[2])
		}
		if w, bad := checkArticleNumber(cur.number, lineNo); bad {
			res.Warnings = append(res.Warnings, w)
		}
	}
	finalize()

	return res
}

func matchHeading(line string) (int, []string) {
	for i, re := range headingPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return i, m
		}
	}
	return -1, nil
}

func checkArticleNumber(number string, line int) (ParseWarning, bool) {
	if articleNumberPattern.MatchString(number) {
		return ParseWarning{}, false
	}
	return ParseWarning{
		Line:       line,
		Message:    fmt.Sprintf("invalid article number format: %q", number),
		Suggestion: "use digits optionally followed by a single letter, e.g. 5 or 12a",
	}, true
}

// isTrimmable matches what line trimming strips: Unicode whitespace and the BOM.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
