package legal

import (
	"fmt"
	"unicode/utf8"
)

// minArticleLength is the body length, in characters, below which an article
// is reported as suspiciously short.
const minArticleLength = 10

// Validate checks a segmented result for structural errors (no articles,
// duplicate numbers) and short article bodies, appending its findings to
// res.Errors and res.Warnings.
func Validate(res Result) Result {
	if len(res.Articles) == 0 {
		res.Errors = append(res.Errors, ParseError{
			Line:     1,
			Message:  "no articles found",
			Severity: SeverityError,
		})
	}

	seen := make(map[string]bool, len(res.Articles))
	for _, a := range res.Articles {
		if !seen[a.Number] {
			seen[a.Number] = true
			continue
		}
		res.Errors = append(res.Errors, ParseError{
			Line:     a.Line,
			Message:  fmt.Sprintf("duplicate article number: %s", a.Number),
			Severity: SeverityError,
		})
	}

	for _, a := range res.Articles {
		if n := utf8.RuneCountInString(a.Text); n < minArticleLength {
			res.Warnings = append(res.Warnings, ParseWarning{
				Line:       a.Line,
				Message:    fmt.Sprintf("article %s is very short (%d characters)", a.Number, n),
				Suggestion: "review and edit the article text",
			})
		}
	}

	return res
}
