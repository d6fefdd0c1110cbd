package legal

import (
	"strings"
	"unicode/utf8"
)

// CalculateConfidence scores how reliably an article body was segmented.
// patternIndex is the position in headingPatterns of the pattern that opened
// the article; earlier patterns are more specific and score higher.
func CalculateConfidence(text string, patternIndex int) float64 {
	score := 0.8
	score += float64(len(headingPatterns)-patternIndex) * 0.05

	n := utf8.RuneCountInString(text)
	if n > 100 {
		score += 0.1
	}
	if n > 500 {
		score += 0.05
	}

	if strings.Contains(text, ".") {
		score += 0.02
	}
	if strings.Contains(text, ",") {
		score += 0.01
	}
	if strings.Contains(text, ";") {
		score += 0.01
	}

	return min(max(score, 0), 1.0)
}
