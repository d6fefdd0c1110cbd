// Package legal segments the extracted text of a statute into numbered
// articles, scores each article and reports structural errors and quality
// warnings about the segmentation.
//
// The package is pure: Parse performs no I/O, keeps no state between calls
// and never fails. Rejection is expressed as data in Result.Errors.
package legal

// Severity classifies a ParseError.
type Severity string

const SeverityError Severity = "ERROR"

// ParsedArticle is one segmented article of a legal document.
type ParsedArticle struct {
	Number     string  `json:"number" yaml:"number"`
	Title      string  `json:"title,omitempty" yaml:"title,omitempty"`
	Text       string  `json:"text" yaml:"text"`
	OrderIndex int     `json:"orderIndex" yaml:"orderIndex"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Line       int     `json:"line" yaml:"line"` // 1-based heading line in the raw input
}

// ParseError blocks acceptance of a parse.
type ParseError struct {
	Line     int      `json:"line" yaml:"line"`
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// ParseWarning is an advisory quality issue meant for human review.
type ParseWarning struct {
	Line       int    `json:"line" yaml:"line"`
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

// Result is the outcome of parsing one document. All slices are non-nil.
type Result struct {
	Articles []ParsedArticle `json:"articles" yaml:"articles"`
	Errors   []ParseError    `json:"errors" yaml:"errors"`
	Warnings []ParseWarning  `json:"warnings" yaml:"warnings"`
}

// HasErrors reports whether the result should be rejected by the caller.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func newResult() Result {
	return Result{
		Articles: make([]ParsedArticle, 0),
		Errors:   make([]ParseError, 0),
		Warnings: make([]ParseWarning, 0),
	}
}
