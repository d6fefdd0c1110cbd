package legal

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)

	turkishFold = strings.NewReplacer(
		"ğ", "g",
		"ü", "u",
		"ş", "s",
		"ı", "i",
		"ö", "o",
		"ç", "c",
	)
)

// GenerateSlug turns text into a lowercase, hyphen-delimited identifier made
// of [a-z0-9-] only. Turkish letters are folded to their ASCII base letter;
// every other character outside the alphabet is dropped.
func GenerateSlug(text string) string {
	s := strings.ToLower(text)
	s = turkishFold.Replace(s)
	// RE2's \s is ASCII-only; map the rest so NBSP and friends still separate words.
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ArticleSlug builds the persistent identifier of an article inside a document.
func ArticleSlug(documentSlug, number string) string {
	return GenerateSlug(documentSlug + "-madde-" + number)
}
