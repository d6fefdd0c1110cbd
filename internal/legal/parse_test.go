package legal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeywordArticles(t *testing.T) {
	in := "MADDE 1\nBu birinci maddenin metnidir.\nMADDE 2\nBu ikinci maddenin metnidir ve oldukça uzun bir açıklama içerir."
	res := Parse(in)

	require.Len(t, res.Articles, 2)
	a0 := res.Articles[0]
	assert.Equal(t, "1", a0.Number)
	assert.Empty(t, a0.Title)
	assert.True(t, strings.HasPrefix(a0.Text, "Bu birinci maddenin metnidir."))
	assert.Equal(t, 0, a0.OrderIndex)
	assert.Equal(t, 1, a0.Line)

	a1 := res.Articles[1]
	assert.Equal(t, "2", a1.Number)
	assert.Equal(t, 1, a1.OrderIndex)
	assert.Equal(t, 3, a1.Line)

	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.False(t, res.HasErrors())
}

func TestParse_DuplicateNumbers(t *testing.T) {
	res := Parse("Madde 1\nMetin A yeterince uzun.\nMadde 1\nMetin B yeterince uzun.")

	require.Len(t, res.Articles, 2)
	assert.Equal(t, "1", res.Articles[0].Number)
	assert.Equal(t, "1", res.Articles[1].Number)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, SeverityError, res.Errors[0].Severity)
	assert.Contains(t, res.Errors[0].Message, "duplicate")
	assert.Contains(t, res.Errors[0].Message, "1")
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.True(t, res.HasErrors())
}

func TestParse_EachExtraDuplicateIsReported(t *testing.T) {
	in := "Madde 5\nİlk metin yeterince uzun.\nMadde 5\nİkinci metin yeterince uzun.\n" +
		"Madde 6\nAltıncı madde metni.\nMadde 5\nÜçüncü metin yeterince uzun.\nMadde 6\nTekrar altıncı madde."
	res := Parse(in)

	require.Len(t, res.Articles, 5)
	var fives, sixes int
	for _, e := range res.Errors {
		switch {
		case strings.HasSuffix(e.Message, ": 5"):
			fives++
		case strings.HasSuffix(e.Message, ": 6"):
			sixes++
		}
	}
	assert.Equal(t, 2, fives)
	assert.Equal(t, 1, sixes)
}

func TestParse_NoArticles(t *testing.T) {
	res := Parse("Bu bir kanun metni değil, sadece rastgele bir paragraf.")

	assert.Empty(t, res.Articles)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "no articles found", res.Errors[0].Message)
	assert.Equal(t, 1, res.Errors[0].Line)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   \t  "} {
		res := Parse(in)
		assert.NotNil(t, res.Articles)
		assert.NotNil(t, res.Warnings)
		require.Len(t, res.Errors, 1, "input %q", in)
	}
}

func TestParse_ShortBodyWarning(t *testing.T) {
	res := Parse("Madde 5\nKısa.")

	require.Len(t, res.Articles, 1)
	assert.Equal(t, "Kısa.", res.Articles[0].Text)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "5")
	assert.Contains(t, res.Warnings[0].Message, "5 characters")
	assert.Equal(t, "review and edit the article text", res.Warnings[0].Suggestion)
}

func TestParse_DashVariantsAreEquivalent(t *testing.T) {
	var results []Result
	for _, dash := range []string{"-", "–", "—"} {
		in := fmt.Sprintf("1 %s Tanımlar\nBu Kanunda geçen terimler.\n2%sKapsam\nBu Kanun tüm kurumları kapsar.", dash, dash)
		res := Parse(in)
		require.Len(t, res.Articles, 2, "dash %q", dash)
		assert.Equal(t, "Tanımlar", res.Articles[0].Title)
		assert.Equal(t, "Tanımlar Bu Kanunda geçen terimler.", res.Articles[0].Text)
		assert.Equal(t, "Kapsam", res.Articles[1].Title)
		assert.InDelta(t, 0.97, res.Articles[0].Confidence, 1e-9)
		results = append(results, res)
	}
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}

func TestParse_NonBreakingSpaceHeadings(t *testing.T) {
	res := Parse("MADDE\u00a01\nBu birinci maddenin metnidir.\n2\u00a0-\u00a0Kapsam\nBu Kanun tüm kurumları kapsar.\n3\u202f)\u00a0Tanımlar\nBu Kanunda geçen terimler.")

	require.Empty(t, res.Errors)
	require.Len(t, res.Articles, 3)
	assert.Equal(t, "1", res.Articles[0].Number)
	assert.Equal(t, "2", res.Articles[1].Number)
	assert.Equal(t, "Kapsam", res.Articles[1].Title)
	assert.Equal(t, "Kapsam Bu Kanun tüm kurumları kapsar.", res.Articles[1].Text)
	assert.Equal(t, "3", res.Articles[2].Number)
	assert.Equal(t, "Tanımlar", res.Articles[2].Title)
}

func TestParse_PatternPriority(t *testing.T) {
	tests := []struct {
		line    string
		number  string
		title   string
		pattern int
	}{
		{"MADDE 12", "12", "", 0},
		{"madde 3a", "3a", "", 0},
		{"Article 7", "7", "", 0},
		{"4 - Amaç", "4", "Amaç", 1},
		{"5. Kapsam", "5", "Kapsam", 2},
		{"6) Tanımlar", "6", "Tanımlar", 3},
		{"7b . Yürürlük", "7b", "Yürürlük", 2},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			idx, m := matchHeading(tt.line)
			require.NotNil(t, m)
			assert.Equal(t, tt.pattern, idx)
			assert.Equal(t, tt.number, m[1])
			if tt.title != "" {
				assert.Equal(t, tt.title, m[2])
			}
		})
	}

	for _, line := range []string{"Maddeler", "Kanun No. 5237", "(1) fıkra", "1", "12 -", "Madde"} {
		_, m := matchHeading(line)
		assert.Nil(t, m, "line %q", line)
	}
}

func TestParse_BodyLinesJoinedWithSpaces(t *testing.T) {
	res := Parse("Madde 3\n  birinci satır  \n\n\tikinci satır\r\nüçüncü satır")
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "birinci satır ikinci satır üçüncü satır", res.Articles[0].Text)
}

func TestParse_TextBeforeFirstHeadingIsDiscarded(t *testing.T) {
	in := "TÜRK CEZA KANUNU\nKanun Numarası: 5237\nMadde 1\nCeza kanununun amacı kişi hak ve özgürlüklerini korumaktır."
	res := Parse(in)
	require.Len(t, res.Articles, 1)
	assert.NotContains(t, res.Articles[0].Text, "TÜRK CEZA KANUNU")
	assert.Equal(t, 3, res.Articles[0].Line)
}

func TestParse_HeadingOnlyArticleIsSkippedWithWarning(t *testing.T) {
	res := Parse("MADDE 1\nMADDE 2\nİkinci madde metni yeterlidir.")

	require.Len(t, res.Articles, 1)
	assert.Equal(t, "2", res.Articles[0].Number)
	assert.Equal(t, 0, res.Articles[0].OrderIndex)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 1, res.Warnings[0].Line)
	assert.Contains(t, res.Warnings[0].Message, "no body text")
}

func TestParse_LastArticleScoredWithItsOwnPattern(t *testing.T) {
	res := Parse("1) Birinci fıkra metni.\n2) İkinci fıkra metni.")
	require.Len(t, res.Articles, 2)
	for _, a := range res.Articles {
		assert.InDelta(t, 0.87, a.Confidence, 1e-9, "article %s", a.Number)
	}
}

func TestParse_ConfidenceUsesOpeningPattern(t *testing.T) {
	// Article 1 opens with the ")" pattern and is closed by a keyword heading.
	res := Parse("1) Birinci fıkra metni.\nMADDE 2\nİkinci madde metni.")
	require.Len(t, res.Articles, 2)
	assert.InDelta(t, 0.87, res.Articles[0].Confidence, 1e-9)
	assert.InDelta(t, 1.0, res.Articles[1].Confidence, 1e-9)
}

func TestParse_DiagnosticLinesCountBlankLines(t *testing.T) {
	res := Parse("\n\nMadde 1\n\nMetin yeterince uzun.\nMadde 1\nTekrar eden metin.")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 6, res.Errors[0].Line)
}

func TestCheckArticleNumber(t *testing.T) {
	_, bad := checkArticleNumber("12a", 4)
	assert.False(t, bad)

	w, bad := checkArticleNumber("12ab", 4)
	require.True(t, bad)
	assert.Equal(t, 4, w.Line)
	assert.Contains(t, w.Message, `"12ab"`)
	assert.NotEmpty(t, w.Suggestion)
}

var propertyInputs = []string{
	"",
	"MADDE 1\nBirinci.\nMADDE 2\nİkinci madde, uzun; metin.",
	"1 - A\n2 - B\n3 - C\n",
	"Madde 1\nx\nMadde 1\ny\nMadde 1\nz",
	strings.Repeat("Madde 9\n"+strings.Repeat("uzun metin, ", 60)+"\n", 3),
	"giriş\n5) beşinci\n5a) beşinci a\nArticle 6\nsix.",
}

func TestParse_Properties(t *testing.T) {
	for _, in := range propertyInputs {
		first := Parse(in)
		assert.Equal(t, first, Parse(in), "parse must be deterministic")
		assertInvariants(t, in, first)
	}
}

func assertInvariants(t *testing.T, in string, res Result) {
	t.Helper()
	for i, a := range res.Articles {
		if a.OrderIndex != i {
			t.Fatalf("input %q: article %d has orderIndex %d", in, i, a.OrderIndex)
		}
		if a.Confidence < 0 || a.Confidence > 1 {
			t.Fatalf("input %q: confidence %f out of range", in, a.Confidence)
		}
		if strings.TrimSpace(a.Text) == "" {
			t.Fatalf("input %q: article %d has empty text", in, i)
		}
	}
	for _, e := range res.Errors {
		if e.Severity != SeverityError {
			t.Fatalf("input %q: error with severity %q", in, e.Severity)
		}
	}
	if len(res.Articles) == 0 && len(res.Errors) == 0 {
		t.Fatalf("input %q: no articles and no errors", in)
	}
}

// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./internal/legal/
func FuzzParse(f *testing.F) {
	for _, s := range propertyInputs {
		f.Add(s)
	}
	f.Add("MADDE 1 –\n\n\n1—\n1)\n1.\n")
	f.Fuzz(func(t *testing.T, in string) {
		res := Parse(in)
		assertInvariants(t, in, res)
	})
}
