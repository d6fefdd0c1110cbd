package legal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateConfidence(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern int
		want    float64
	}{
		{"keyword pattern saturates", "", 0, 1.0},
		{"weakest pattern bare", "kısa", 3, 0.85},
		{"period bonus", "a.b", 3, 0.87},
		{"comma and semicolon", "a,b;c", 2, 0.92},
		{"over 100 chars", strings.Repeat("a", 101), 3, 0.95},
		{"exactly 100 chars", strings.Repeat("a", 100), 3, 0.85},
		{"over 500 chars stacks", strings.Repeat("a", 501), 3, 1.0},
		{"clamped", strings.Repeat("a", 501) + ".,;", 1, 1.0},
		{"counts characters not bytes", strings.Repeat("ş", 60), 3, 0.85},
		{"multibyte over 100", strings.Repeat("ş", 101), 3, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateConfidence(tt.text, tt.pattern), 1e-9)
		})
	}
}

func TestCalculateConfidence_Bounds(t *testing.T) {
	for _, idx := range []int{-5, 0, 1, 2, 3, 4, 50} {
		got := CalculateConfidence("Metin, burada; biter.", idx)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestCalculateConfidence_EarlierPatternScoresHigher(t *testing.T) {
	text := "Bu madde kısa bir metindir."
	for i := 1; i < len(headingPatterns); i++ {
		assert.Greater(t, CalculateConfidence(text, i-1), CalculateConfidence(text, i))
	}
}
