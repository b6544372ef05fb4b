package textx_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/resume-field-extractor/pkg/textx"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello\nworld", textx.SanitizeText("  hello\nworld \x00\x07 "))
	assert.Equal(t, "tab\there", textx.SanitizeText("tab\there"))
	assert.Equal(t, "", textx.SanitizeText("\x01\x02"))
}

func TestTruncateRunesafe(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", textx.TruncateRunesafe("abc", 10))
	assert.Equal(t, "ab", textx.TruncateRunesafe("abcd", 2))

	s := strings.Repeat("é", 10) // 2 bytes each
	got := textx.TruncateRunesafe(s, 5)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 5)
}
