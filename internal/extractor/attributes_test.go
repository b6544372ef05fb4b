package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractExperience_WordOrders(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"5+ years of experience in backend work": "5 years",
		"Experience: 5 yrs":                      "5 years",
		"experience of 7 years with Java":        "7 years",
		"over 12 yrs experience":                 "12 years",
		"3 years at Acme Corp":                   "3 years",
		"fresher with no prior work":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractExperience(in), in)
	}
}

func TestExtractCurrentCTC(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "5 LPA", ExtractCurrentCTC("Current CTC: 5 LPA"))
	assert.Equal(t, "7.5 LPA", ExtractCurrentCTC("presently drawing 7.5 lakhs per annum"))
	assert.Equal(t, "", ExtractCurrentCTC("Expected CTC: 8 LPA"))
}

func TestExtractExpectedCTC(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "8 LPA", ExtractExpectedCTC("Expected CTC: 8 LPA"))
	assert.Equal(t, "10 LPA", ExtractExpectedCTC("looking for 10 lacs"))
	assert.Equal(t, "", ExtractExpectedCTC("Current CTC: 5 LPA"))
}

func TestExtractCTC_UnqualifiedMatchesNeither(t *testing.T) {
	t.Parallel()
	// Ambiguous phrasing is left unmatched rather than guessed.
	text := "CTC: 5 LPA"
	assert.Equal(t, "", ExtractCurrentCTC(text))
	assert.Equal(t, "", ExtractExpectedCTC(text))
}
