package extractor

import (
	"fmt"
	"regexp"
)

// Experience extraction: ordered alternatives covering the usual word
// orders. The first captured integer wins and is reported as "<n> years".
var experiencePatterns = []*regexp.Regexp{
	// "5 years of experience", "5+ yrs experience"
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\s+(?:of\s+)?experience\b`),
	// "experience: 5 yrs", "experience - 5 years", "experience of 5 years"
	regexp.MustCompile(`(?i)\bexperience\s*(?:of|[:\-])?\s*(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`),
	// Bare "5+ years" / "5 yrs"
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`),
}

// ExtractExperience returns the candidate's stated experience as
// "<n> years", or "" when no pattern matches.
func ExtractExperience(text string) string {
	for _, re := range experiencePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf("%s years", m[1])
		}
	}
	return ""
}

// CTC extraction. Current and expected use disjoint qualifier sets; a
// number phrase with no qualifying keyword matches neither extractor.
// Ambiguous phrasing is left unmatched rather than guessed.
const ctcAmount = `(\d+(?:\.\d+)?)\s*(?:lakhs|lakh|lacs|lac|lpa)\b`

var (
	currentCtcRe  = regexp.MustCompile(`(?i)\b(?:current|present|drawing|earning)\b[^.\n]{0,60}?` + ctcAmount)
	expectedCtcRe = regexp.MustCompile(`(?i)\b(?:expected|expecting|looking\s+for|seeking)\b[^.\n]{0,60}?` + ctcAmount)
)

// ExtractCurrentCTC returns the current compensation as "<value> LPA",
// or "" when no qualified phrase is present.
func ExtractCurrentCTC(text string) string {
	if m := currentCtcRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s LPA", m[1])
	}
	return ""
}

// ExtractExpectedCTC returns the expected compensation as "<value> LPA",
// or "" when no qualified phrase is present.
func ExtractExpectedCTC(text string) string {
	if m := expectedCtcRe.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s LPA", m[1])
	}
	return ""
}
