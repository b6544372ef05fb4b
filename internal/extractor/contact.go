package extractor

import (
	"regexp"
	"strings"
)

// Email extraction. The strict pattern is tried first; matches that sit
// inside a URL are discarded, both by inspecting what directly precedes
// the match and by re-checking a small window around it. Only when the
// strict pattern yields nothing does the permissive fallback run, with
// the same URL rejection.
var (
	strictEmailRe     = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9._%+-]*@[A-Za-z0-9][A-Za-z0-9.-]*\.[A-Za-z]{2,4}\b`)
	permissiveEmailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	urlPrefixes = []string{"http://", "https://", "www."}
)

// emailWindow is the number of characters inspected on each side of a
// match for URL fragments.
const emailWindow = 10

// ExtractEmail returns the first email address in text that is not part
// of a URL, lower-cased, or "" when none is found.
func ExtractEmail(text string) string {
	if m := firstEmailMatch(text, strictEmailRe); m != "" {
		return strings.ToLower(m)
	}
	if m := firstEmailMatch(text, permissiveEmailRe); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

func firstEmailMatch(text string, re *regexp.Regexp) string {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if insideURL(text, loc[0], loc[1]) {
			continue
		}
		return text[loc[0]:loc[1]]
	}
	return ""
}

// insideURL reports whether the match at [start,end) looks like part of
// a URL rather than a standalone address.
func insideURL(text string, start, end int) bool {
	before := text[:start]
	for _, p := range urlPrefixes {
		if strings.HasSuffix(before, p) {
			return true
		}
	}
	// A '/' directly before the local part means the "email" terminates
	// a URL path, e.g. http://sample.com/jane@template.com.
	if start > 0 && text[start-1] == '/' {
		return true
	}
	lo := start - emailWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + emailWindow
	if hi > len(text) {
		hi = len(text)
	}
	window := strings.ToLower(text[lo:hi])
	return strings.Contains(window, "http") || strings.Contains(window, "www.")
}

// Phone extraction. Regional (Indian) patterns are tried strictly in
// list order; the first pattern producing a normalizable number wins.
var phonePatterns = []*regexp.Regexp{
	// Bare 10-digit mobile number.
	regexp.MustCompile(`\b[6-9]\d{9}\b`),
	// +91-prefixed, with optional separator.
	regexp.MustCompile(`\+91[-\s]?[6-9]\d{9}\b`),
	// 0-prefixed trunk form.
	regexp.MustCompile(`\b0[6-9]\d{9}\b`),
	// Hyphen/space grouped forms: 98765-43210, 987 654 3210.
	regexp.MustCompile(`\b\d{5}[-\s]\d{5}\b`),
	regexp.MustCompile(`\b\d{3}[-\s]\d{3}[-\s]\d{4}\b`),
	// Keyword-labeled, permissive digits.
	regexp.MustCompile(`(?i)(?:mobile|phone|contact|tel)\s*(?:no\.?|number)?\s*[:\-]?\s*(\+?\d[\d\-\s]{8,14}\d)`),
}

var phoneDigitRe = regexp.MustCompile(`\D`)

// ExtractPhone returns the candidate's mobile number normalized to a
// canonical 10-digit form, or "" when none is found.
func ExtractPhone(text string) string {
	for _, re := range phonePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			if n := normalizePhone(raw); n != "" {
				return n
			}
		}
	}
	return ""
}

// normalizePhone strips non-digits and a recognized national or
// international dialing prefix, keeping only canonical 10-digit Indian
// mobile numbers (first digit 6-9).
func normalizePhone(raw string) string {
	digits := phoneDigitRe.ReplaceAllString(raw, "")
	for _, prefix := range []string{"0091", "091", "91", "0"} {
		if len(digits) == 10+len(prefix) && strings.HasPrefix(digits, prefix) {
			digits = digits[len(prefix):]
			break
		}
	}
	if len(digits) != 10 {
		return ""
	}
	if digits[0] < '6' || digits[0] > '9' {
		return ""
	}
	return digits
}
