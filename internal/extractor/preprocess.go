package extractor

import (
	"regexp"
	"strings"
)

// topSectionLen bounds the text prefix used to bias name search toward
// the conventional resume header region.
const topSectionLen = 2000

// allCapsHeaderRe matches a first line of 2-5 ALL-CAPS tokens, each
// optionally followed by a single-letter initial, e.g. "SELVA RAGAVAN R".
// Resumes very commonly open with the candidate's name in this shape.
var allCapsHeaderRe = regexp.MustCompile(`^[A-Z]{2,}(?:[-\s][A-Z]{2,})*(?:\s+[A-Z])?\s+[A-Z]{2,}(?:[-\s][A-Z]{2,})*(?:\s+[A-Z])?`)

// TopSection returns the first max characters of text. The prefix is
// used only for name search; field extractors always see the full text.
func TopSection(text string, max int) string {
	if max <= 0 {
		max = topSectionLen
	}
	if len(text) <= max {
		return text
	}
	return text[:max]
}

// NormalizeForNER rewrites an ALL-CAPS first line into Title Case so the
// entity model, which handles all-caps text poorly, can still tag it.
// Single-letter tokens (initials) are left untouched; every other line
// passes through unchanged.
func NormalizeForNER(text string) string {
	if text == "" {
		return text
	}
	first, rest, hasMore := strings.Cut(text, "\n")
	if !allCapsHeaderRe.MatchString(strings.TrimSpace(first)) {
		return text
	}
	fields := strings.Fields(first)
	for i, f := range fields {
		fields[i] = titleCaseToken(f)
	}
	out := strings.Join(fields, " ")
	if hasMore {
		out += "\n" + rest
	}
	return out
}

// titleCaseToken lowers everything after the first letter of each
// hyphen-joined part; single-letter parts stay as they are.
func titleCaseToken(tok string) string {
	parts := strings.Split(tok, "-")
	for i, p := range parts {
		if len(p) > 1 {
			parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		}
	}
	return strings.Join(parts, "-")
}
