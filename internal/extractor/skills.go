package extractor

import (
	"regexp"
	"sort"
	"strings"
)

// Compiled word-boundary matchers, one per dictionary entry, built once
// at process start. Plain \b does not work for entries ending in
// non-word characters (C++, C#, .NET), so boundaries are spelled out.
var (
	skillMatchers    = compileDictionary(skillCatalog)
	locationMatchers = compileDictionary(locationGazetteer)
)

func compileDictionary(entries []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(entries))
	for i, e := range entries {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9_+#.])(` + regexp.QuoteMeta(e) + `)(?:[^A-Za-z0-9_+#]|$)`)
	}
	return out
}

// ExtractSkills searches every catalog entry against the full text and
// returns the matches as a comma-joined string in first-seen-in-text
// order, deduplicated by lowercase key, using each entry's canonical
// display casing. Catalog order affects nothing else.
func ExtractSkills(text string) string {
	type hit struct {
		display string
		pos     int
	}
	var hits []hit
	seen := make(map[string]struct{})
	for i, re := range skillMatchers {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		key := strings.ToLower(skillCatalog[i])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		hits = append(hits, hit{display: skillCatalog[i], pos: loc[2]})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].pos < hits[b].pos })
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.display
	}
	return strings.Join(names, ", ")
}

// ExtractLocation returns the first gazetteer entry that appears
// anywhere in the text. Gazetteer order, not document order, is the
// priority.
func ExtractLocation(text string) string {
	for i, re := range locationMatchers {
		if re.MatchString(text) {
			return locationGazetteer[i]
		}
	}
	return ""
}
