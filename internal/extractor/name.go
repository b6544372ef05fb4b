package extractor

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/resume-field-extractor/internal/extractor/nlpkit"
)

// NameSource identifies which strategy produced a candidate.
type NameSource string

const (
	SourceFirstLineCaps NameSource = "FIRST_LINE_CAPS"
	SourceNERTop        NameSource = "NER_TOP"
	SourceNERFull       NameSource = "NER_FULL"
)

// Strategy scores. The first-line prior anchors on resumes placing the
// name as line 1; NER over the full document is a low-confidence
// fallback and carries half the top-section weight.
const (
	firstLineScore   = 100
	topSentenceLimit = 5
	fullSentenceLimit = 10
)

// NameCandidate is one scored name produced by a strategy.
type NameCandidate struct {
	Text     string
	Score    int
	Source   NameSource
	Sentence int
}

// scoreboard accumulates candidate scores keyed by normalized name.
// Insertion order is preserved so ties break first-inserted, never by a
// secondary numeric comparison.
type scoreboard struct {
	order  []string
	scores map[string]int
}

func newScoreboard() *scoreboard {
	return &scoreboard{scores: make(map[string]int)}
}

func (b *scoreboard) add(name string, pts int) {
	if _, seen := b.scores[name]; !seen {
		b.order = append(b.order, name)
	}
	b.scores[name] += pts
}

func (b *scoreboard) empty() bool { return len(b.order) == 0 }

func (b *scoreboard) best() (string, bool) {
	if b.empty() {
		return "", false
	}
	winner := b.order[0]
	for _, name := range b.order[1:] {
		if b.scores[name] > b.scores[winner] {
			winner = name
		}
	}
	return winner, true
}

// NameFinder runs the ordered name strategies and selects the best
// candidate. It owns a PersonRecognizer and is therefore not safe for
// concurrent use; give each worker its own finder.
type NameFinder struct {
	seg *nlpkit.Segmenter
	tok *nlpkit.Tokenizer
	rec *nlpkit.PersonRecognizer
}

// NewNameFinder constructs a NameFinder over the given NLP components.
func NewNameFinder(seg *nlpkit.Segmenter, tok *nlpkit.Tokenizer, rec *nlpkit.PersonRecognizer) *NameFinder {
	return &NameFinder{seg: seg, tok: tok, rec: rec}
}

// Find returns the best name candidate from the document text, or ""
// when no strategy produced a valid candidate. It never fails for a
// missing name; NLP errors only occur on empty input, which is guarded.
func (f *NameFinder) Find(text string) string {
	f.rec.Reset() // document start

	top := TopSection(text, topSectionLen)
	board := newScoreboard()

	// Strategy A: ALL-CAPS first line.
	if cand, ok := firstLineCandidate(top); ok {
		board.add(cand, firstLineScore)
	}

	// Strategy B: NER over the top section.
	f.runNER(NormalizeForNER(top), topSentenceLimit, 2, board)

	// Strategy C: NER over the full document, fallback only.
	if board.empty() {
		f.runNER(NormalizeForNER(text), fullSentenceLimit, 1, board)
	}

	name, _ := board.best()
	return name
}

// runNER scores person spans sentence by sentence. Sentence i (0-based)
// contributes (10-i)*weight per valid candidate. The recognizer's
// adaptive cache is reset after every sentence; this is a correctness
// requirement, not an optimization.
func (f *NameFinder) runNER(text string, maxSentences, weight int, board *scoreboard) {
	sentences, err := f.seg.Sentences(text)
	if err != nil {
		return
	}
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	for i, sentence := range sentences {
		tokens, err := f.tok.Tokenize(sentence)
		if err != nil {
			continue
		}
		spans, err := f.rec.PersonSpans(tokens)
		f.rec.Reset()
		if err != nil {
			continue
		}
		for _, sp := range spans {
			raw := strings.Join(tokens[sp.Start:sp.End], " ")
			cand := NormalizeName(raw)
			if !IsLikelyValidName(cand, false) {
				continue
			}
			board.add(cand, (10-i)*weight)
		}
	}
}

// firstLineCandidate applies the ALL-CAPS header pattern to the
// unmodified first line, strips job-title words from the edges, and
// validates with all-caps tokens allowed.
func firstLineCandidate(top string) (string, bool) {
	first, _, _ := strings.Cut(top, "\n")
	m := allCapsHeaderRe.FindString(strings.TrimSpace(first))
	if m == "" {
		return "", false
	}
	tokens := removeJobTitles(strings.Fields(m))
	cand := NormalizeName(strings.Join(tokens, " "))
	if !IsLikelyValidName(cand, true) {
		return "", false
	}
	// Store in Title Case so the key matches what the NER strategies
	// produce and the profile reads like a name, not a header.
	titled := strings.Fields(cand)
	for i, tok := range titled {
		titled[i] = titleCaseToken(tok)
	}
	return strings.Join(titled, " "), true
}

// removeJobTitles iteratively strips leading and trailing tokens that
// substring-match the job-title blacklist in either direction, keeping
// at least one token at each end. Single- and two-letter tokens are
// only matched in the token-contains-term direction so initials survive.
func removeJobTitles(tokens []string) []string {
	for len(tokens) > 1 && isJobTitleToken(tokens[0]) {
		tokens = tokens[1:]
	}
	for len(tokens) > 1 && isJobTitleToken(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func isJobTitleToken(tok string) bool {
	t := strings.ToLower(tok)
	for _, title := range jobTitleBlacklist {
		if strings.Contains(t, title) {
			return true
		}
		if len(t) >= 3 && strings.Contains(title, t) {
			return true
		}
	}
	return false
}

var (
	nameCharStripRe = regexp.MustCompile(`[^\p{L}\s'-]+`)
	spaceCollapseRe = regexp.MustCompile(`\s+`)

	initialTokenRe  = regexp.MustCompile(`^[A-Z]$`)
	nameTokenRe     = regexp.MustCompile(`^[A-Z][a-z]+(?:['-][A-Za-z][a-z]*)*$`)
	allCapsTokenRe  = regexp.MustCompile(`^[A-Z]{2,}(?:['-][A-Z]{2,})*$`)
)

// NormalizeName strips everything but letters, spaces, hyphens, and
// apostrophes, then collapses whitespace. Validation always runs on the
// normalized form.
func NormalizeName(s string) string {
	s = nameCharStripRe.ReplaceAllString(s, " ")
	s = spaceCollapseRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsLikelyValidName reports whether a normalized candidate looks like a
// person's name: 2-5 tokens, each either a single-letter initial or a
// capitalized word (all-caps accepted only when allowAllCaps), no
// digits, and no blacklisted term anywhere in the string.
func IsLikelyValidName(name string, allowAllCaps bool) bool {
	tokens := strings.Fields(name)
	if len(tokens) < 2 || len(tokens) > 5 {
		return false
	}
	for _, tok := range tokens {
		if strings.ContainsAny(tok, "0123456789") {
			return false
		}
		if initialTokenRe.MatchString(tok) || nameTokenRe.MatchString(tok) {
			continue
		}
		if allowAllCaps && allCapsTokenRe.MatchString(tok) {
			continue
		}
		return false
	}
	lower := strings.ToLower(name)
	for _, term := range invalidTermBlacklist {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

// NameFromEmail derives a display name from an email local-part:
// "john.doe@example.com" becomes "John Doe". Digits are dropped before
// splitting on dots and underscores. Returns "" when nothing usable
// remains.
func NameFromEmail(email string) string {
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return ""
	}
	local = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, local)
	pieces := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '_' })
	parts := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(p[:1])+strings.ToLower(p[1:]))
	}
	return strings.Join(parts, " ")
}
