// Package nlpkit wraps the statistical NLP models used by the extraction
// engine: sentence-boundary detection, tokenization, and person-entity
// recognition (prose).
//
// The PersonRecognizer carries document-scope adaptive state and is NOT
// safe for concurrent use; each worker must own its own instance and the
// caller must invoke Reset at the documented points (after every sentence
// and at the start of each document).
package nlpkit

import (
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// Span is a half-open token index range [Start, End) within the token
// slice handed to PersonSpans.
type Span struct {
	Start int
	End   int
}

// Segmenter splits text into sentences using prose's statistical
// sentence-boundary model. It is stateless per call.
type Segmenter struct{}

// NewSegmenter constructs a Segmenter.
func NewSegmenter() *Segmenter { return &Segmenter{} }

// Sentences returns the sentences of text in document order.
func (s *Segmenter) Sentences(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("op=nlp.sentences: %w", err)
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, sent := range sents {
		out = append(out, sent.Text)
	}
	return out, nil
}

// Tokenizer splits a sentence into word tokens.
type Tokenizer struct{}

// NewTokenizer constructs a Tokenizer.
func NewTokenizer() *Tokenizer { return &Tokenizer{} }

// Tokenize returns the word tokens of text in order.
func (t *Tokenizer) Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false), prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("op=nlp.tokenize: %w", err)
	}
	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out, nil
}

// PersonRecognizer locates token spans likely to be a person's name.
//
// It keeps an adaptive cache of tokens it has already tagged within the
// current document so that later occurrences of the same tokens extend
// recognized spans. The cache is mutable shared state: Reset must be
// called after every sentence's span extraction and again at the start
// of each new document, otherwise state leaks across sentences and
// documents and extraction stops being deterministic.
type PersonRecognizer struct {
	adapted map[string]struct{}
}

// NewPersonRecognizer constructs a PersonRecognizer with an empty
// adaptive cache.
func NewPersonRecognizer() *PersonRecognizer {
	return &PersonRecognizer{adapted: make(map[string]struct{})}
}

// Reset clears the adaptive cache. Never rely on implicit clearing.
func (r *PersonRecognizer) Reset() {
	r.adapted = make(map[string]struct{})
}

// PersonSpans runs the entity model over the given tokens and returns
// the spans tagged as a person, adjusted by the adaptive cache.
func (r *PersonRecognizer) PersonSpans(tokens []string) ([]Span, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	doc, err := prose.NewDocument(strings.Join(tokens, " "), prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("op=nlp.person_spans: %w", err)
	}
	var spans []Span
	for _, ent := range doc.Entities() {
		if ent.Label != "PERSON" {
			continue
		}
		sp, ok := locateSpan(tokens, strings.Fields(ent.Text))
		if !ok {
			continue
		}
		spans = append(spans, r.adapt(tokens, sp))
	}
	// Remember span tokens for the rest of the document (until Reset).
	for _, sp := range spans {
		for i := sp.Start; i < sp.End; i++ {
			r.adapted[tokens[i]] = struct{}{}
		}
	}
	return spans, nil
}

// adapt widens a span over adjacent tokens the recognizer has already
// tagged as part of a person name earlier in the document.
func (r *PersonRecognizer) adapt(tokens []string, sp Span) Span {
	for sp.Start > 0 {
		if _, ok := r.adapted[tokens[sp.Start-1]]; !ok {
			break
		}
		sp.Start--
	}
	for sp.End < len(tokens) {
		if _, ok := r.adapted[tokens[sp.End]]; !ok {
			break
		}
		sp.End++
	}
	return sp
}

// locateSpan finds the first occurrence of the entity token sequence
// within tokens.
func locateSpan(tokens, want []string) (Span, bool) {
	if len(want) == 0 || len(want) > len(tokens) {
		return Span{}, false
	}
	for i := 0; i+len(want) <= len(tokens); i++ {
		match := true
		for j := range want {
			if tokens[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return Span{Start: i, End: i + len(want)}, true
		}
	}
	return Span{}, false
}

// Warmup forces the embedded models to initialize by running each
// component once over a trivial input. A failure here means the models
// are unusable and the extraction capability must not start.
func Warmup() error {
	if _, err := NewSegmenter().Sentences("Warmup sentence one. Warmup sentence two."); err != nil {
		return fmt.Errorf("op=nlp.warmup.segmenter: %w", err)
	}
	if _, err := NewTokenizer().Tokenize("warmup tokens"); err != nil {
		return fmt.Errorf("op=nlp.warmup.tokenizer: %w", err)
	}
	rec := NewPersonRecognizer()
	if _, err := rec.PersonSpans([]string{"James", "Smith", "is", "here"}); err != nil {
		return fmt.Errorf("op=nlp.warmup.recognizer: %w", err)
	}
	rec.Reset()
	return nil
}
