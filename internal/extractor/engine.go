// Package extractor implements the resume field-extraction engine: a
// deterministic, CPU-bound pipeline that turns raw resume text into a
// structured candidate profile.
//
// The engine layers a statistical named-entity recognizer, a
// sentence-boundary model, and hand-tuned regular expressions into a
// scored, multi-strategy decision procedure. It never touches a
// database, the network, or the file system; identical input text plus
// identical static dictionaries always yields an identical profile.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/internal/extractor/nlpkit"
)

// Engine is one extraction pipeline instance. It owns its recognizer's
// adaptive cache, so an Engine must not be shared across goroutines;
// construct one per worker. The static dictionaries are package-level
// and immutable, safe to share.
type Engine struct {
	seg   *nlpkit.Segmenter
	tok   *nlpkit.Tokenizer
	rec   *nlpkit.PersonRecognizer
	names *NameFinder
}

// New constructs an Engine, forcing the NLP models to load. A load
// failure is fatal for the extraction capability and wraps
// domain.ErrModelLoad so startup can abort rather than degrade.
func New() (*Engine, error) {
	if err := nlpkit.Warmup(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelLoad, err)
	}
	seg := nlpkit.NewSegmenter()
	tok := nlpkit.NewTokenizer()
	rec := nlpkit.NewPersonRecognizer()
	return &Engine{
		seg:   seg,
		tok:   tok,
		rec:   rec,
		names: NewNameFinder(seg, tok, rec),
	}, nil
}

// Extract runs the full pipeline over text and assembles a profile.
//
// Field extractors run over the full text; only name search is biased
// toward the top section. A missing field is never an error: the only
// error this returns is domain.ErrTextTooShort for input the upstream
// extractor could not usefully read.
func (e *Engine) Extract(ctx context.Context, text string) (domain.CandidateProfile, error) {
	if len(strings.TrimSpace(text)) < domain.MinUsableTextLen {
		return domain.CandidateProfile{}, fmt.Errorf("op=extract: %w (%d chars)", domain.ErrTextTooShort, len(strings.TrimSpace(text)))
	}
	if len(text) > domain.MaxDocumentLen {
		text = text[:domain.MaxDocumentLen]
	}
	if err := ctx.Err(); err != nil {
		return domain.CandidateProfile{}, err
	}

	email := ExtractEmail(text)
	name := e.names.Find(text)
	if name == "" && email != "" {
		name = NameFromEmail(email)
	}

	return domain.CandidateProfile{
		Name:            name,
		Email:           email,
		Phone:           ExtractPhone(text),
		Skills:          ExtractSkills(text),
		Location:        ExtractLocation(text),
		ExperienceYears: ExtractExperience(text),
		CurrentCTC:      ExtractCurrentCTC(text),
		ExpectedCTC:     ExtractExpectedCTC(text),
		// ExtractedAt is stamped by the caller; the engine itself has
		// no wall-clock dependence.
	}, nil
}
