// Package domain holds the core entities and ports of the resume
// field-extraction service.
//
// The extraction engine consumes plain text recovered from an uploaded
// resume and emits a CandidateProfile; everything else in this package
// (repositories, queue, cache, text extractor) is the service shell
// around that pure function.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	// ErrModelLoad indicates a required NLP model could not be initialized.
	// It is a startup-time failure: the extraction subsystem must not come
	// up in a degraded mode.
	ErrModelLoad = errors.New("model load failed")
	// ErrTextTooShort indicates the upstream extractor produced no usable
	// text for a document. It is recoverable and reported per resume.
	ErrTextTooShort = errors.New("extracted text too short")
	ErrInternal     = errors.New("internal error")
)

// MinUsableTextLen is the minimum number of characters of extracted text
// the engine will analyze. Anything shorter surfaces as ErrTextTooShort.
const MinUsableTextLen = 50

// MaxDocumentLen bounds the raw text accepted from the upstream extractor.
const MaxDocumentLen = 1_000_000

// Resume is the stored upload: raw extracted text plus file metadata.
type Resume struct {
	ID        string
	Filename  string
	MIME      string
	Size      int64
	Text      string
	CreatedAt time.Time
}

// CandidateProfile is the structured output of the extraction engine.
// Every field is independently optional; an empty string means the field
// was not found in the document, which is the expected common case and
// never an error.
type CandidateProfile struct {
	ResumeID        string
	Name            string
	Email           string
	Phone           string
	Skills          string // comma-joined, first-seen order, deduplicated
	Location        string
	ExperienceYears string // e.g. "5 years"
	CurrentCTC      string // e.g. "12 LPA"
	ExpectedCTC     string
	ExtractedAt     time.Time
}

// JobStatus enumerates extraction job states.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ExtractionJob tracks one asynchronous extraction of a stored resume.
type ExtractionJob struct {
	ID        string
	ResumeID  string
	Status    JobStatus
	Error     string
	IdemKey   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repositories (ports)

type ResumeRepository interface {
	Create(ctx Context, r Resume) (string, error)
	Get(ctx Context, id string) (Resume, error)
	Count(ctx Context) (int64, error)
}

type JobRepository interface {
	Create(ctx Context, j ExtractionJob) (string, error)
	UpdateStatus(ctx Context, id string, status JobStatus, errMsg *string) error
	Get(ctx Context, id string) (ExtractionJob, error)
	FindByIdempotencyKey(ctx Context, key string) (ExtractionJob, error)
}

type ProfileRepository interface {
	Upsert(ctx Context, p CandidateProfile) error
	GetByResumeID(ctx Context, resumeID string) (CandidateProfile, error)
}

// Queue (port)

type Queue interface {
	EnqueueExtract(ctx Context, payload ExtractTaskPayload) (string, error)
}

// ProfileCache caches completed profiles keyed by resume id.
type ProfileCache interface {
	Get(ctx Context, resumeID string) (CandidateProfile, bool, error)
	Set(ctx Context, p CandidateProfile) error
	Invalidate(ctx Context, resumeID string) error
}

// TextExtractor (port)
// ExtractPath extracts plain text from a file at path with the provided
// original filename. Implementations may call external services (e.g. Tika).
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// ExtractTaskPayload is the queue message for one extraction job.
type ExtractTaskPayload struct {
	JobID    string `json:"job_id"`
	ResumeID string `json:"resume_id"`
}

// Context is an alias so the domain layer does not import adapters.
type Context = context.Context
