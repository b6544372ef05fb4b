// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/pkg/textx"
)

// IngestService stores an uploaded resume's extracted text and queues
// the extraction job. The engine itself runs in the worker; ingestion
// only validates, persists, and enqueues.
type IngestService struct {
	Resumes domain.ResumeRepository
	Jobs    domain.JobRepository
	Queue   domain.Queue
}

// NewIngestService constructs an IngestService with its dependencies.
func NewIngestService(r domain.ResumeRepository, j domain.JobRepository, q domain.Queue) IngestService {
	return IngestService{Resumes: r, Jobs: j, Queue: q}
}

// Ingest sanitizes and bounds the extracted text, persists the resume,
// creates a queued job, and enqueues the extraction task. When idemKey
// is non-empty and a job already exists for it, that job is returned
// without creating anything new.
func (s IngestService) Ingest(ctx domain.Context, text, filename, mime string, idemKey string) (resumeID, jobID string, err error) {
	if idemKey != "" {
		if j, err := s.Jobs.FindByIdempotencyKey(ctx, idemKey); err == nil && j.ID != "" {
			return j.ResumeID, j.ID, nil
		}
	}
	text = textx.SanitizeText(text)
	text = textx.TruncateRunesafe(text, domain.MaxDocumentLen)
	if len(text) < domain.MinUsableTextLen {
		return "", "", fmt.Errorf("%w: could not read resume text", domain.ErrTextTooShort)
	}
	if mime == "" {
		mime = mimeFromName(filename)
	}
	resumeID, err = s.Resumes.Create(ctx, domain.Resume{
		Filename:  filename,
		MIME:      mime,
		Size:      int64(len(text)),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", "", err
	}
	j := domain.ExtractionJob{
		ResumeID:  resumeID,
		Status:    domain.JobQueued,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if idemKey != "" {
		j.IdemKey = &idemKey
	}
	jobID, err = s.Jobs.Create(ctx, j)
	if err != nil {
		return "", "", err
	}
	payload := domain.ExtractTaskPayload{JobID: jobID, ResumeID: resumeID}
	if _, err := s.Queue.EnqueueExtract(ctx, payload); err != nil {
		_ = s.Jobs.UpdateStatus(ctx, jobID, domain.JobFailed, ptr("enqueue failed"))
		return "", "", err
	}
	return resumeID, jobID, nil
}

// Count returns the total number of stored resumes.
func (s IngestService) Count(ctx domain.Context) (int64, error) {
	return s.Resumes.Count(ctx)
}

func mimeFromName(n string) string {
	n = strings.ToLower(n)
	switch {
	case strings.HasSuffix(n, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(n, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(n, ".doc"):
		return "application/msword"
	default:
		return "text/plain"
	}
}

func ptr(s string) *string { return &s }
