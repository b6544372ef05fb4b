package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/internal/usecase"
)

type stubResumeRepo struct {
	created []domain.Resume
	idSeq   int
	err     error
}

func (r *stubResumeRepo) Create(_ domain.Context, res domain.Resume) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.created = append(r.created, res)
	r.idSeq++
	return fmt.Sprintf("resume-%d", r.idSeq), nil
}
func (r *stubResumeRepo) Get(_ domain.Context, id string) (domain.Resume, error) {
	return domain.Resume{ID: id}, nil
}
func (r *stubResumeRepo) Count(_ domain.Context) (int64, error) {
	return int64(len(r.created)), nil
}

type stubJobRepo struct {
	created  []domain.ExtractionJob
	statuses map[string]domain.JobStatus
	idemJob  *domain.ExtractionJob
	idSeq    int
}

func (r *stubJobRepo) Create(_ domain.Context, j domain.ExtractionJob) (string, error) {
	r.idSeq++
	j.ID = fmt.Sprintf("job-%d", r.idSeq)
	r.created = append(r.created, j)
	return j.ID, nil
}
func (r *stubJobRepo) UpdateStatus(_ domain.Context, id string, status domain.JobStatus, _ *string) error {
	if r.statuses == nil {
		r.statuses = map[string]domain.JobStatus{}
	}
	r.statuses[id] = status
	return nil
}
func (r *stubJobRepo) Get(_ domain.Context, id string) (domain.ExtractionJob, error) {
	for _, j := range r.created {
		if j.ID == id {
			return j, nil
		}
	}
	return domain.ExtractionJob{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
}
func (r *stubJobRepo) FindByIdempotencyKey(_ domain.Context, key string) (domain.ExtractionJob, error) {
	if r.idemJob != nil && r.idemJob.IdemKey != nil && *r.idemJob.IdemKey == key {
		return *r.idemJob, nil
	}
	return domain.ExtractionJob{}, fmt.Errorf("op=job.find_idem: %w", domain.ErrNotFound)
}

type stubQueue struct {
	enqueued []domain.ExtractTaskPayload
	err      error
}

func (q *stubQueue) EnqueueExtract(_ domain.Context, p domain.ExtractTaskPayload) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.enqueued = append(q.enqueued, p)
	return p.JobID, nil
}

var usableText = strings.Repeat("resume text with plenty of extractable content ", 3)

func TestIngest_Success(t *testing.T) {
	t.Parallel()
	resumes := &stubResumeRepo{}
	jobs := &stubJobRepo{}
	queue := &stubQueue{}
	svc := usecase.NewIngestService(resumes, jobs, queue)

	resumeID, jobID, err := svc.Ingest(context.Background(), usableText, "cv.pdf", "application/pdf", "")
	require.NoError(t, err)
	assert.Equal(t, "resume-1", resumeID)
	assert.Equal(t, "job-1", jobID)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "resume-1", queue.enqueued[0].ResumeID)
	assert.Equal(t, domain.JobQueued, jobs.created[0].Status)
}

func TestIngest_ShortTextRejected(t *testing.T) {
	t.Parallel()
	svc := usecase.NewIngestService(&stubResumeRepo{}, &stubJobRepo{}, &stubQueue{})
	_, _, err := svc.Ingest(context.Background(), "tiny", "cv.pdf", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTextTooShort)
}

func TestIngest_IdempotencyReturnsExisting(t *testing.T) {
	t.Parallel()
	key := "idem-123"
	jobs := &stubJobRepo{idemJob: &domain.ExtractionJob{ID: "job-9", ResumeID: "resume-9", IdemKey: &key}}
	queue := &stubQueue{}
	svc := usecase.NewIngestService(&stubResumeRepo{}, jobs, queue)

	resumeID, jobID, err := svc.Ingest(context.Background(), usableText, "cv.pdf", "", key)
	require.NoError(t, err)
	assert.Equal(t, "resume-9", resumeID)
	assert.Equal(t, "job-9", jobID)
	assert.Empty(t, queue.enqueued)
}

func TestIngest_EnqueueFailureMarksJobFailed(t *testing.T) {
	t.Parallel()
	jobs := &stubJobRepo{}
	queue := &stubQueue{err: fmt.Errorf("broker down")}
	svc := usecase.NewIngestService(&stubResumeRepo{}, jobs, queue)

	_, _, err := svc.Ingest(context.Background(), usableText, "cv.docx", "", "")
	require.Error(t, err)
	assert.Equal(t, domain.JobFailed, jobs.statuses["job-1"])
}

func TestIngest_DefaultsMIMEFromFilename(t *testing.T) {
	t.Parallel()
	resumes := &stubResumeRepo{}
	svc := usecase.NewIngestService(resumes, &stubJobRepo{}, &stubQueue{})
	_, _, err := svc.Ingest(context.Background(), usableText, "cv.docx", "", "")
	require.NoError(t, err)
	require.Len(t, resumes.created, 1)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", resumes.created[0].MIME)
	assert.WithinDuration(t, time.Now().UTC(), resumes.created[0].CreatedAt, time.Minute)
}
