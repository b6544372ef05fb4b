package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/internal/usecase"
)

type memResumeRepo struct {
	resumes map[string]domain.Resume
	seq     int
}

func (r *memResumeRepo) Create(_ domain.Context, res domain.Resume) (string, error) {
	if r.resumes == nil {
		r.resumes = map[string]domain.Resume{}
	}
	r.seq++
	id := fmt.Sprintf("resume-%d", r.seq)
	res.ID = id
	r.resumes[id] = res
	return id, nil
}
func (r *memResumeRepo) Get(_ domain.Context, id string) (domain.Resume, error) {
	res, ok := r.resumes[id]
	if !ok {
		return domain.Resume{}, fmt.Errorf("op=resume.get: %w", domain.ErrNotFound)
	}
	return res, nil
}
func (r *memResumeRepo) Count(_ domain.Context) (int64, error) {
	return int64(len(r.resumes)), nil
}

type memJobRepo struct {
	jobs map[string]domain.ExtractionJob
	seq  int
}

func (r *memJobRepo) Create(_ domain.Context, j domain.ExtractionJob) (string, error) {
	if r.jobs == nil {
		r.jobs = map[string]domain.ExtractionJob{}
	}
	r.seq++
	j.ID = fmt.Sprintf("job-%d", r.seq)
	r.jobs[j.ID] = j
	return j.ID, nil
}
func (r *memJobRepo) UpdateStatus(_ domain.Context, id string, status domain.JobStatus, errMsg *string) error {
	j := r.jobs[id]
	j.Status = status
	if errMsg != nil {
		j.Error = *errMsg
	}
	r.jobs[id] = j
	return nil
}
func (r *memJobRepo) Get(_ domain.Context, id string) (domain.ExtractionJob, error) {
	j, ok := r.jobs[id]
	if !ok {
		return domain.ExtractionJob{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
	}
	return j, nil
}
func (r *memJobRepo) FindByIdempotencyKey(_ domain.Context, key string) (domain.ExtractionJob, error) {
	for _, j := range r.jobs {
		if j.IdemKey != nil && *j.IdemKey == key {
			return j, nil
		}
	}
	return domain.ExtractionJob{}, fmt.Errorf("op=job.find_idem: %w", domain.ErrNotFound)
}

type memQueue struct{ payloads []domain.ExtractTaskPayload }

func (q *memQueue) EnqueueExtract(_ domain.Context, p domain.ExtractTaskPayload) (string, error) {
	q.payloads = append(q.payloads, p)
	return p.JobID, nil
}

type memProfileRepo struct{ profiles map[string]domain.CandidateProfile }

func (r *memProfileRepo) Upsert(_ domain.Context, p domain.CandidateProfile) error {
	if r.profiles == nil {
		r.profiles = map[string]domain.CandidateProfile{}
	}
	r.profiles[p.ResumeID] = p
	return nil
}
func (r *memProfileRepo) GetByResumeID(_ domain.Context, resumeID string) (domain.CandidateProfile, error) {
	p, ok := r.profiles[resumeID]
	if !ok {
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
	}
	return p, nil
}

type noopExtractor struct{}

func (noopExtractor) ExtractPath(_ domain.Context, _, _ string) (string, error) {
	return "", fmt.Errorf("external extractor should not be called for plain text")
}

func newTestServer(t *testing.T) (*httpserver.Server, *memJobRepo, *memProfileRepo, *memQueue) {
	t.Helper()
	resumes := &memResumeRepo{}
	jobs := &memJobRepo{}
	queue := &memQueue{}
	profiles := &memProfileRepo{}
	ing := usecase.NewIngestService(resumes, jobs, queue)
	prof := usecase.NewProfileService(jobs, profiles, nil, 2*time.Minute)
	return httpserver.NewServer(ing, prof, resumes, noopExtractor{}, 8<<20), jobs, profiles, queue
}

func testRouter(s *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/resumes", s.UploadResume)
	r.Get("/v1/resumes/{id}", s.GetResume)
	r.Get("/v1/resumes/{id}/profile", s.GetResumeProfile)
	r.Get("/v1/jobs/{id}", s.GetJob)
	return r
}

func multipartResume(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

const uploadText = "SELVA RAGAVAN R\nSenior engineer with 5 years experience in Go and PostgreSQL.\nselva@example.com"

func TestUploadResume_PlainText(t *testing.T) {
	t.Parallel()
	srv, jobs, _, queue := newTestServer(t)
	router := testRouter(srv)

	body, ctype := multipartResume(t, "cv.txt", uploadText)
	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "resume-1", resp["resume_id"])
	assert.Equal(t, "job-1", resp["job_id"])
	assert.Equal(t, "queued", resp["status"])
	require.Len(t, queue.payloads, 1)
	assert.Equal(t, domain.JobQueued, jobs.jobs["job-1"].Status)
}

func TestUploadResume_RejectsUnknownExtension(t *testing.T) {
	t.Parallel()
	srv, _, _, _ := newTestServer(t)
	router := testRouter(srv)

	body, ctype := multipartResume(t, "cv.exe", uploadText)
	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestUploadResume_MissingFile(t *testing.T) {
	t.Parallel()
	srv, _, _, _ := newTestServer(t)
	router := testRouter(srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadResume_ShortTextRejected(t *testing.T) {
	t.Parallel()
	srv, _, _, _ := newTestServer(t)
	router := testRouter(srv)

	body, ctype := multipartResume(t, "cv.txt", "too short")
	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "TEXT_TOO_SHORT")
}

func TestUploadResume_IdempotencyKeyReplays(t *testing.T) {
	t.Parallel()
	srv, _, _, queue := newTestServer(t)
	router := testRouter(srv)

	send := func() map[string]string {
		body, ctype := multipartResume(t, "cv.txt", uploadText)
		req := httptest.NewRequest(http.MethodPost, "/v1/resumes", body)
		req.Header.Set("Content-Type", ctype)
		req.Header.Set("Idempotency-Key", "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}
	first := send()
	second := send()
	assert.Equal(t, first["job_id"], second["job_id"])
	assert.Len(t, queue.payloads, 1)
}

func TestGetResume_MetadataOnly(t *testing.T) {
	t.Parallel()
	srv, _, _, _ := newTestServer(t)
	router := testRouter(srv)

	body, ctype := multipartResume(t, "cv.txt", uploadText)
	req := httptest.NewRequest(http.MethodPost, "/v1/resumes", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/resumes/resume-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cv.txt", resp["filename"])
	_, hasText := resp["text"]
	assert.False(t, hasText)
}

func TestGetJob_PollAndETag(t *testing.T) {
	t.Parallel()
	srv, jobs, profiles, _ := newTestServer(t)
	router := testRouter(srv)

	jobID, err := jobs.Create(context.Background(), domain.ExtractionJob{
		ResumeID:  "resume-1",
		Status:    domain.JobCompleted,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, profiles.Upsert(context.Background(), domain.CandidateProfile{
		ResumeID: "resume-1",
		Name:     "Selva Ragavan R",
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs/"+jobID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, rec.Body.String(), "Selva Ragavan R")

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/"+jobID, nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetJob_NotFound(t *testing.T) {
	t.Parallel()
	srv, _, _, _ := newTestServer(t)
	router := testRouter(srv)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs/none", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestGetResumeProfile(t *testing.T) {
	t.Parallel()
	srv, _, profiles, _ := newTestServer(t)
	router := testRouter(srv)

	require.NoError(t, profiles.Upsert(context.Background(), domain.CandidateProfile{
		ResumeID: "resume-7",
		Name:     "Anita Desai",
		Skills:   "Go, Docker",
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/resumes/resume-7/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	profile, ok := resp["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Go, Docker", profile["skills"])
	if !strings.Contains(rec.Body.String(), "Anita Desai") {
		t.Fatalf("profile body missing name: %s", rec.Body.String())
	}
}
