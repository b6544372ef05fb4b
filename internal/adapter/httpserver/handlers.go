package httpserver

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/internal/usecase"
)

// Server bundles the HTTP handlers and their dependencies.
type Server struct {
	Ingest    usecase.IngestService
	Profiles  usecase.ProfileService
	Resumes   domain.ResumeRepository
	Extractor domain.TextExtractor
	// MaxUploadBytes caps the multipart body size.
	MaxUploadBytes int64

	validate *validator.Validate
}

// NewServer constructs a Server.
func NewServer(ing usecase.IngestService, prof usecase.ProfileService, resumes domain.ResumeRepository, ext domain.TextExtractor, maxUploadBytes int64) *Server {
	return &Server{
		Ingest:         ing,
		Profiles:       prof,
		Resumes:        resumes,
		Extractor:      ext,
		MaxUploadBytes: maxUploadBytes,
		validate:       validator.New(),
	}
}

var allowedExt = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// allowedMIME lists the sniffed content types accepted for upload. The
// extension check alone is not trusted.
var allowedMIME = map[string]bool{
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	// docx containers sniff as zip before deep inspection
	"application/zip": true,
}

type uploadMeta struct {
	Filename string `validate:"required,max=255"`
}

// UploadResume handles POST /v1/resumes: accept a resume file, recover its
// plain text, store it and queue an extraction job.
func (s *Server) UploadResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lg := loggerFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		writeError(w, r, fmt.Errorf("%w: multipart form too large or malformed", domain.ErrInvalidArgument), nil)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, hdr, err := r.FormFile("resume")
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: missing form file %q", domain.ErrInvalidArgument, "resume"), nil)
		return
	}
	defer func() { _ = file.Close() }()

	meta := uploadMeta{Filename: hdr.Filename}
	if err := s.validate.Struct(meta); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid filename", domain.ErrInvalidArgument), err.Error())
		return
	}
	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if !allowedExt[ext] {
		writeError(w, r, fmt.Errorf("%w: unsupported file extension %q", domain.ErrInvalidArgument, ext), nil)
		return
	}

	tmpPath, sniffed, err := spoolUpload(file, ext)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()
	if !allowedMIME[sniffed] {
		writeError(w, r, fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidArgument, sniffed), nil)
		return
	}

	text, err := s.extractText(ctx, hdr.Filename, tmpPath, sniffed)
	if err != nil {
		lg.Error("text extraction failed", slog.String("filename", hdr.Filename), slog.Any("error", err))
		writeError(w, r, fmt.Errorf("%w: could not read resume text", domain.ErrTextTooShort), nil)
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	resumeID, jobID, err := s.Ingest.Ingest(ctx, text, hdr.Filename, sniffed, idemKey)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	lg.Info("resume accepted",
		slog.String("resume_id", resumeID),
		slog.String("job_id", jobID),
		slog.String("filename", hdr.Filename))
	writeJSON(w, http.StatusAccepted, map[string]string{
		"resume_id": resumeID,
		"job_id":    jobID,
		"status":    string(domain.JobQueued),
	})
}

// spoolUpload writes the upload to a temp file and sniffs its content type.
func spoolUpload(file io.Reader, ext string) (path, mime string, err error) {
	tmp, err := os.CreateTemp("", "resume-*"+ext)
	if err != nil {
		return "", "", fmt.Errorf("op=upload.spool: %w", err)
	}
	defer func() { _ = tmp.Close() }()
	if _, err := io.Copy(tmp, file); err != nil {
		_ = os.Remove(tmp.Name())
		return "", "", fmt.Errorf("op=upload.spool: %w", err)
	}
	mt, err := mimetype.DetectFile(tmp.Name())
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", "", fmt.Errorf("op=upload.sniff: %w", err)
	}
	base := mt.String()
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	return tmp.Name(), strings.TrimSpace(base), nil
}

// extractText recovers plain text from the spooled file. Plain-text uploads
// skip the external extractor.
func (s *Server) extractText(ctx domain.Context, filename, path, mime string) (string, error) {
	if mime == "text/plain" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("op=upload.read: %w", err)
		}
		return string(b), nil
	}
	return s.Extractor.ExtractPath(ctx, filename, path)
}

// GetResume handles GET /v1/resumes/{id}: resume metadata without the raw text.
func (s *Server) GetResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.Resumes.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         res.ID,
		"filename":   res.Filename,
		"mime":       res.MIME,
		"size":       res.Size,
		"created_at": res.CreatedAt,
	})
}

// GetResumeProfile handles GET /v1/resumes/{id}/profile: the completed
// candidate profile for a resume.
func (s *Server) GetResumeProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.Profiles.ByResumeID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"resume_id":    p.ResumeID,
		"profile":      profileFields(p),
		"extracted_at": p.ExtractedAt,
	})
}

// GetJob handles GET /v1/jobs/{id}: extraction job status polling with
// conditional responses.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, body, etag, err := s.Profiles.Fetch(r.Context(), id, r.Header.Get("If-None-Match"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	if status == http.StatusNotModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, status, body)
}

// Healthz is a liveness probe.
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz is a readiness probe: storage must answer.
func (s *Server) Readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Ingest.Count(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// profileFields mirrors the job-poll profile body: empty fields omitted.
func profileFields(p domain.CandidateProfile) map[string]any {
	m := map[string]any{}
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("name", p.Name)
	put("email", p.Email)
	put("phone", p.Phone)
	put("skills", p.Skills)
	put("location", p.Location)
	put("experience_years", p.ExperienceYears)
	put("current_ctc", p.CurrentCTC)
	put("expected_ctc", p.ExpectedCTC)
	return m
}
