package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/internal/observability"
)

// ProfileService provides read access to extraction jobs and candidate
// profiles and assembles the API response envelope including ETag logic.
type ProfileService struct {
	Jobs     domain.JobRepository
	Profiles domain.ProfileRepository
	Cache    domain.ProfileCache
	// StaleCutoff marks queued/processing jobs older than this as failed on read.
	StaleCutoff time.Duration
}

// NewProfileService constructs a ProfileService with the given dependencies.
func NewProfileService(j domain.JobRepository, p domain.ProfileRepository, c domain.ProfileCache, staleCutoff time.Duration) ProfileService {
	return ProfileService{Jobs: j, Profiles: p, Cache: c, StaleCutoff: staleCutoff}
}

// Fetch returns the HTTP status code, response body, and ETag for the given
// job id. It implements conditional responses (304 Not Modified) based on
// the If-None-Match ETag and returns proper shapes for queued/processing/
// failed states.
func (s ProfileService) Fetch(ctx domain.Context, jobID, ifNoneMatch string) (int, map[string]any, string, error) {
	lg := observability.LoggerFromContext(ctx)
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return http.StatusNotFound, nil, "", err
		}
		return http.StatusInternalServerError, nil, "", err
	}
	if job.Status != domain.JobCompleted {
		job = s.applyStalePolicy(ctx, job)
		m := map[string]any{"id": job.ID, "resume_id": job.ResumeID, "status": string(job.Status)}
		if job.Status == domain.JobFailed {
			m["error"] = map[string]any{
				"code":    failureCode(job.Error),
				"message": job.Error,
			}
		}
		etag := makeETag(m)
		if etag == ifNoneMatch {
			return http.StatusNotModified, nil, etag, nil
		}
		return http.StatusOK, m, etag, nil
	}

	profile, err := s.profileByResumeID(ctx, job.ResumeID)
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}
	m := map[string]any{
		"id":        job.ID,
		"resume_id": job.ResumeID,
		"status":    string(job.Status),
		"profile":   profileBody(profile),
	}
	etag := makeETag(m)
	if etag == ifNoneMatch {
		return http.StatusNotModified, nil, etag, nil
	}
	lg.Debug("profile fetched", "job_id", jobID, "resume_id", job.ResumeID)
	return http.StatusOK, m, etag, nil
}

// ByResumeID returns the completed profile for a resume, read-through
// the cache.
func (s ProfileService) ByResumeID(ctx domain.Context, resumeID string) (domain.CandidateProfile, error) {
	return s.profileByResumeID(ctx, resumeID)
}

func (s ProfileService) profileByResumeID(ctx domain.Context, resumeID string) (domain.CandidateProfile, error) {
	if s.Cache != nil {
		if p, ok, err := s.Cache.Get(ctx, resumeID); err == nil && ok {
			return p, nil
		}
	}
	p, err := s.Profiles.GetByResumeID(ctx, resumeID)
	if err != nil {
		return domain.CandidateProfile{}, err
	}
	if s.Cache != nil {
		_ = s.Cache.Set(ctx, p)
	}
	return p, nil
}

// applyStalePolicy marks queued/processing jobs older than the cutoff as
// failed so that clients are not left polling forever after a crashed worker.
func (s ProfileService) applyStalePolicy(ctx domain.Context, job domain.ExtractionJob) domain.ExtractionJob {
	if s.StaleCutoff <= 0 {
		return job
	}
	now := time.Now().UTC()
	stale := false
	if job.Status == domain.JobQueued && now.Sub(job.CreatedAt) > s.StaleCutoff {
		stale = true
	}
	if job.Status == domain.JobProcessing && now.Sub(job.UpdatedAt) > s.StaleCutoff {
		stale = true
	}
	if stale {
		msg := "timeout: job exceeded stale cutoff"
		_ = s.Jobs.UpdateStatus(ctx, job.ID, domain.JobFailed, &msg)
		job.Status = domain.JobFailed
		job.Error = msg
	}
	return job
}

// profileBody renders the optional fields; absent fields are omitted
// rather than reported as errors.
func profileBody(p domain.CandidateProfile) map[string]any {
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

// failureCode maps a stored job error message to a stable API code.
func failureCode(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case msg == "":
		return "UNKNOWN"
	case strings.Contains(lower, "too short"), strings.Contains(lower, "could not read"):
		return "TEXT_TOO_SHORT"
	case strings.Contains(lower, "timeout"):
		return "TIMEOUT"
	default:
		return "INTERNAL"
	}
}

// makeETag hashes the response body into a strong ETag.
func makeETag(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(b)
	return `"` + hex.EncodeToString(h[:8]) + `"`
}
