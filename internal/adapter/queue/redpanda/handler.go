package redpanda

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/internal/extractor"
	"github.com/fairyhunter13/resume-field-extractor/internal/observability"
)

// ExtractHandler processes one extraction task: load the resume text, run
// the engine, persist the profile, and settle the job status.
//
// Each handler owns its Engine, and an Engine carries recognizer state, so
// a handler must not be shared across consumer goroutines.
type ExtractHandler struct {
	Jobs     domain.JobRepository
	Resumes  domain.ResumeRepository
	Profiles domain.ProfileRepository
	Cache    domain.ProfileCache
	Engine   *extractor.Engine
}

// NewExtractHandler constructs an ExtractHandler.
func NewExtractHandler(jobs domain.JobRepository, resumes domain.ResumeRepository, profiles domain.ProfileRepository, cache domain.ProfileCache, engine *extractor.Engine) *ExtractHandler {
	return &ExtractHandler{Jobs: jobs, Resumes: resumes, Profiles: profiles, Cache: cache, Engine: engine}
}

// Handle runs one task end to end. A returned error means the task should
// be retried (transient infrastructure failure); domain failures settle
// the job as failed and return nil so the record is committed.
func (h *ExtractHandler) Handle(ctx domain.Context, payload domain.ExtractTaskPayload) error {
	tracer := otel.Tracer("worker.extract")
	ctx, span := tracer.Start(ctx, "extract.Handle")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", payload.JobID),
		attribute.String("resume.id", payload.ResumeID),
	)
	lg := slog.Default().With(slog.String("job_id", payload.JobID), slog.String("resume_id", payload.ResumeID))

	if err := h.Jobs.UpdateStatus(ctx, payload.JobID, domain.JobProcessing, nil); err != nil {
		return fmt.Errorf("op=worker.mark_processing: %w", err)
	}

	resume, err := h.Resumes.Get(ctx, payload.ResumeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return h.fail(ctx, payload.JobID, "resume not found", "not_found")
		}
		return fmt.Errorf("op=worker.load_resume: %w", err)
	}

	start := time.Now()
	profile, err := h.Engine.Extract(ctx, resume.Text)
	observability.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrTextTooShort) {
			return h.fail(ctx, payload.JobID, err.Error(), "text_too_short")
		}
		// Context cancellation during shutdown: leave the job for redelivery.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return h.fail(ctx, payload.JobID, err.Error(), "internal")
	}

	profile.ResumeID = payload.ResumeID
	profile.ExtractedAt = time.Now().UTC()
	if err := h.Profiles.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("op=worker.upsert_profile: %w", err)
	}
	if h.Cache != nil {
		if err := h.Cache.Set(ctx, profile); err != nil {
			lg.Warn("profile cache set failed", slog.Any("error", err))
		}
	}
	if err := h.Jobs.UpdateStatus(ctx, payload.JobID, domain.JobCompleted, nil); err != nil {
		return fmt.Errorf("op=worker.mark_completed: %w", err)
	}

	observability.ObserveFieldOutcome("name", profile.Name)
	observability.ObserveFieldOutcome("email", profile.Email)
	observability.ObserveFieldOutcome("phone", profile.Phone)
	observability.ObserveFieldOutcome("skills", profile.Skills)
	observability.ObserveFieldOutcome("location", profile.Location)
	observability.ObserveFieldOutcome("experience_years", profile.ExperienceYears)
	observability.ObserveFieldOutcome("current_ctc", profile.CurrentCTC)
	observability.ObserveFieldOutcome("expected_ctc", profile.ExpectedCTC)
	observability.JobsCompletedTotal.WithLabelValues("extract").Inc()
	lg.Info("extraction completed", slog.Duration("took", time.Since(start)))
	return nil
}

// fail settles the job as failed with the given reason. It returns nil so
// the consumer commits the record; the failure is final, not retryable.
func (h *ExtractHandler) fail(ctx domain.Context, jobID, msg, reason string) error {
	if err := h.Jobs.UpdateStatus(ctx, jobID, domain.JobFailed, &msg); err != nil {
		return fmt.Errorf("op=worker.mark_failed: %w", err)
	}
	observability.JobsFailedTotal.WithLabelValues("extract", reason).Inc()
	slog.Warn("extraction failed", slog.String("job_id", jobID), slog.String("reason", reason), slog.String("error", msg))
	return nil
}
