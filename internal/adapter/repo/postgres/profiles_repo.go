package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
)

// ProfileRepo persists and loads candidate profiles from PostgreSQL.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// Upsert inserts or updates a profile by resume_id. Re-extraction of the
// same resume overwrites the previous profile, which keeps at-least-once
// job delivery idempotent.
func (r *ProfileRepo) Upsert(ctx domain.Context, p domain.CandidateProfile) error {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Upsert")
	defer span.End()
	q := `INSERT INTO candidate_profiles (resume_id, name, email, phone, skills, location, experience_years, current_ctc, expected_ctc, extracted_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (resume_id)
	DO UPDATE SET name=EXCLUDED.name, email=EXCLUDED.email, phone=EXCLUDED.phone, skills=EXCLUDED.skills, location=EXCLUDED.location, experience_years=EXCLUDED.experience_years, current_ctc=EXCLUDED.current_ctc, expected_ctc=EXCLUDED.expected_ctc, extracted_at=EXCLUDED.extracted_at`
	_, err := r.Pool.Exec(ctx, q, p.ResumeID, p.Name, p.Email, p.Phone, p.Skills, p.Location, p.ExperienceYears, p.CurrentCTC, p.ExpectedCTC, p.ExtractedAt)
	if err != nil {
		return fmt.Errorf("op=profile.upsert: %w", err)
	}
	return nil
}

// GetByResumeID loads a profile by its resume_id.
func (r *ProfileRepo) GetByResumeID(ctx domain.Context, resumeID string) (domain.CandidateProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.GetByResumeID")
	defer span.End()
	q := `SELECT resume_id, name, email, phone, skills, location, experience_years, current_ctc, expected_ctc, extracted_at FROM candidate_profiles WHERE resume_id=$1`
	row := r.Pool.QueryRow(ctx, q, resumeID)
	var p domain.CandidateProfile
	if err := row.Scan(&p.ResumeID, &p.Name, &p.Email, &p.Phone, &p.Skills, &p.Location, &p.ExperienceYears, &p.CurrentCTC, &p.ExpectedCTC, &p.ExtractedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.CandidateProfile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	return p, nil
}
