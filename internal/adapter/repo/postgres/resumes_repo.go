package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
)

// ResumeRepo persists and loads resumes using a minimal pgx pool.
type ResumeRepo struct{ Pool PgxPool }

// NewResumeRepo constructs a ResumeRepo with the given pool.
func NewResumeRepo(p PgxPool) *ResumeRepo { return &ResumeRepo{Pool: p} }

// Create stores a new resume and returns its id (generates one if empty).
func (r *ResumeRepo) Create(ctx domain.Context, res domain.Resume) (string, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "resumes"),
	)
	id := res.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO resumes (id, filename, mime, size, text, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.Pool.Exec(ctx, q, id, res.Filename, res.MIME, res.Size, res.Text, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=resume.create: %w", err)
	}
	return id, nil
}

// Get loads a resume by id including its raw text.
func (r *ResumeRepo) Get(ctx domain.Context, id string) (domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "resumes"),
	)
	q := `SELECT id, filename, mime, size, text, created_at FROM resumes WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var res domain.Resume
	if err := row.Scan(&res.ID, &res.Filename, &res.MIME, &res.Size, &res.Text, &res.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Resume{}, fmt.Errorf("op=resume.get: %w", domain.ErrNotFound)
		}
		return domain.Resume{}, fmt.Errorf("op=resume.get: %w", err)
	}
	return res, nil
}

// Count returns the total number of resumes.
func (r *ResumeRepo) Count(ctx domain.Context) (int64, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Count")
	defer span.End()
	q := `SELECT COUNT(*) FROM resumes`
	row := r.Pool.QueryRow(ctx, q)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=resume.count: %w", err)
	}
	return count, nil
}
