package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
)

// JobRepo persists and loads extraction jobs from PostgreSQL.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

// Create inserts a new job and returns its id.
func (r *JobRepo) Create(ctx domain.Context, j domain.ExtractionJob) (string, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Create")
	defer span.End()
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO extraction_jobs (id, resume_id, status, error, idempotency_key, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.Pool.Exec(ctx, q, id, j.ResumeID, j.Status, j.Error, j.IdemKey, time.Now().UTC(), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	return id, nil
}

// UpdateStatus updates a job's status and optional error message.
func (r *JobRepo) UpdateStatus(ctx domain.Context, id string, status domain.JobStatus, errMsg *string) error {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.UpdateStatus")
	defer span.End()
	q := `UPDATE extraction_jobs SET status=$2, error=$3, updated_at=$4 WHERE id=$1`
	// Map nil errMsg to empty string to satisfy the NOT NULL error column.
	errVal := ""
	if errMsg != nil {
		errVal = *errMsg
	}
	_, err := r.Pool.Exec(ctx, q, id, status, errVal, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=job.update_status: %w", err)
	}
	return nil
}

// Get loads a job by id.
func (r *JobRepo) Get(ctx domain.Context, id string) (domain.ExtractionJob, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	q := `SELECT id, resume_id, status, COALESCE(error,''), idempotency_key, created_at, updated_at FROM extraction_jobs WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var j domain.ExtractionJob
	var idem *string
	if err := row.Scan(&j.ID, &j.ResumeID, &j.Status, &j.Error, &idem, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.ExtractionJob{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
		}
		return domain.ExtractionJob{}, fmt.Errorf("op=job.get: %w", err)
	}
	j.IdemKey = idem
	return j, nil
}

// FindByIdempotencyKey loads a job by idempotency key.
func (r *JobRepo) FindByIdempotencyKey(ctx domain.Context, key string) (domain.ExtractionJob, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.FindByIdempotencyKey")
	defer span.End()
	q := `SELECT id, resume_id, status, COALESCE(error,''), idempotency_key, created_at, updated_at FROM extraction_jobs WHERE idempotency_key=$1 LIMIT 1`
	row := r.Pool.QueryRow(ctx, q, key)
	var j domain.ExtractionJob
	var idem *string
	if err := row.Scan(&j.ID, &j.ResumeID, &j.Status, &j.Error, &idem, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.ExtractionJob{}, fmt.Errorf("op=job.find_idem: %w", domain.ErrNotFound)
		}
		return domain.ExtractionJob{}, fmt.Errorf("op=job.find_idem: %w", err)
	}
	j.IdemKey = idem
	return j, nil
}
