package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
)

func TestJobRepo_Create(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewJobRepo(pool)

	id, err := repo.Create(context.Background(), domain.ExtractionJob{
		ResumeID: "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		Status:   domain.JobQueued,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	pool.execErr = assert.AnError
	_, err = repo.Create(context.Background(), domain.ExtractionJob{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=job.create")
}

func TestJobRepo_Create_KeepsProvidedID(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewJobRepo(pool)
	id, err := repo.Create(context.Background(), domain.ExtractionJob{ID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
}

func TestJobRepo_UpdateStatus(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewJobRepo(pool)

	require.NoError(t, repo.UpdateStatus(context.Background(), "job-1", domain.JobCompleted, nil))
	msg := "boom"
	require.NoError(t, repo.UpdateStatus(context.Background(), "job-1", domain.JobFailed, &msg))
	// nil errMsg must be stored as empty string, not NULL
	require.Len(t, pool.execArgs, 2)
	assert.Equal(t, "", pool.execArgs[0][2])
	assert.Equal(t, "boom", pool.execArgs[1][2])

	pool.execErr = assert.AnError
	err := repo.UpdateStatus(context.Background(), "job-1", domain.JobCompleted, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=job.update_status")
}

func TestJobRepo_Get(t *testing.T) {
	now := time.Now().UTC()
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "job-1"
		*(dest[1].(*string)) = "resume-1"
		*(dest[2].(*domain.JobStatus)) = domain.JobCompleted
		*(dest[3].(*string)) = ""
		*(dest[4].(**string)) = nil
		*(dest[5].(*time.Time)) = now
		*(dest[6].(*time.Time)) = now
		return nil
	}}}
	repo := postgres.NewJobRepo(pool)

	j, err := repo.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", j.ID)
	assert.Equal(t, "resume-1", j.ResumeID)
	assert.Equal(t, domain.JobCompleted, j.Status)
	assert.Nil(t, j.IdemKey)
}

func TestJobRepo_Get_NotFound(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewJobRepo(pool)
	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobRepo_FindByIdempotencyKey(t *testing.T) {
	now := time.Now().UTC()
	key := "idem-1"
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "job-1"
		*(dest[1].(*string)) = "resume-1"
		*(dest[2].(*domain.JobStatus)) = domain.JobQueued
		*(dest[3].(*string)) = ""
		*(dest[4].(**string)) = &key
		*(dest[5].(*time.Time)) = now
		*(dest[6].(*time.Time)) = now
		return nil
	}}}
	repo := postgres.NewJobRepo(pool)

	j, err := repo.FindByIdempotencyKey(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, j.IdemKey)
	assert.Equal(t, key, *j.IdemKey)
}

func TestJobRepo_FindByIdempotencyKey_NotFound(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewJobRepo(pool)
	_, err := repo.FindByIdempotencyKey(context.Background(), "none")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "op=job.find_idem")
}
