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

func TestProfileRepo_Upsert(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewProfileRepo(pool)

	err := repo.Upsert(context.Background(), domain.CandidateProfile{
		ResumeID:    "resume-1",
		Name:        "Selva Ragavan R",
		Email:       "selva@example.com",
		ExtractedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.Len(t, pool.execSQL, 1)
	assert.Contains(t, pool.execSQL[0], "ON CONFLICT (resume_id)")

	pool.execErr = assert.AnError
	err = repo.Upsert(context.Background(), domain.CandidateProfile{ResumeID: "resume-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=profile.upsert")
}

func TestProfileRepo_GetByResumeID(t *testing.T) {
	now := time.Now().UTC()
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "resume-1"
		*(dest[1].(*string)) = "Selva Ragavan R"
		*(dest[2].(*string)) = "selva@example.com"
		*(dest[3].(*string)) = "9876543210"
		*(dest[4].(*string)) = "Go, Docker"
		*(dest[5].(*string)) = "Chennai"
		*(dest[6].(*string)) = "5 years"
		*(dest[7].(*string)) = "12 LPA"
		*(dest[8].(*string)) = "16 LPA"
		*(dest[9].(*time.Time)) = now
		return nil
	}}}
	repo := postgres.NewProfileRepo(pool)

	p, err := repo.GetByResumeID(context.Background(), "resume-1")
	require.NoError(t, err)
	assert.Equal(t, "Selva Ragavan R", p.Name)
	assert.Equal(t, "Chennai", p.Location)
}

func TestProfileRepo_GetByResumeID_NotFound(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewProfileRepo(pool)
	_, err := repo.GetByResumeID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
