package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resu-med/resu-med-sub000/internal/adapter/repo/postgres"
	"github.com/resu-med/resu-med-sub000/internal/domain"
)

func TestJobRepo_Create(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewJobRepo(pool)
	ctx := context.Background()

	id, err := repo.Create(ctx, domain.ParseJob{Status: domain.JobQueued, Filename: "cv.txt", Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, id, "an id should be generated when none is provided")
	require.NotEmpty(t, pool.execArgs)
	assert.Equal(t, id, pool.execArgs[0])

	pool.execErr = assert.AnError
	_, err = repo.Create(ctx, domain.ParseJob{ID: "job-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=job.create")
}

func TestJobRepo_Create_KeepsProvidedID(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewJobRepo(pool)

	id, err := repo.Create(context.Background(), domain.ParseJob{ID: "job-7", Status: domain.JobQueued})
	require.NoError(t, err)
	assert.Equal(t, "job-7", id)
}

func TestJobRepo_Get(t *testing.T) {
	now := time.Now().UTC()
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "job-1"
		*(dest[1].(*domain.JobStatus)) = domain.JobCompleted
		*(dest[2].(*string)) = ""
		*(dest[3].(*string)) = "profile-1"
		*(dest[4].(*string)) = "cv.txt"
		*(dest[5].(*string)) = "hello"
		*(dest[6].(*time.Time)) = now
		*(dest[7].(*time.Time)) = now
		return nil
	}}}
	repo := postgres.NewJobRepo(pool)

	job, err := repo.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, domain.JobCompleted, job.Status)
	assert.Equal(t, "profile-1", job.ProfileID)
}

func TestJobRepo_Get_NotFound(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewJobRepo(pool)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobRepo_UpdateStatus(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewJobRepo(pool)
	ctx := context.Background()

	require.NoError(t, repo.UpdateStatus(ctx, "job-1", domain.JobProcessing, nil))
	assert.Equal(t, "", pool.execArgs[2], "nil message should map to empty string")

	msg := "boom"
	require.NoError(t, repo.UpdateStatus(ctx, "job-1", domain.JobFailed, &msg))
	assert.Equal(t, "boom", pool.execArgs[2])

	pool.execErr = assert.AnError
	err := repo.UpdateStatus(ctx, "job-1", domain.JobCompleted, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=job.update_status")
}

func TestJobRepo_SetProfileID(t *testing.T) {
	pool := &poolStub{}
	repo := postgres.NewJobRepo(pool)

	require.NoError(t, repo.SetProfileID(context.Background(), "job-1", "profile-1"))
	assert.Equal(t, "profile-1", pool.execArgs[1])

	pool.execErr = assert.AnError
	err := repo.SetProfileID(context.Background(), "job-1", "profile-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=job.set_profile")
}
