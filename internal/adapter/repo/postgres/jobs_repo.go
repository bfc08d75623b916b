package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// JobRepo persists and loads parse jobs.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

// Create inserts a new job and returns its id (generates one if empty).
func (r *JobRepo) Create(ctx domain.Context, j domain.ParseJob) (string, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Create")
	defer span.End()
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	q := `INSERT INTO parse_jobs (id, status, error, profile_id, filename, text, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := r.Pool.Exec(ctx, q, id, j.Status, j.Error, j.ProfileID, j.Filename, j.Text, now, now); err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	return id, nil
}

// Get loads a job by id.
func (r *JobRepo) Get(ctx domain.Context, id string) (domain.ParseJob, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	q := `SELECT id, status, COALESCE(error,''), COALESCE(profile_id,''), filename, text, created_at, updated_at FROM parse_jobs WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var j domain.ParseJob
	if err := row.Scan(&j.ID, &j.Status, &j.Error, &j.ProfileID, &j.Filename, &j.Text, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ParseJob{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
		}
		return domain.ParseJob{}, fmt.Errorf("op=job.get: %w", err)
	}
	return j, nil
}

// UpdateStatus updates a job's status and optional error message.
func (r *JobRepo) UpdateStatus(ctx domain.Context, id string, status domain.JobStatus, errMsg *string) error {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.UpdateStatus")
	defer span.End()
	// Map nil errMsg to empty string to satisfy the NOT NULL constraint.
	errVal := ""
	if errMsg != nil {
		errVal = *errMsg
	}
	q := `UPDATE parse_jobs SET status=$2, error=$3, updated_at=$4 WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, status, errVal, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=job.update_status: %w", err)
	}
	return nil
}

// SetProfileID links a completed job to its stored profile.
func (r *JobRepo) SetProfileID(ctx domain.Context, id, profileID string) error {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.SetProfileID")
	defer span.End()
	q := `UPDATE parse_jobs SET profile_id=$2, updated_at=$3 WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, profileID, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=job.set_profile: %w", err)
	}
	return nil
}
