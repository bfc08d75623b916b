package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/resu-med/resu-med-sub000/internal/adapter/observability"
	"github.com/resu-med/resu-med-sub000/internal/domain"
)

const jobTypeParse = "parse"

// JobService orchestrates async parse jobs: submission on the API side
// and task processing on the worker side.
type JobService struct {
	Jobs     domain.JobRepository
	Queue    domain.Queue
	Profiles ProfileService
}

// NewJobService constructs a JobService.
func NewJobService(jobs domain.JobRepository, queue domain.Queue, profiles ProfileService) JobService {
	return JobService{Jobs: jobs, Queue: queue, Profiles: profiles}
}

// Submit records a queued job and enqueues its parse task.
func (s JobService) Submit(ctx domain.Context, filename, text string) (string, error) {
	now := time.Now().UTC()
	jobID, err := s.Jobs.Create(ctx, domain.ParseJob{
		Status:    domain.JobQueued,
		Filename:  filename,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", err
	}
	if _, err := s.Queue.EnqueueParse(ctx, domain.ParseTaskPayload{
		JobID:    jobID,
		Filename: filename,
		Text:     text,
	}); err != nil {
		msg := err.Error()
		if uerr := s.Jobs.UpdateStatus(ctx, jobID, domain.JobFailed, &msg); uerr != nil {
			slog.Error("mark job failed after enqueue error", slog.Any("error", uerr))
		}
		return "", fmt.Errorf("op=jobs.Submit: %w", err)
	}
	observability.EnqueueJob(jobTypeParse)
	return jobID, nil
}

// Get fetches a job by id.
func (s JobService) Get(ctx domain.Context, id string) (domain.ParseJob, error) {
	return s.Jobs.Get(ctx, id)
}

// Process handles one parse task from the queue. Failures are recorded
// on the job; only infrastructure errors propagate so the consumer can
// decide whether to redeliver.
func (s JobService) Process(ctx domain.Context, payload domain.ParseTaskPayload) error {
	observability.JobStarted(jobTypeParse)
	if err := s.Jobs.UpdateStatus(ctx, payload.JobID, domain.JobProcessing, nil); err != nil {
		observability.JobFinished(jobTypeParse, false)
		return fmt.Errorf("op=jobs.Process: %w", err)
	}

	sp, err := s.Profiles.ParseAndStore(ctx, payload.Filename, payload.Text)
	if err != nil {
		msg := err.Error()
		if uerr := s.Jobs.UpdateStatus(ctx, payload.JobID, domain.JobFailed, &msg); uerr != nil {
			observability.JobFinished(jobTypeParse, false)
			return fmt.Errorf("op=jobs.Process: %w", uerr)
		}
		observability.JobFinished(jobTypeParse, false)
		slog.Warn("parse job failed", slog.String("job_id", payload.JobID), slog.Any("error", err))
		return nil
	}

	if err := s.Jobs.SetProfileID(ctx, payload.JobID, sp.ID); err != nil {
		observability.JobFinished(jobTypeParse, false)
		return fmt.Errorf("op=jobs.Process: %w", err)
	}
	if err := s.Jobs.UpdateStatus(ctx, payload.JobID, domain.JobCompleted, nil); err != nil {
		observability.JobFinished(jobTypeParse, false)
		return fmt.Errorf("op=jobs.Process: %w", err)
	}
	observability.JobFinished(jobTypeParse, true)
	slog.Info("parse job completed",
		slog.String("job_id", payload.JobID),
		slog.String("profile_id", sp.ID),
		slog.String("source", string(sp.Diagnostics.Source)))
	return nil
}
