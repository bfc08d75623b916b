package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/extract"
	"github.com/resu-med/resu-med-sub000/internal/usecase"
)

type stubJobRepo struct {
	jobs      map[string]domain.ParseJob
	createErr error
	updateErr error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: map[string]domain.ParseJob{}}
}

func (r *stubJobRepo) Create(_ domain.Context, j domain.ParseJob) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	if j.ID == "" {
		j.ID = "job-1"
	}
	r.jobs[j.ID] = j
	return j.ID, nil
}

func (r *stubJobRepo) Get(_ domain.Context, id string) (domain.ParseJob, error) {
	j, ok := r.jobs[id]
	if !ok {
		return domain.ParseJob{}, domain.ErrNotFound
	}
	return j, nil
}

func (r *stubJobRepo) UpdateStatus(_ domain.Context, id string, status domain.JobStatus, errMsg *string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	j := r.jobs[id]
	j.ID = id
	j.Status = status
	if errMsg != nil {
		j.Error = *errMsg
	} else {
		j.Error = ""
	}
	r.jobs[id] = j
	return nil
}

func (r *stubJobRepo) SetProfileID(_ domain.Context, id, profileID string) error {
	j := r.jobs[id]
	j.ProfileID = profileID
	r.jobs[id] = j
	return nil
}

type stubQueue struct {
	payloads []domain.ParseTaskPayload
	err      error
}

func (q *stubQueue) EnqueueParse(_ domain.Context, p domain.ParseTaskPayload) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.payloads = append(q.payloads, p)
	return p.JobID, nil
}

type stubProfileRepo struct {
	stored    []domain.StoredProfile
	createErr error
}

func (r *stubProfileRepo) Create(_ domain.Context, sp domain.StoredProfile) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.stored = append(r.stored, sp)
	return "profile-1", nil
}

func (r *stubProfileRepo) Get(_ domain.Context, id string) (domain.StoredProfile, error) {
	return domain.StoredProfile{ID: id}, nil
}

func newProfileService(repo *stubProfileRepo) usecase.ProfileService {
	parser := usecase.NewParseService(extract.NewEngine(), nil, 0, 0, 0)
	return usecase.NewProfileService(parser, repo)
}

func TestJobs_Submit(t *testing.T) {
	t.Parallel()
	jobs := newStubJobRepo()
	queue := &stubQueue{}
	svc := usecase.NewJobService(jobs, queue, newProfileService(&stubProfileRepo{}))

	id, err := svc.Submit(context.Background(), "cv.txt", "some resume text")
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
	require.Len(t, queue.payloads, 1)
	assert.Equal(t, id, queue.payloads[0].JobID)
	assert.Equal(t, domain.JobQueued, jobs.jobs[id].Status)
}

func TestJobs_Submit_EnqueueFailureMarksJobFailed(t *testing.T) {
	t.Parallel()
	jobs := newStubJobRepo()
	queue := &stubQueue{err: errors.New("broker down")}
	svc := usecase.NewJobService(jobs, queue, newProfileService(&stubProfileRepo{}))

	_, err := svc.Submit(context.Background(), "cv.txt", "some resume text")
	require.Error(t, err)
	assert.Equal(t, domain.JobFailed, jobs.jobs["job-1"].Status)
	assert.Contains(t, jobs.jobs["job-1"].Error, "broker down")
}

func TestJobs_Process_Completes(t *testing.T) {
	t.Parallel()
	jobs := newStubJobRepo()
	jobs.jobs["job-1"] = domain.ParseJob{ID: "job-1", Status: domain.JobQueued}
	profiles := &stubProfileRepo{}
	svc := usecase.NewJobService(jobs, &stubQueue{}, newProfileService(profiles))

	err := svc.Process(context.Background(), domain.ParseTaskPayload{
		JobID:    "job-1",
		Filename: "cv.txt",
		Text:     parseSample,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, jobs.jobs["job-1"].Status)
	assert.Equal(t, "profile-1", jobs.jobs["job-1"].ProfileID)
	require.Len(t, profiles.stored, 1)
}

func TestJobs_Process_ParseFailureRecordedNotRedelivered(t *testing.T) {
	t.Parallel()
	jobs := newStubJobRepo()
	jobs.jobs["job-1"] = domain.ParseJob{ID: "job-1", Status: domain.JobQueued}
	svc := usecase.NewJobService(jobs, &stubQueue{}, newProfileService(&stubProfileRepo{}))

	err := svc.Process(context.Background(), domain.ParseTaskPayload{JobID: "job-1", Text: "   "})
	require.NoError(t, err, "a permanently failing parse must not abort the batch")
	assert.Equal(t, domain.JobFailed, jobs.jobs["job-1"].Status)
	assert.Contains(t, jobs.jobs["job-1"].Error, "empty input")
}

func TestJobs_Process_RepoErrorPropagates(t *testing.T) {
	t.Parallel()
	jobs := newStubJobRepo()
	jobs.updateErr = errors.New("db down")
	svc := usecase.NewJobService(jobs, &stubQueue{}, newProfileService(&stubProfileRepo{}))

	err := svc.Process(context.Background(), domain.ParseTaskPayload{JobID: "job-1", Text: parseSample})
	require.Error(t, err)
}

func TestJobs_Process_StoreErrorRecordedOnJob(t *testing.T) {
	t.Parallel()
	jobs := newStubJobRepo()
	jobs.jobs["job-1"] = domain.ParseJob{ID: "job-1", Status: domain.JobQueued}
	profiles := &stubProfileRepo{createErr: errors.New("insert failed")}
	svc := usecase.NewJobService(jobs, &stubQueue{}, newProfileService(profiles))

	err := svc.Process(context.Background(), domain.ParseTaskPayload{JobID: "job-1", Text: parseSample})
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, jobs.jobs["job-1"].Status)
	assert.Contains(t, jobs.jobs["job-1"].Error, "insert failed")
}
