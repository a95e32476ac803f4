package dummy

import (
	"context"
	"sync"
	"time"

	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	"github.com/veedubyou/stem-remix/src/shared/job/storage"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/lib/errors/mark"
)

var _ jobentity.Store = &JobStore{}

func NewJobStore() *JobStore {
	return &JobStore{
		Unavailable: false,
		State:       make(map[string]jobentity.Job),
	}
}

type JobStore struct {
	Unavailable bool
	State       map[string]jobentity.Job
	mutex       sync.RWMutex
}

func (j *JobStore) GetJob(ctx context.Context, jobID string) (jobentity.Job, error) {
	if j.Unavailable {
		return jobentity.Job{}, mark.Wrap(NetworkFailure, jobstorage.DefaultErrorMark, "Failed to fetch job")
	}

	j.mutex.RLock()
	defer j.mutex.RUnlock()

	job, ok := j.State[jobID]
	if !ok {
		return jobentity.Job{}, mark.Wrap(NotFound, jobstorage.JobNotFound, "Job is not found")
	}

	return job, nil
}

func (j *JobStore) SetJob(ctx context.Context, job jobentity.Job) error {
	if j.Unavailable {
		return mark.Wrap(NetworkFailure, jobstorage.DefaultErrorMark, "Failed to put the job in the DB")
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	j.State[job.ID] = job
	return nil
}

func (j *JobStore) UpdateJob(ctx context.Context, jobID string, updater jobentity.JobUpdater) error {
	if j.Unavailable {
		return mark.Wrap(NetworkFailure, jobstorage.DefaultErrorMark, "Failed to fetch job")
	}

	job, err := j.GetJob(ctx, jobID)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to get job from DB")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return cerr.Wrap(err).Error("Job update function failed")
	}

	updatedJob.ID = jobID
	updatedJob.UpdatedAt = time.Now().UTC()
	return j.SetJob(ctx, updatedJob)
}
