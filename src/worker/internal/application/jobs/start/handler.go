package start

import (
	"context"

	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . StartJobHandler
type StartJobHandler interface {
	HandleStartJob(ctx context.Context, jobID string) error
}

var _ StartJobHandler = JobHandler{}

func NewJobHandler(jobStore jobentity.Store) JobHandler {
	return JobHandler{
		jobStore: jobStore,
	}
}

type JobHandler struct {
	jobStore jobentity.Store
}

// HandleStartJob claims a requested job by moving it to processing
func (d JobHandler) HandleStartJob(ctx context.Context, jobID string) error {
	errCtx := cerr.Field("job_id", jobID)

	updater := func(job jobentity.Job) (jobentity.Job, error) {
		if job.Status != jobentity.RequestedStatus {
			return jobentity.Job{}, errCtx.Field("status", job.Status).
				Error("Job is not in requested status, abort processing to be safe")
		}

		job.Status = jobentity.ProcessingStatus
		return job, nil
	}

	err := d.jobStore.UpdateJob(ctx, jobID, updater)
	if err != nil {
		return errCtx.Wrap(err).Error("Failed to set the job status")
	}

	return nil
}
