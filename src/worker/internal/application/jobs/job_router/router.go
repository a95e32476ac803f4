package job_router

import (
	"context"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	"github.com/veedubyou/stem-remix/src/shared/job/message"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	remixerrors "github.com/veedubyou/stem-remix/src/shared/remix/errors"
	"github.com/veedubyou/stem-remix/src/worker/internal/application/jobs/remix"
	"github.com/veedubyou/stem-remix/src/worker/internal/application/jobs/start"
)

type JobRouter struct {
	jobStore     jobentity.Store
	startHandler start.StartJobHandler
	remixHandler remix.RemixJobHandler
}

func NewJobRouter(jobStore jobentity.Store, startHandler start.StartJobHandler, remixHandler remix.RemixJobHandler) JobRouter {
	return JobRouter{
		jobStore:     jobStore,
		startHandler: startHandler,
		remixHandler: remixHandler,
	}
}

func (j JobRouter) HandleMessage(message amqp091.Delivery) error {
	switch message.Type {
	case jobmessage.RemixJobType:
		return j.handleRemixJob(message.Body)

	default:
		return cerr.Field("message_type", message.Type).Error("Unrecognized message type")
	}
}

func (j JobRouter) handleRemixJob(body []byte) error {
	ctx := context.Background()

	remixJob, err := jobmessage.ParseRemixJob(body)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to parse remix job message")
	}

	// a job that can't be claimed belongs to someone else, leave its record alone
	if err = j.startHandler.HandleStartJob(ctx, remixJob.JobID); err != nil {
		return cerr.Wrap(err).Error("Failed to start remix job")
	}

	if err = j.remixHandler.HandleRemixJob(ctx, remixJob.JobID); err != nil {
		j.markJobFailed(ctx, remixJob.JobID, err)
		return cerr.Wrap(err).Error("Failed to run remix job")
	}

	return nil
}

func (j JobRouter) markJobFailed(ctx context.Context, jobID string, cause error) {
	updater := func(job jobentity.Job) (jobentity.Job, error) {
		job.Status = jobentity.ErrorStatus
		job.ErrorKind = string(remixerrors.KindOf(cause))
		job.ErrorMessage = remixerrors.UserMessage(cause)
		return job, nil
	}

	err := j.jobStore.UpdateJob(ctx, jobID, updater)
	if err != nil {
		log.WithField("job_id", jobID).
			WithError(err).
			Error("Failed to mark job as failed in DB")
	}
}
