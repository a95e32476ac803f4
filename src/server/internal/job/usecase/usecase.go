package jobusecase

import (
	"context"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
	"github.com/veedubyou/stem-remix/src/server/internal/job/errors"
	"github.com/veedubyou/stem-remix/src/server/internal/process/errors"
	"github.com/veedubyou/stem-remix/src/shared/filestore"
	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	"github.com/veedubyou/stem-remix/src/shared/job/message"
	"github.com/veedubyou/stem-remix/src/shared/job/storage"
	"github.com/veedubyou/stem-remix/src/shared/lib/rabbitmq"
	"github.com/veedubyou/stem-remix/src/shared/lib/storagepath"
	"github.com/veedubyou/stem-remix/src/shared/remix"
)

type Usecase struct {
	db            jobentity.Store
	fileStore     filestore.FileStore
	publisher     rabbitmq.Publisher
	pathGenerator storagepath.Generator
}

func NewUsecase(db jobentity.Store, fileStore filestore.FileStore, publisher rabbitmq.Publisher, pathGenerator storagepath.Generator) Usecase {
	return Usecase{
		db:            db,
		fileStore:     fileStore,
		publisher:     publisher,
		pathGenerator: pathGenerator,
	}
}

// CreateJob validates the upload up front, so a bad request fails here
// instead of in the worker, then stores it and queues it
func (u Usecase) CreateJob(ctx context.Context, upload remix.Upload) (jobentity.Job, *api.Error) {
	fileName, _, err := upload.Validate()
	if err != nil {
		return jobentity.Job{}, processerrors.FromRemixError(err)
	}

	job := jobentity.NewJob(fileName, jobentity.FieldsFromRaw(upload.Fields))
	job.UploadPath = u.pathGenerator.UploadPath(job.ID, fileName)

	logger := log.WithFields(log.Fields{
		"job_id":      job.ID,
		"upload_path": job.UploadPath,
	})

	err = u.fileStore.WriteFile(ctx, job.UploadPath, upload.Content)
	if err != nil {
		err = errors.Wrap(err, "Failed to store the upload")
		return jobentity.Job{}, api.CommitError(err,
			joberrors.UploadFailedCode,
			"Failed to store the uploaded file. Please try again")
	}

	err = u.db.SetJob(ctx, job)
	if err != nil {
		err = errors.Wrap(err, "Failed to save the job")
		return jobentity.Job{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to save the remix job")
	}

	err = u.publishRemixJob(ctx, job.ID)
	if err != nil {
		err = errors.Wrap(err, "Failed to queue the job")
		u.markJobFailed(job, err)
		return jobentity.Job{}, api.CommitError(err,
			joberrors.QueueFailedCode,
			"Failed to queue the remix job. Please try again")
	}

	logger.Info("Remix job queued")
	return job, nil
}

func (u Usecase) GetJob(ctx context.Context, jobID string) (jobentity.Job, *api.Error) {
	job, err := u.db.GetJob(ctx, jobID)
	if err != nil {
		err = errors.Wrap(err, "Failed to get job from DB")
		switch {
		case markers.Is(err, jobstorage.JobNotFound), markers.Is(err, jobstorage.IDEmptyMark):
			return jobentity.Job{}, api.CommitError(err,
				joberrors.JobNotFoundCode,
				"The remix job could not be found")

		default:
			return jobentity.Job{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown error: Failed to fetch the remix job")
		}
	}

	return job, nil
}

func (u Usecase) publishRemixJob(ctx context.Context, jobID string) error {
	publishMsg, err := jobmessage.NewRemixJobPublishing(jobID)
	if err != nil {
		return err
	}

	err = u.publisher.Publish(ctx, publishMsg)
	if err != nil {
		return errors.Wrap(err, "Failed to publish message to rabbitmq")
	}

	return nil
}

func (u Usecase) markJobFailed(job jobentity.Job, cause error) {
	updater := func(job jobentity.Job) (jobentity.Job, error) {
		job.Status = jobentity.ErrorStatus
		job.ErrorKind = string(joberrors.QueueFailedCode)
		job.ErrorMessage = cause.Error()
		return job, nil
	}

	// the request may be gone by now, the record should still be corrected
	err := u.db.UpdateJob(context.Background(), job.ID, updater)
	if err != nil {
		log.WithField("job_id", job.ID).
			WithError(err).
			Error("Failed to mark job as failed in DB")
	}
}
