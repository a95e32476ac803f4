package remix

import (
	"context"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/veedubyou/stem-remix/src/shared/filestore"
	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/lib/storagepath"
	"github.com/veedubyou/stem-remix/src/shared/lib/working_dir"
	"github.com/veedubyou/stem-remix/src/shared/remix"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Processor
type Processor interface {
	Process(ctx context.Context, upload remix.Upload) (remix.Result, error)
}

var _ Processor = remix.Pipeline{}

//counterfeiter:generate . RemixJobHandler
type RemixJobHandler interface {
	HandleRemixJob(ctx context.Context, jobID string) error
}

var _ RemixJobHandler = JobHandler{}

func NewJobHandler(
	jobStore jobentity.Store,
	fileStore filestore.FileStore,
	processor Processor,
	pathGenerator storagepath.Generator,
	workingDir working_dir.WorkingDir,
) JobHandler {
	return JobHandler{
		jobStore:      jobStore,
		fileStore:     fileStore,
		processor:     processor,
		pathGenerator: pathGenerator,
		workingDir:    workingDir,
	}
}

type JobHandler struct {
	jobStore      jobentity.Store
	fileStore     filestore.FileStore
	processor     Processor
	pathGenerator storagepath.Generator
	workingDir    working_dir.WorkingDir
}

// HandleRemixJob runs a processing job through the pipeline and publishes
// the finished mix to the file store
func (h JobHandler) HandleRemixJob(ctx context.Context, jobID string) error {
	errCtx := cerr.Field("job_id", jobID)

	job, err := h.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return errCtx.Wrap(err).Error("Failed to get job from DB")
	}

	errCtx = errCtx.Field("upload_path", job.UploadPath)
	logger := log.WithFields(log.Fields{
		"job_id":      jobID,
		"upload_path": job.UploadPath,
	})

	uploadFile, cleanup, err := h.downloadUpload(ctx, job)
	if err != nil {
		return errCtx.Wrap(err).Error("Failed to download the upload")
	}
	defer cleanup()

	logger.Info("Remixing upload")
	result, err := h.processor.Process(ctx, remix.Upload{
		FileName: job.FileName,
		Content:  uploadFile,
		Fields:   job.Fields.Raw(),
	})
	if err != nil {
		return errCtx.Wrap(err).Error("Failed to remix the upload")
	}

	mixObjectPath := h.pathGenerator.MixPath(jobID, result.MixName)
	err = h.uploadMix(ctx, result.MixPath, mixObjectPath)
	if err != nil {
		return errCtx.Field("mix_path", result.MixPath).
			Wrap(err).Error("Failed to upload the mix")
	}

	updater := func(job jobentity.Job) (jobentity.Job, error) {
		if job.Status != jobentity.ProcessingStatus {
			return jobentity.Job{}, errCtx.Field("status", job.Status).
				Error("Job is no longer processing, not recording the mix")
		}

		job.Status = jobentity.CompletedStatus
		job.MixURL = h.pathGenerator.URL(mixObjectPath)
		job.Preset = result.Preset
		job.Label = result.Label
		return job, nil
	}

	err = h.jobStore.UpdateJob(ctx, jobID, updater)
	if err != nil {
		return errCtx.Wrap(err).Error("Failed to complete the job")
	}

	logger.WithField("mix_object_path", mixObjectPath).Info("Remix job completed")
	return nil
}

func (h JobHandler) downloadUpload(ctx context.Context, job jobentity.Job) (*os.File, func(), error) {
	tempFile, err := os.CreateTemp(h.workingDir.TempDir(), job.ID+"-*")
	if err != nil {
		return nil, nil, cerr.Wrap(err).Error("Failed to create temp file for the upload")
	}

	cleanup := func() {
		_ = tempFile.Close()
		if err := os.Remove(tempFile.Name()); err != nil && !os.IsNotExist(err) {
			log.WithField("temp_file", tempFile.Name()).
				WithError(err).
				Warn("Failed to remove temp upload")
		}
	}

	if err = h.fileStore.ReadFile(ctx, job.UploadPath, tempFile); err != nil {
		cleanup()
		return nil, nil, cerr.Wrap(err).Error("Failed to read the upload from the file store")
	}

	if _, err = tempFile.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, cerr.Wrap(err).Error("Failed to rewind the temp upload")
	}

	return tempFile, cleanup, nil
}

func (h JobHandler) uploadMix(ctx context.Context, mixPath string, objectPath string) error {
	mixFile, err := os.Open(mixPath)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to open the mix")
	}
	defer mixFile.Close()

	return h.fileStore.WriteFile(ctx, objectPath, mixFile)
}
