package joberrors

import (
	"github.com/veedubyou/stem-remix/src/server/internal/errors/api"
)

const (
	JobNotFoundCode  = api.ErrorCode("job_not_found")
	UploadFailedCode = api.ErrorCode("upload_failed")
	QueueFailedCode  = api.ErrorCode("queue_failed")
)
