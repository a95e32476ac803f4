package jobmessage

import (
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
)

const RemixJobType string = "remix_job"

type RemixJob struct {
	JobID string `json:"job_id"`
}

func NewRemixJobPublishing(jobID string) (amqp091.Publishing, error) {
	body, err := json.Marshal(RemixJob{JobID: jobID})
	if err != nil {
		return amqp091.Publishing{}, cerr.Field("job_id", jobID).
			Wrap(err).Error("Failed to marshal remix job message")
	}

	return amqp091.Publishing{
		Type: RemixJobType,
		Body: body,
	}, nil
}

func ParseRemixJob(body []byte) (RemixJob, error) {
	job := RemixJob{}
	if err := json.Unmarshal(body, &job); err != nil {
		return RemixJob{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if job.JobID == "" {
		return RemixJob{}, cerr.Field("body", string(body)).Error("Missing job ID")
	}

	return job, nil
}
