package jobentity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/veedubyou/stem-remix/src/shared/remix/request"
)

type Status string

const (
	RequestedStatus  Status = "requested"
	ProcessingStatus Status = "processing"
	CompletedStatus  Status = "completed"
	ErrorStatus      Status = "error"
)

// Fields are the selection fields of the request, kept raw so the worker
// validates them exactly as a synchronous request would be
type Fields struct {
	Multi      bool     `json:"multi"`
	Removals   []string `json:"removals"`
	Instrument string   `json:"instrument"`
	Action     string   `json:"action"`
	Karaoke    bool     `json:"karaoke"`
}

func FieldsFromRaw(raw request.Raw) Fields {
	removals := raw.Removals
	if removals == nil {
		removals = []string{}
	}

	return Fields{
		Multi:      raw.Multi,
		Removals:   removals,
		Instrument: raw.Instrument,
		Action:     raw.Action,
		Karaoke:    raw.Karaoke,
	}
}

func (f Fields) Raw() request.Raw {
	return request.Raw{
		Multi:      f.Multi,
		Removals:   f.Removals,
		Instrument: f.Instrument,
		Action:     f.Action,
		Karaoke:    f.Karaoke,
	}
}

type Job struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	UploadPath string `json:"upload_path"`
	Fields     Fields `json:"fields"`
	Status     Status `json:"status"`

	MixURL string `json:"mix_url,omitempty"`
	Preset string `json:"preset,omitempty"`
	Label  string `json:"label,omitempty"`

	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewJob(fileName string, fields Fields) Job {
	now := time.Now().UTC()
	return Job{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Fields:    fields,
		Status:    RequestedStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type JobUpdater func(job Job) (Job, error)

type Store interface {
	GetJob(ctx context.Context, jobID string) (Job, error)
	SetJob(ctx context.Context, job Job) error
	UpdateJob(ctx context.Context, jobID string, updater JobUpdater) error
}
