package jobstorage

import (
	"time"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	dynamolib "github.com/veedubyou/stem-remix/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-remix/src/shared/lib/errors/mark"
)

const (
	idKey     = "id"
	statusKey = "status"
)

var _ dynamo.ItemUnmarshaler = &dbJob{}

type dbJob struct {
	ID           string    `dynamo:"id,hash"`
	FileName     string    `dynamo:"file_name"`
	UploadPath   string    `dynamo:"upload_path"`
	Multi        bool      `dynamo:"multi"`
	Removals     []string  `dynamo:"removals"`
	Instrument   string    `dynamo:"instrument"`
	Action       string    `dynamo:"action"`
	Karaoke      bool      `dynamo:"karaoke"`
	Status       string    `dynamo:"status"`
	MixURL       string    `dynamo:"mix_url"`
	Preset       string    `dynamo:"preset"`
	Label        string    `dynamo:"label"`
	ErrorKind    string    `dynamo:"error_kind"`
	ErrorMessage string    `dynamo:"error_message"`
	CreatedAt    time.Time `dynamo:"created_at"`
	UpdatedAt    time.Time `dynamo:"updated_at"`
}

// alias without the unmarshaler, so the default struct decoding can be reused
type plainDBJob dbJob

func (d *dbJob) UnmarshalDynamoItem(dynamoItem map[string]*dynamodb.AttributeValue) error {
	if err := dynamolib.ValidateStringField(dynamoItem, idKey); err != nil {
		return mark.Wrap(err, UnmarshalMark, "Failed to validate id field")
	}

	if err := dynamolib.ValidateStringField(dynamoItem, statusKey); err != nil {
		return mark.Wrap(err, UnmarshalMark, "Failed to validate status field")
	}

	plain := plainDBJob{}
	if err := dynamo.UnmarshalItem(dynamoItem, &plain); err != nil {
		return mark.Wrap(err, UnmarshalMark, "Failed to unmarshal dynamo item")
	}

	*d = dbJob(plain)
	return nil
}

func (d dbJob) toEntity() jobentity.Job {
	removals := d.Removals
	if removals == nil {
		removals = []string{}
	}

	return jobentity.Job{
		ID:         d.ID,
		FileName:   d.FileName,
		UploadPath: d.UploadPath,
		Fields: jobentity.Fields{
			Multi:      d.Multi,
			Removals:   removals,
			Instrument: d.Instrument,
			Action:     d.Action,
			Karaoke:    d.Karaoke,
		},
		Status:       jobentity.Status(d.Status),
		MixURL:       d.MixURL,
		Preset:       d.Preset,
		Label:        d.Label,
		ErrorKind:    d.ErrorKind,
		ErrorMessage: d.ErrorMessage,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// toMap keeps empty strings and lists as attributes, so a record always has
// every field the API returns
func toMap(job jobentity.Job) map[string]any {
	removals := make([]any, 0, len(job.Fields.Removals))
	for _, removal := range job.Fields.Removals {
		removals = append(removals, removal)
	}

	return map[string]any{
		"id":            job.ID,
		"file_name":     job.FileName,
		"upload_path":   job.UploadPath,
		"multi":         job.Fields.Multi,
		"removals":      removals,
		"instrument":    job.Fields.Instrument,
		"action":        job.Fields.Action,
		"karaoke":       job.Fields.Karaoke,
		"status":        string(job.Status),
		"mix_url":       job.MixURL,
		"preset":        job.Preset,
		"label":         job.Label,
		"error_kind":    job.ErrorKind,
		"error_message": job.ErrorMessage,
		"created_at":    job.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":    job.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
