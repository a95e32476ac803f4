package jobstorage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	dynamolib "github.com/veedubyou/stem-remix/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-remix/src/shared/lib/errors/mark"
)

const (
	JobsTable = "RemixJobs"
)

var _ jobentity.Store = DB{}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

// EnsureTable creates the jobs table if it isn't there yet
func (d DB) EnsureTable(ctx context.Context) error {
	tableNames, err := d.dynamoDB.ListTables().AllWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to list tables")
	}

	for _, tableName := range tableNames {
		if tableName == JobsTable {
			return nil
		}
	}

	err = d.dynamoDB.CreateTable(JobsTable, dbJob{}).OnDemand(true).RunWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to create the jobs table")
	}

	return nil
}

func (d DB) GetJob(ctx context.Context, jobID string) (jobentity.Job, error) {
	if jobID == "" {
		return jobentity.Job{}, mark.Message(IDEmptyMark, "No job ID was provided")
	}

	value := dbJob{}
	err := d.dynamoDB.Table(JobsTable).
		Get(idKey, jobID).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case markers.Is(err, UnmarshalMark):
			return jobentity.Job{}, errors.Wrap(err, "Failed to fetch job")
		case errors.Is(err, dynamo.ErrNotFound):
			return jobentity.Job{}, mark.Wrap(err, JobNotFound, "Job is not found")
		default:
			return jobentity.Job{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch job")
		}
	}

	return value.toEntity(), nil
}

func (d DB) SetJob(ctx context.Context, job jobentity.Job) error {
	if job.ID == "" {
		return mark.Message(IDEmptyMark, "Job ID is not defined")
	}

	err := d.dynamoDB.Table(JobsTable).Put(toMap(job)).RunWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put the job in the DB")
	}

	return nil
}

// UpdateJob applies updater to the stored job. The write only goes through
// if the status hasn't moved since the read.
func (d DB) UpdateJob(ctx context.Context, jobID string, updater jobentity.JobUpdater) error {
	job, err := d.GetJob(ctx, jobID)
	if err != nil {
		return errors.Wrap(err, "Can't find the job")
	}

	previousStatus := job.Status

	updatedJob, err := updater(job)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "The updater failed to make changes to the job")
	}

	updatedJob.ID = jobID
	updatedJob.UpdatedAt = time.Now().UTC()

	err = d.dynamoDB.Table(JobsTable).
		Put(toMap(updatedJob)).
		If("$ = ?", statusKey, string(previousStatus)).
		RunWithContext(ctx)

	if err != nil {
		if isConditionalCheckFailed(err) {
			return mark.Wrap(err, StaleUpdateMark, "Job status changed during the update")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to put the updated job")
	}

	return nil
}

// dynamo hands back the raw AWS error when a Put's condition doesn't hold
func isConditionalCheckFailed(err error) bool {
	var awsErr awserr.Error
	return errors.As(err, &awsErr) && awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
}
