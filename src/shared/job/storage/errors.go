package jobstorage

import "github.com/cockroachdb/errors"

var (
	DefaultErrorMark = errors.New("Job storage error")
	JobNotFound      = errors.New("Job not found")
	IDEmptyMark      = errors.New("Job ID is empty")
	UnmarshalMark    = errors.New("Failed to unmarshal job")
	StaleUpdateMark  = errors.New("Job changed while being updated")
)
