package domain

import "time"

// JobStatus enumerates variant job lifecycle states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// VariantJob is a queued request to (re)generate the variants of one media file.
type VariantJob struct {
	ID           string
	Ref          MediaRef
	Status       JobStatus
	Attempts     int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
