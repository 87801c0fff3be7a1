package domain

import "errors"

var (
	ErrJobFailed   = errors.New("generation job failed")
	ErrPollTimeout = errors.New("generation job polling budget exceeded")
	ErrNoJobs      = errors.New("remote job list is empty")
)
