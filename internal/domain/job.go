package domain

// JobState enumerates the lifecycle states a remote generation job moves
// through. The remote service is the sole writer; this process only ever
// reads snapshots.
type JobState string

const (
	JobStateQueued     JobState = "queued"
	JobStateProcessing JobState = "processing"
	JobStateFinished   JobState = "finished"
	JobStateFailed     JobState = "failed"
)

// Terminal reports whether no further state transitions can occur.
func (s JobState) Terminal() bool {
	return s == JobStateFinished || s == JobStateFailed
}

// Job is a read-only snapshot of a remote music-generation job.
type Job struct {
	ID       string   `json:"id"`
	State    JobState `json:"state"`
	MediaURI string   `json:"media_uri"`
}

// GenerationResult carries the media reference for a finished job. It is
// transient: built per request, returned to the caller, never persisted.
type GenerationResult struct {
	Music string `json:"music"`
}
