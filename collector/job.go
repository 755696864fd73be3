package collector

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

type JobKind string

const (
	JobKindLines    JobKind = "lines"
	JobKindSections JobKind = "sections"
)

// ParseJobKind returns the kind for s, defaulting to JobKindLines for an empty string.
func ParseJobKind(s string) (JobKind, bool) {
	switch JobKind(s) {
	case "", JobKindLines:
		return JobKindLines, true
	case JobKindSections:
		return JobKindSections, true
	default:
		return "", false
	}
}

// Job is one split run. A Job is not modified after it was handed out;
// finishing a job produces a new value with the same ID.
type Job struct {
	ID    uuid.UUID
	Kind  JobKind
	Input string

	Start time.Time
	End   time.Time

	Result *splitter.Result
	Err    string
}

func (j *Job) Identity() uuid.UUID {
	return j.ID
}

func (j *Job) Finished() bool {
	return !j.End.IsZero()
}

func (j *Job) Failed() bool {
	return j.Err != ""
}

// Duration returns the run time of a finished job and zero otherwise.
func (j *Job) Duration() time.Duration {
	if !j.Finished() {
		return 0
	}
	return j.End.Sub(j.Start)
}
