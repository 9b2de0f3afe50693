package batch

import (
	"clipper/internal/timerange"
)

// RunState tracks the whole-run lifecycle. A run advances strictly forward;
// there is no retry transition.
type RunState string

const (
	RunInitializing RunState = "initializing"
	RunAcquiring    RunState = "acquiring"
	RunCutting      RunState = "cutting"
	RunCompleted    RunState = "completed"
)

// JobState tracks a single cut job. Jobs are independent; a failed job never
// changes a sibling's state.
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// CutJob is one bounded cut scheduled against the shared source. The output
// path is claimed before any worker starts so duplicate ranges resolve to
// the same names regardless of worker count.
type CutJob struct {
	Index      int // 1-based request-order position
	Range      timerange.ClipRange
	OutputPath string
}

// JobResult is the terminal record for one cut job.
type JobResult struct {
	Job   CutJob
	State JobState
	Err   error
}

// BatchResult reports a completed run. Results is always in request order
// and holds one entry per requested clip.
type BatchResult struct {
	RunID      string
	SourcePath string
	Results    []JobResult
}

// Succeeded counts jobs that produced an output file.
func (r BatchResult) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.State == JobSucceeded {
			n++
		}
	}
	return n
}

// Failed counts jobs that terminated without an output file.
func (r BatchResult) Failed() int {
	return len(r.Results) - r.Succeeded()
}
