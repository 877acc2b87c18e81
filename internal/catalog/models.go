package catalog

import "time"

// Status represents the lifecycle of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Kinds of runs the CLI records.
const (
	KindFetch   = "fetch"
	KindConvert = "convert"
	KindVerify  = "verify"
	KindRun     = "run"
)

// Run is one recorded prep invocation.
type Run struct {
	ID            int64
	RunID         string
	Kind          string
	Status        Status
	StartedAt     time.Time
	FinishedAt    time.Time
	Rows          int
	TrainRows     int
	EvalRows      int
	Characters    int
	MissingImages int
	Error         string
}

// Duration returns how long the run took, zero while it is still running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
