package reconcile

import "fmt"

// Actions reported in a Result.
const (
	ActionCreated   = "created"
	ActionCompleted = "completed"
	ActionSkipped   = "skipped"
)

// Result is the single structured outcome of one reconciliation pass. Every
// terminal state, including failures, is expressed as a Result; Run never
// returns an error.
type Result struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action,omitempty"`
	DurableID string `json:"durable_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

func skipped(format string, args ...any) Result {
	return Result{OK: true, Action: ActionSkipped, Reason: fmt.Sprintf(format, args...)}
}

func failed(err error) Result {
	return Result{OK: false, Error: err.Error()}
}
