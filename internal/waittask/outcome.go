package waittask

import "errors"

// Outcome is the state of a Task. Every state but Pending is terminal.
type Outcome int32

const (
	Pending Outcome = iota
	Executed
	TimedOut
	Disconnected
	Aborted
	Cancelled
)

var outcomeNames = map[Outcome]string{
	Pending:      "pending",
	Executed:     "executed",
	TimedOut:     "timed_out",
	Disconnected: "disconnected",
	Aborted:      "aborted",
	Cancelled:    "cancelled",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// TimeoutClass reports whether the wait ran out before the command ran.
func (o Outcome) TimeoutClass() bool {
	return o == TimedOut || o == Disconnected
}

// AbortClass reports whether the wait was called off.
func (o Outcome) AbortClass() bool {
	return o == Aborted || o == Cancelled
}

var (
	// ErrNotCompleted is returned when a result is read while still pending.
	ErrNotCompleted = errors.New("wait task has not completed")
	// ErrTimeout is returned for timeout-class outcomes when ErrorOnTimeout is set.
	ErrTimeout = errors.New("wait task timed out")
	// ErrCancelled is returned for abort-class outcomes when ErrorOnCancel is set.
	ErrCancelled = errors.New("wait task cancelled")
)
