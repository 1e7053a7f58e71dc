package command

// Handler runs one invocation. A fresh handler is created per invocation,
// after the family lock is held.
type Handler interface {
	Execute(c *Context) Result
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(c *Context) Result

// Execute calls f.
func (f HandlerFunc) Execute(c *Context) Result {
	return f(c)
}

// HandlerFactory creates handlers.
type HandlerFactory func() Handler

// Func wraps a plain function as a HandlerFactory.
func Func(fn func(c *Context) Result) HandlerFactory {
	return func() Handler { return HandlerFunc(fn) }
}

// Status is the outcome of a handler.
type Status int

const (
	// StatusOK means the handler finished without sending anything; the
	// dispatcher sends a generic confirmation.
	StatusOK Status = iota
	// StatusResponded means the handler sent its own response.
	StatusResponded
	// StatusAborted means the handler stopped on purpose, usually after
	// explaining why.
	StatusAborted
	// StatusCancelled means the invocation's context was cancelled.
	StatusCancelled
	// StatusError means the handler failed unexpectedly.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusResponded:
		return "responded"
	case StatusAborted:
		return "aborted"
	case StatusCancelled:
		return "cancelled"
	default:
		return "error"
	}
}

// Switch asks the dispatcher to run another command with the same input.
type Switch struct {
	// Key of the target descriptor. Ignored when Help is set.
	Key  string
	Help bool
}

// Result is what a handler returns.
type Result struct {
	Status Status
	Err    error
	Switch *Switch
}

// OK is the zero Result.
func OK() Result {
	return Result{Status: StatusOK}
}

// Failed wraps an unexpected error.
func Failed(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// SwitchTo continues with the command registered under key.
func SwitchTo(key string) Result {
	return Result{Status: StatusOK, Switch: &Switch{Key: key}}
}

// SwitchToHelp continues with help about the current command.
func SwitchToHelp() Result {
	return Result{Status: StatusOK, Switch: &Switch{Help: true}}
}
