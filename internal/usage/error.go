package usage

import (
	"errors"
	"fmt"
)

// ErrorKind represents the type of usage error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrNotCommand
	ErrUnknownCommand
	ErrUnknownSubcommand
	ErrPermissionDenied
	ErrCooldownActive
	ErrRateLimited
	ErrCancelled
	ErrInvalidArgument
	ErrMissingArgument
	ErrConfiguration
)

var kindNames = map[ErrorKind]string{
	ErrUnknown:           "unknown",
	ErrNotCommand:        "not_command",
	ErrUnknownCommand:    "unknown_command",
	ErrUnknownSubcommand: "unknown_subcommand",
	ErrPermissionDenied:  "permission_denied",
	ErrCooldownActive:    "cooldown_active",
	ErrRateLimited:       "rate_limited",
	ErrCancelled:         "cancelled",
	ErrInvalidArgument:   "invalid_argument",
	ErrMissingArgument:   "missing_argument",
	ErrConfiguration:     "configuration",
}

// Exit codes (only meaningful for the server binary itself):
//
//	Exit 1: runtime errors
//	Exit 2: user input errors
//	Exit 78: configuration errors, matching EX_CONFIG
var exitCodes = map[ErrorKind]int{
	ErrUnknown:           1,
	ErrUnknownCommand:    2,
	ErrUnknownSubcommand: 2,
	ErrInvalidArgument:   2,
	ErrMissingArgument:   2,
	ErrConfiguration:     78,
}

// Error represents a user-facing usage error with semantic type information.
type Error struct {
	Kind    ErrorKind
	Message string
	// Format and Args are the untranslated message, so a translator can
	// render it in the caller's language.
	Format string
	Args   []any
	// Err is the underlying cause, if any.
	Err error
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Format:  format,
		Args:    args,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// GetExitCode returns the exit code the server binary uses for this error.
func (e *Error) GetExitCode() int {
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return 1
}

// String returns a stable name for the kind, used in logs and the command log.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsKind reports whether err is (or wraps) a usage error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or ErrUnknown when err is not a usage error.
func KindOf(err error) ErrorKind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ErrUnknown
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
