package usage

import (
	"strings"
	"time"
)

// PermissionDenied is returned when the caller lacks the leaves a command requires.
func PermissionDenied(command string, leaves []string) *Error {
	if len(leaves) > 0 {
		return newError(ErrPermissionDenied, "You do not have permission to use '%s' (%s).",
			command, strings.Join(leaves, ", "))
	}
	return newError(ErrPermissionDenied, "You do not have permission to use '%s'.", command)
}

// CooldownActive is returned when the command is still cooling down for the caller.
func CooldownActive(command string, remaining time.Duration) *Error {
	return newError(ErrCooldownActive, "'%s' is on cooldown for %s.", command, remaining.Round(time.Second).String())
}

// RateLimited is returned when the caller sends commands faster than allowed.
func RateLimited() *Error {
	return newError(ErrRateLimited, "You are sending commands too quickly.")
}

// Cancelled is returned when an invocation was cancelled before it finished.
func Cancelled(command string) *Error {
	return newError(ErrCancelled, "'%s' was cancelled.", command)
}

// InvalidArgument is returned when an argument could not be parsed.
func InvalidArgument(arg, want string) *Error {
	return newError(ErrInvalidArgument, "Invalid argument '%s', expected %s.", arg, want)
}

// MissingArgument is returned when a required argument is not provided.
func MissingArgument(arg string) *Error {
	return newError(ErrMissingArgument, "Missing required argument '%s'.", arg)
}

// Configuration wraps a fatal registry or startup configuration problem.
func Configuration(err error) *Error {
	e := newError(ErrConfiguration, "configuration error: %s", err.Error())
	e.Err = err
	return e
}
