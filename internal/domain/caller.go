package domain

import "strings"

// CallerID identifies whoever issued a command. Remote users are keyed by
// their lowercased player name so permissions and cooldowns survive a
// reconnect; the local console uses ConsoleID.
type CallerID string

// ConsoleID is the identity of the local terminal caller.
const ConsoleID CallerID = "@console"

// NewCallerID normalizes a player name into a CallerID.
func NewCallerID(name string) CallerID {
	return CallerID(strings.ToLower(strings.TrimSpace(name)))
}

// String returns the string representation of the CallerID.
func (id CallerID) String() string {
	return string(id)
}

// Caller is a party able to issue commands and receive responses.
type Caller interface {
	// ID returns the stable caller identity.
	ID() CallerID

	// Name returns the display name.
	Name() string

	// Locale returns the caller's BCP 47 language tag, or "" when unknown.
	Locale() string

	// Terminal reports whether the caller is a non-interactive operator
	// (console, scripts). Terminal callers use the administrative locale.
	Terminal() bool

	// Privileged reports whether the caller bypasses permission, cooldown
	// and rate limit checks (an operator who is off duty).
	Privileged() bool

	// Deliver sends already rendered text to the caller.
	Deliver(text string, color Color)
}

// Color is a semantic display color attached to a response.
type Color string

const (
	ColorDefault Color = ""
	ColorInfo    Color = "info"
	ColorSuccess Color = "success"
	ColorWarning Color = "warning"
	ColorError   Color = "error"
	ColorMuted   Color = "muted"
	ColorHeader  Color = "header"
)

// Message is an untranslated response. Key is the English format string,
// which doubles as the catalog key.
type Message struct {
	Key   string
	Args  []any
	Color Color
}

// NewMessage builds a Message with the default color.
func NewMessage(key string, args ...any) Message {
	return Message{Key: key, Args: args}
}

// WithColor returns a copy of m using c.
func (m Message) WithColor(c Color) Message {
	m.Color = c
	return m
}
