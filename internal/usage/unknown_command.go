package usage

import "strings"

// UnknownCommand is returned when no top-level command matches the typed name.
func UnknownCommand(command string, suggestions []string) *Error {
	if len(suggestions) > 0 {
		return newError(ErrUnknownCommand, "'%s' is not a command. See '/help'. Did you mean: %s?",
			command, strings.Join(suggestions, ", "))
	}
	return newError(ErrUnknownCommand, "'%s' is not a command. See '/help'.", command)
}

// UnknownSubcommand is returned when a command group has no child matching the token.
func UnknownSubcommand(path, token string, suggestions []string) *Error {
	if len(suggestions) > 0 {
		return newError(ErrUnknownSubcommand, "'%s' is not a subcommand of '%s'. Did you mean: %s?",
			token, path, strings.Join(suggestions, ", "))
	}
	return newError(ErrUnknownSubcommand, "'%s' is not a subcommand of '%s'.", token, path)
}

// NotCommand is returned when input lacks the required command prefix.
func NotCommand() *Error {
	return newError(ErrNotCommand, "Commands start with '/'.")
}
