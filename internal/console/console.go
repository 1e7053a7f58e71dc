// Package console is the local operator's transport: an interactive
// terminal UI when attached to a TTY, plain line-by-line input otherwise.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/footprint-tools/switchboard/internal/dispatchers"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/format"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/tokenizer"
)

// Modes accepted by Run.
const (
	ModeAuto = "auto"
	ModeUI   = "ui"
	ModeLine = "line"
	ModeOff  = "off"
)

// Executor runs parsed input for a caller.
type Executor interface {
	ExecuteParsed(ctx context.Context, caller domain.Caller, parsed tokenizer.ParsedCommand) dispatchers.Report
}

// Console reads operator input and prints responses.
type Console struct {
	exec   Executor
	caller *Operator
	styler domain.Styler
	logger domain.Logger
	stamp  func(string) string
	// complete suggests full lines for partial input in the UI.
	complete func(string) []string
	// roster lists online players beside the UI scrollback.
	roster func() []string
}

// Option configures a Console.
type Option func(*Console)

// WithClock prefixes every response with the time in layout (see
// format.Layout). now may be nil.
func WithClock(layout string, now func() time.Time) Option {
	return func(c *Console) {
		c.stamp = format.Clock(layout, now)
	}
}

// WithCompleter offers fn's suggestions in the UI; Tab accepts one.
func WithCompleter(fn func(string) []string) Option {
	return func(c *Console) {
		c.complete = fn
	}
}

// WithRoster shows fn's names in a sidebar of the UI.
func WithRoster(fn func() []string) Option {
	return func(c *Console) {
		c.roster = fn
	}
}

// New creates a console for caller.
func New(exec Executor, caller *Operator, styler domain.Styler, logger domain.Logger, opts ...Option) *Console {
	if logger == nil {
		logger = log.NopLogger{}
	}
	c := &Console{exec: exec, caller: caller, styler: styler, logger: logger, stamp: format.Clock("", nil)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run serves the console in the given mode until ctx is done or the
// operator quits. ModeAuto picks the UI when stdin and stdout are both
// terminals. ModeOff blocks until ctx is done.
func (c *Console) Run(ctx context.Context, mode string) error {
	switch ResolveMode(mode, isTerminal(os.Stdin), isTerminal(os.Stdout)) {
	case ModeOff:
		<-ctx.Done()
		return nil
	case ModeUI:
		return c.RunUI(ctx)
	default:
		return c.RunLines(ctx, os.Stdin, os.Stdout)
	}
}

// ResolveMode turns a configured mode into ModeUI, ModeLine or ModeOff.
func ResolveMode(mode string, stdinTTY, stdoutTTY bool) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeOff:
		return ModeOff
	case ModeLine:
		return ModeLine
	case ModeUI:
		if stdinTTY && stdoutTTY {
			return ModeUI
		}
		return ModeLine
	default:
		if stdinTTY && stdoutTTY {
			return ModeUI
		}
		return ModeLine
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isQuit reports whether line asks the console to stop.
func isQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// execute dispatches one line. The console does not need a command prefix.
func (c *Console) execute(ctx context.Context, line string) {
	parsed := tokenizer.Parse(line, false)
	if !parsed.IsCommand() {
		return
	}
	c.logger.Debug("console: %s", line)
	c.exec.ExecuteParsed(ctx, c.caller, parsed)
}

// RunLines reads commands from in, one per line, and writes responses to
// out. It returns at end of input, on "exit" or when ctx is done.
func (c *Console) RunLines(ctx context.Context, in io.Reader, out io.Writer) error {
	var mu sync.Mutex
	c.caller.attach(func(text string, color domain.Color) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintln(out, c.styler.Paint(color, c.stamp(text)))
	})
	defer c.caller.attach(nil)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("read console input: %w", err)
					}
				default:
				}
				return nil
			}
			if isQuit(line) {
				return nil
			}
			c.execute(ctx, line)
		}
	}
}
