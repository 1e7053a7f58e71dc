// Package app wires the server's components together.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/footprint-tools/switchboard/internal/actions"
	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/completions"
	"github.com/footprint-tools/switchboard/internal/config"
	"github.com/footprint-tools/switchboard/internal/console"
	"github.com/footprint-tools/switchboard/internal/cooldown"
	"github.com/footprint-tools/switchboard/internal/dispatchers"
	"github.com/footprint-tools/switchboard/internal/format"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/locale"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/mainloop"
	"github.com/footprint-tools/switchboard/internal/paths"
	"github.com/footprint-tools/switchboard/internal/server"
	"github.com/footprint-tools/switchboard/internal/session"
	"github.com/footprint-tools/switchboard/internal/store"
	"github.com/footprint-tools/switchboard/internal/timer"
	"github.com/footprint-tools/switchboard/internal/ui/style"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// pruneEvery is how often old command log entries are removed.
const pruneEvery = 24 * time.Hour

// Options configures the application factory.
type Options struct {
	Config  config.Getter
	Version string

	// Logger replaces the file logger built from the configuration.
	Logger domain.Logger
	// Styler colors console output; nil leaves it plain.
	Styler domain.Styler
}

// DefaultOptions reads the configuration file and environment.
func DefaultOptions(version string) Options {
	return Options{
		Config:  config.NewProvider().Getter(),
		Version: version,
		Styler:  style.NewStyler(),
	}
}

// Application is the wired server.
type Application struct {
	Logger     domain.Logger
	Store      *store.Store
	Cooldowns  *cooldown.Manager
	Sessions   *session.Directory
	Main       *mainloop.Loop
	Registry   *command.Registry
	Dispatcher *dispatchers.Dispatcher
	Board      *actions.Board
	Operator   *console.Operator
	Console    *console.Console
	// Server is nil when listen_addr is empty.
	Server *server.Server

	listenAddr  string
	consoleMode string
	sweepEvery  time.Duration
	logDays     int

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an Application with all dependencies wired up. Registry and
// catalog problems are returned as usage configuration errors.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Get
	}

	logger := opts.Logger
	if logger == nil {
		logger = newLogger(cfg)
	}
	named := func(component string) domain.Logger {
		if l, ok := logger.(*log.Logger); ok {
			return l.Named(component)
		}
		return logger
	}

	st, err := store.New(cfg.String("db_path", paths.DBPath()), named("store"))
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Application{
		Logger:      logger,
		Store:       st,
		listenAddr:  cfg.String("listen_addr", ""),
		consoleMode: cfg.String("console_mode", console.ModeAuto),
		sweepEvery:  cfg.Seconds("cooldown_sweep_sec", time.Minute),
		logDays:     cfg.Int("command_log_days", 30),
		ctx:         ctx,
		cancel:      cancel,
	}
	if err := a.wire(cfg, opts, named); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Application) wire(cfg config.Getter, opts Options, named func(string) domain.Logger) error {
	a.Cooldowns = cooldown.New(
		cooldown.WithPersister(a.Store.Cooldowns()),
		cooldown.WithLogger(named("cooldown")),
	)
	if n, err := a.Cooldowns.Restore(a.ctx); err != nil {
		a.Logger.Warn("app: restore cooldowns: %v", err)
	} else if n > 0 {
		a.Logger.Info("app: restored %d cooldowns", n)
	}

	catalog, err := locale.NewCatalog()
	if err != nil {
		return usage.Configuration(err)
	}
	resolver := locale.NewResolver(locale.ParseTag(cfg.String("default_locale", "en")))

	a.Sessions = session.NewDirectory(named("session"))
	a.Main = mainloop.New(64, named("main"))
	a.Board = actions.NewBoard(cfg.Int("board_size", 5))

	env := &actions.Env{
		Sessions:    a.Sessions,
		Permissions: a.Store.Permissions(),
		Cooldowns:   a.Cooldowns,
		Board:       a.Board,
		Logger:      named("actions"),
		Version:     func() string { return opts.Version },
		Background:  a.ctx,
	}

	a.Registry, err = command.Build(actions.Specs(env), named("registry"))
	if err != nil {
		return usage.Configuration(err)
	}

	a.Dispatcher = dispatchers.New(a.Registry, dispatchers.Deps{
		Permissions: a.Store.Permissions(),
		Cooldowns:   a.Cooldowns,
		Locale:      resolver,
		Translator:  catalog,
		Timers:      timer.New(),
		Sessions:    a.Sessions,
		Main:        a.Main,
		Recorder:    a.Store.CommandLog(),
		Logger:      named("dispatch"),
	},
		dispatchers.WithRequirePrefix(cfg.Bool("require_prefix", true)),
		dispatchers.WithRateLimit(cfg.Float("rate_limit", 4), cfg.Int("rate_burst", 8)),
		dispatchers.WithHelpAliases(cfg.List("help_aliases")...),
		dispatchers.WithWaitTimeout(cfg.Seconds("wait_timeout_sec", 30*time.Second)),
	)
	env.Dispatch = a.Dispatcher

	styler := opts.Styler
	if styler == nil {
		styler = style.NopStyler{}
	}
	a.Operator = console.NewOperator()
	if err := a.Sessions.Join(a.Operator); err != nil {
		return fmt.Errorf("register console: %w", err)
	}
	a.Console = console.New(a.Dispatcher, a.Operator, styler, named("console"),
		console.WithClock(format.Layout(cfg.String("console_clock", format.Clock24h)), nil),
		console.WithCompleter(completions.Completer(a.Registry)),
		console.WithRoster(a.roster))

	if a.listenAddr != "" {
		srvOpts := []server.Option{
			server.WithOperators(cfg.List("operators")...),
			server.WithGreeter(a.greet),
		}
		if origins := cfg.List("allowed_origins"); len(origins) > 0 {
			srvOpts = append(srvOpts, server.WithOrigins(origins...))
		}
		a.Server = server.New(a.Dispatcher, a.Sessions, named("server"), srvOpts...)
	}
	return nil
}

// newLogger opens the rotating log file, or returns a NopLogger when
// logging is disabled or the file cannot be opened.
func newLogger(cfg config.Getter) domain.Logger {
	if !cfg.Bool("enable_log", true) {
		return log.NopLogger{}
	}
	rot := log.DefaultRotation
	rot.MaxSizeMB = cfg.Int("log_max_size_mb", rot.MaxSizeMB)

	l, err := log.New(cfg.String("log_path", paths.LogFilePath()), log.ParseLevel(cfg.String("log_level", "info")), rot)
	if err != nil {
		return log.NopLogger{}
	}
	log.SetDefault(l)
	return l
}

// greet shows the latest announcements to a player who just joined.
func (a *Application) greet(caller domain.Caller) {
	var recent []actions.Announcement
	if err := a.Main.Do(a.ctx, func() { recent = a.Board.Recent() }); err != nil {
		return
	}
	for _, an := range recent {
		a.Dispatcher.Tell(caller, domain.NewMessage(actions.MsgBroadcast, an.From, an.Text).WithColor(domain.ColorMuted))
	}
}

// roster lists the online players by name.
func (a *Application) roster() []string {
	callers := a.Sessions.All()
	names := make([]string, 0, len(callers))
	for _, c := range callers {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Run serves until ctx is done or the operator quits the console.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Main.Run(ctx)
		return nil
	})
	g.Go(func() error {
		a.Cooldowns.Run(ctx, a.sweepEvery)
		return nil
	})
	g.Go(func() error {
		a.pruneCommandLog(ctx)
		return nil
	})
	if a.Server != nil {
		g.Go(func() error {
			return a.Server.ListenAndServe(ctx, a.listenAddr)
		})
	}
	g.Go(func() error {
		err := a.Console.Run(ctx, a.consoleMode)
		cancel()
		return err
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

func (a *Application) pruneCommandLog(ctx context.Context) {
	if a.logDays <= 0 {
		return
	}
	prune := func() {
		cutoff := time.Now().AddDate(0, 0, -a.logDays)
		n, err := a.Store.CommandLog().Prune(ctx, cutoff)
		switch {
		case err != nil && ctx.Err() == nil:
			a.Logger.Warn("app: prune command log: %v", err)
		case n > 0:
			a.Logger.Info("app: pruned %d command log entries", n)
		}
	}

	prune()
	ticker := time.NewTicker(pruneEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}

// Close cleans up application resources.
func (a *Application) Close() error {
	a.cancel()
	if a.Dispatcher != nil {
		a.Dispatcher.Shutdown()
	}
	if a.Server != nil {
		a.Server.Close()
	}
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.Logger != nil {
		errs = append(errs, a.Logger.Close())
	}
	return errors.Join(errs...)
}
