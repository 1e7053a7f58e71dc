package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"golang.org/x/term"

	"github.com/footprint-tools/switchboard/internal/app"
	"github.com/footprint-tools/switchboard/internal/cli"
	"github.com/footprint-tools/switchboard/internal/config"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/paths"
	"github.com/footprint-tools/switchboard/internal/ui/style"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = config.LoadEnv(paths.EnvFilePath())
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	inv, err := cli.Parse(args)
	if err != nil {
		return fail(stderr, err)
	}

	switch {
	case inv.Help || inv.Command == "help":
		fmt.Fprint(stdout, cli.Help())
		return 0
	case inv.Version || inv.Command == "version":
		fmt.Fprintf(stdout, "sb %s\n", version)
		return 0
	case inv.Command == "config":
		return fail(stderr, runConfig(config.NewProvider(), inv.Args, stdout))
	}

	cfg := inv.Getter(config.Get)
	initStyle(inv, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := app.DefaultOptions(version)
	opts.Config = cfg
	a, err := app.New(opts)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = a.Close() }()

	return fail(stderr, a.Run(ctx))
}

// initStyle enables color when stdout is a terminal and color is on.
func initStyle(inv cli.Invocation, cfg config.Getter) {
	values, err := config.GetAll()
	if err != nil {
		values = map[string]string{}
	}
	for k, v := range inv.Overrides {
		values[k] = v
	}
	enable := term.IsTerminal(int(os.Stdout.Fd())) && cfg.Bool("color", true)
	style.Init(enable, values)
}

// fail prints err and returns its exit code; nil returns 0.
func fail(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, err.Error())
	var ue *usage.Error
	if errors.As(err, &ue) {
		return ue.GetExitCode()
	}
	return 1
}

func runConfig(p domain.ConfigProvider, args []string, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		values, err := p.GetAll()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%s=%s\n", k, values[k])
		}
		return nil
	case "get":
		if len(args) < 2 {
			return usage.MissingArgument("key")
		}
		v, ok := p.Get(args[1])
		if !ok {
			return usage.InvalidArgument(args[1], "a key listed by 'sb config list'")
		}
		fmt.Fprintln(out, v)
		return nil
	case "set":
		if len(args) < 3 {
			return usage.MissingArgument("value")
		}
		if err := p.Set(args[1], args[2]); err != nil {
			return configError(args[1], err)
		}
		fmt.Fprintf(out, "%s=%s\n", args[1], args[2])
		return nil
	case "unset":
		if len(args) < 2 {
			return usage.MissingArgument("key")
		}
		return configError(args[1], p.Unset(args[1]))
	default:
		return usage.UnknownSubcommand("config", args[0], []string{"list", "get", "set", "unset"})
	}
}

// configError reports an unknown key as a usage error.
func configError(key string, err error) error {
	if errors.Is(err, config.ErrUnknownKey) {
		return usage.InvalidArgument(key, "a key listed by 'sb config list'")
	}
	return err
}
