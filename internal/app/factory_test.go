package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/switchboard/internal/actions"
	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/config"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/testutil"
)

func testConfig(t *testing.T, overrides map[string]string) config.Getter {
	t.Helper()
	values := map[string]string{
		"db_path":      filepath.Join(t.TempDir(), "switchboard.db"),
		"listen_addr":  "",
		"console_mode": "off",
		"enable_log":   "false",
	}
	for k, v := range overrides {
		values[k] = v
	}
	return func(key string) (string, bool) {
		if v, ok := values[key]; ok {
			return v, true
		}
		return "", false
	}
}

func newTestApp(t *testing.T, overrides map[string]string) *Application {
	t.Helper()
	a, err := New(Options{Config: testConfig(t, overrides), Version: "9.9.9", Logger: log.NopLogger{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// runMain drives the main loop for the length of the test.
func runMain(t *testing.T, a *Application) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Main.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestNew_WiresComponents(t *testing.T) {
	a := newTestApp(t, nil)

	require.NotNil(t, a.Store)
	require.NotNil(t, a.Dispatcher)
	require.NotNil(t, a.Console)
	require.Nil(t, a.Server)

	_, ok := a.Registry.ByKey("duel")
	require.True(t, ok)
	require.True(t, a.Sessions.Online(domain.ConsoleID))
}

func TestNew_ServerWhenListening(t *testing.T) {
	a := newTestApp(t, map[string]string{"listen_addr": "127.0.0.1:0", "operators": "alice"})
	require.NotNil(t, a.Server)
}

func TestConsoleGrantPersists(t *testing.T) {
	a := newTestApp(t, nil)
	runMain(t, a)

	ctx := context.Background()
	rep := a.Dispatcher.ExecuteText(ctx, a.Operator, "/perm grant bob kit.give")
	require.True(t, rep.Handled)
	require.NotEqual(t, command.StatusError, rep.Status)

	leaves, err := a.Store.Permissions().List(ctx, domain.NewCallerID("bob"))
	require.NoError(t, err)
	require.Equal(t, []domain.PermissionLeaf{"kit.give"}, leaves)

	recent, err := a.Store.CommandLog().Recent(ctx, domain.ConsoleID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t, nil)
	runMain(t, a)

	alice := testutil.NewFakeCaller("Alice")
	require.NoError(t, a.Sessions.Join(alice))

	a.Dispatcher.ExecuteText(context.Background(), alice, "/version")
	require.Contains(t, alice.Last().Text, "9.9.9")
}

func TestGreetShowsBoard(t *testing.T) {
	a := newTestApp(t, nil)
	runMain(t, a)

	a.Board.Post(actions.Announcement{From: "console", Text: "welcome", At: time.Now()})
	bob := testutil.NewFakeCaller("Bob")
	a.greet(bob)

	require.Equal(t, []string{"[Broadcast] console: welcome"}, bob.Texts())
}

func TestRunStopsWithContext(t *testing.T) {
	a := newTestApp(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClose_Idempotent(t *testing.T) {
	a, err := New(Options{Config: testConfig(t, nil), Logger: log.NopLogger{}})
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NotPanics(t, func() { _ = a.Close() })
}

func TestRoster(t *testing.T) {
	a := newTestApp(t, nil)
	require.NoError(t, a.Sessions.Join(testutil.NewFakeCaller("Zed")))
	require.NoError(t, a.Sessions.Join(testutil.NewFakeCaller("Amy")))

	require.Equal(t, []string{"Amy", "Zed", "console"}, a.roster())
}
