package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/switchboard/internal/dispatchers"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/session"
)

// echo answers every command with its text.
type echo struct {
	mu      sync.Mutex
	callers []domain.Caller
}

func (e *echo) ExecuteText(_ context.Context, caller domain.Caller, text string) dispatchers.Report {
	e.mu.Lock()
	e.callers = append(e.callers, caller)
	e.mu.Unlock()
	caller.Deliver("echo: "+text, domain.ColorInfo)
	return dispatchers.Report{Handled: true}
}

func (e *echo) last() domain.Caller {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callers[len(e.callers)-1]
}

type fixture struct {
	exec     *echo
	sessions *session.Directory
	srv      *Server
	url      string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{exec: &echo{}, sessions: session.NewDirectory(nil)}
	f.srv = New(f.exec, f.sessions, nil, opts...)
	hs := httptest.NewServer(f.srv.Handler())
	t.Cleanup(func() {
		f.srv.Close()
		hs.Close()
	})
	f.url = "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	return f
}

func (f *fixture) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(f.url+"?"+query, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestCommandRoundTrip(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "name=Alice&locale=de-DE")

	require.NoError(t, conn.WriteJSON(Frame{Type: FrameCommand, Text: " /roll 20 "}))
	got := readFrame(t, conn)
	require.Equal(t, Frame{Type: FrameMessage, Text: "echo: /roll 20", Color: "info"}, got)

	caller := f.exec.last()
	require.Equal(t, domain.CallerID("alice"), caller.ID())
	require.Equal(t, "Alice", caller.Name())
	require.Equal(t, "de-DE", caller.Locale())
	require.False(t, caller.Terminal())
	require.False(t, caller.Privileged())
	require.True(t, f.sessions.Online("alice"))
}

func TestPingAndBadFrames(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "name=bob")

	require.NoError(t, conn.WriteJSON(Frame{Type: FramePing}))
	require.Equal(t, FramePong, readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(Frame{Type: "dance"}))
	got := readFrame(t, conn)
	require.Equal(t, FrameError, got.Type)
	require.Contains(t, got.Text, "dance")

	for _, raw := range []string{"{not json", `{"type": 7}`, `{"type":`, ""} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
		require.Equal(t, Frame{Type: FrameError, Text: "malformed frame"}, readFrame(t, conn), raw)
	}

	// The session survives malformed input.
	require.NoError(t, conn.WriteJSON(Frame{Type: FrameCommand, Text: "/who"}))
	require.Equal(t, "echo: /who", readFrame(t, conn).Text)
}

func TestRejectsBadNames(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"", "name=", "name=has+space", "name=" + strings.Repeat("x", 17)} {
		t.Run(q, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(f.url+"?"+q, nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRejectsNameAlreadyOnline(t *testing.T) {
	f := newFixture(t)
	f.dial(t, "name=carol")
	require.Eventually(t, func() bool { return f.sessions.Online("carol") }, time.Second, 5*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(f.url+"?name=CAROL", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestClosingLeavesSession(t *testing.T) {
	f := newFixture(t)

	left := make(chan domain.CallerID, 1)
	f.sessions.OnDisconnect(func(id domain.CallerID) { left <- id })

	conn := f.dial(t, "name=dave")
	require.Eventually(t, func() bool { return f.sessions.Online("dave") }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))

	select {
	case id := <-left:
		require.Equal(t, domain.CallerID("dave"), id)
	case <-time.After(2 * time.Second):
		t.Fatal("session was not removed")
	}
	require.False(t, f.sessions.Online("dave"))
}

func TestGreeterAndOperators(t *testing.T) {
	greeted := make(chan domain.Caller, 1)
	f := newFixture(t,
		WithOperators("Erin"),
		WithGreeter(func(c domain.Caller) {
			c.Deliver("welcome "+c.Name(), domain.ColorHeader)
			greeted <- c
		}),
	)

	conn := f.dial(t, "name=erin")
	require.Equal(t, Frame{Type: FrameMessage, Text: "welcome erin", Color: "header"}, readFrame(t, conn))

	c := <-greeted
	op, ok := c.(interface {
		Operator() bool
		OnDuty() bool
		SetOnDuty(bool)
	})
	require.True(t, ok)
	require.True(t, op.Operator())
	require.True(t, op.OnDuty())
	require.False(t, c.Privileged())

	op.SetOnDuty(false)
	require.True(t, c.Privileged())
}

func TestAcceptLanguageFallback(t *testing.T) {
	f := newFixture(t)

	header := http.Header{"Accept-Language": []string{"de-CH, en;q=0.5"}}
	conn, resp, err := websocket.DefaultDialer.Dial(f.url+"?name=frank", header)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Frame{Type: FrameCommand, Text: "/version"}))
	readFrame(t, conn)
	require.Equal(t, "de-CH", f.exec.last().Locale())
}

func TestServeStopsWithContext(t *testing.T) {
	srv := New(&echo{}, session.NewDirectory(nil), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRemoteDropsWhenClosed(t *testing.T) {
	r := newRemote("gus", "", false, nil)
	r.close()
	r.Deliver("late", domain.ColorInfo)
	r.close()

	_, ok := <-r.outbox
	require.False(t, ok)
}
