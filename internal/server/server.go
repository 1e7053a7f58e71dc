// Package server exposes the dispatcher to remote users over websockets.
// Each connection is one session: joining registers the caller in the
// session directory and closing the socket removes it again.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/text/language"

	"github.com/footprint-tools/switchboard/internal/dispatchers"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
)

const (
	pongWait     = 120 * time.Second
	pingPeriod   = pongWait * 9 / 10
	writeWait    = 10 * time.Second
	maxFrameSize = 4096
	// commandQueue bounds the commands read ahead of execution.
	commandQueue = 16
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`)

// Executor runs one line of input for a caller.
type Executor interface {
	ExecuteText(ctx context.Context, caller domain.Caller, text string) dispatchers.Report
}

// Sessions is the session directory as the server uses it.
type Sessions interface {
	Join(caller domain.Caller) error
	Leave(id domain.CallerID) bool
	Online(id domain.CallerID) bool
}

// Option configures a Server.
type Option func(*Server)

// WithOperators marks the named players as operators. They join on duty.
func WithOperators(names ...string) Option {
	return func(s *Server) {
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				s.operators[domain.NewCallerID(n)] = true
			}
		}
	}
}

// WithGreeter runs fn for every caller right after it joined.
func WithGreeter(fn func(domain.Caller)) Option {
	return func(s *Server) { s.greet = fn }
}

// WithOrigins restricts the Origin header of upgrade requests. Without it
// every origin is accepted.
func WithOrigins(origins ...string) Option {
	return func(s *Server) {
		allowed := make(map[string]bool, len(origins))
		for _, o := range origins {
			allowed[strings.ToLower(strings.TrimSpace(o))] = true
		}
		s.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[strings.ToLower(origin)]
		}
	}
}

// Server accepts websocket sessions.
type Server struct {
	exec      Executor
	sessions  Sessions
	logger    domain.Logger
	upgrader  websocket.Upgrader
	operators map[domain.CallerID]bool
	greet     func(domain.Caller)

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	wg    sync.WaitGroup
	ctx   context.Context
	stop  context.CancelFunc
}

// New creates a server that hands input to exec.
func New(exec Executor, sessions Sessions, logger domain.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NopLogger{}
	}
	ctx, stop := context.WithCancel(context.Background())
	s := &Server{
		exec:     exec,
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		operators: make(map[domain.CallerID]bool),
		conns:     make(map[*websocket.Conn]struct{}),
		ctx:       ctx,
		stop:      stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler routes /ws to the websocket endpoint and /healthz to a liveness
// probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ListenAndServe serves on addr until ctx is done, then closes every
// session and waits for them to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("server: listening on %s", ln.Addr())

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

// Close ends every open session and waits for their goroutines.
func (s *Server) Close() {
	s.stop()
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if !namePattern.MatchString(name) {
		http.Error(w, "name must be 1-16 letters, digits or underscores", http.StatusBadRequest)
		return
	}
	if s.sessions.Online(domain.NewCallerID(name)) {
		http.Error(w, "name is already online", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("server: upgrade for %s failed: %v", name, err)
		return
	}

	caller := newRemote(name, requestLocale(r), s.operators[domain.NewCallerID(name)], s.logger)
	if err := s.sessions.Join(caller); err != nil {
		_ = conn.WriteJSON(Frame{Type: FrameError, Text: err.Error()})
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		s.sessions.Leave(caller.id)
		_ = conn.Close()
		return
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.handle(conn, caller)
}

// requestLocale prefers the locale query parameter and falls back to the
// first Accept-Language entry.
func requestLocale(r *http.Request) string {
	if l := strings.TrimSpace(r.URL.Query().Get("locale")); l != "" {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

// handle runs one session: a reader feeding commands, a sequential
// executor and a writer draining the caller's outbox.
func (s *Server) handle(conn *websocket.Conn, caller *remote) {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(s.ctx)
	s.logger.Info("server: %s joined from %s (session %s)", caller.id, conn.RemoteAddr(), caller.session)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.write(conn, caller)
	}()

	if s.greet != nil {
		s.greet(caller)
	}

	commands := make(chan string, commandQueue)
	execDone := make(chan struct{})
	go func() {
		defer close(execDone)
		for text := range commands {
			s.exec.ExecuteText(ctx, caller, text)
		}
	}()

	s.read(conn, caller, commands)

	close(commands)
	cancel()
	<-execDone

	s.sessions.Leave(caller.id)
	caller.close()
	<-writerDone

	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
	s.logger.Info("server: %s left (session %s)", caller.id, caller.session)
}

func (s *Server) read(conn *websocket.Conn, caller *remote, commands chan<- string) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			var syntax *json.SyntaxError
			var mistyped *json.UnmarshalTypeError
			// ReadJSON reports an empty or cut-off message as ErrUnexpectedEOF.
			if errors.As(err, &syntax) || errors.As(err, &mistyped) || errors.Is(err, io.ErrUnexpectedEOF) {
				caller.send(Frame{Type: FrameError, Text: "malformed frame"})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("server: read from %s: %v", caller.id, err)
			}
			return
		}

		switch f.Type {
		case FrameCommand:
			text := strings.TrimSpace(f.Text)
			if text == "" {
				continue
			}
			select {
			case commands <- text:
			default:
				caller.send(Frame{Type: FrameError, Text: "too many pending commands"})
			}
		case FramePing:
			caller.send(Frame{Type: FramePong})
		default:
			caller.send(Frame{Type: FrameError, Text: "unknown frame type: " + f.Type})
		}
	}
}

func (s *Server) write(conn *websocket.Conn, caller *remote) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case f, ok := <-caller.outbox:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(f); err != nil {
				s.logger.Warn("server: write to %s: %v", caller.id, err)
				_ = conn.Close()
				drain(caller.outbox)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = conn.Close()
				drain(caller.outbox)
				return
			}
		}
	}
}

// drain discards frames until the outbox is closed.
func drain(outbox <-chan Frame) {
	for range outbox {
	}
}
