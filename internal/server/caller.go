package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// outboxSize bounds the frames queued for one connection. A client that
// falls further behind loses messages instead of stalling the dispatcher.
const outboxSize = 64

// remote is a websocket user. Its identity is the player name; the session
// id only tells connections apart in the logs.
type remote struct {
	id      domain.CallerID
	name    string
	locale  string
	session uuid.UUID
	logger  domain.Logger

	mu       sync.Mutex
	operator bool
	onDuty   bool
	closed   bool
	outbox   chan Frame
}

func newRemote(name, locale string, operator bool, logger domain.Logger) *remote {
	return &remote{
		id:       domain.NewCallerID(name),
		name:     name,
		locale:   locale,
		session:  uuid.New(),
		logger:   logger,
		operator: operator,
		onDuty:   true,
		outbox:   make(chan Frame, outboxSize),
	}
}

func (r *remote) ID() domain.CallerID { return r.id }
func (r *remote) Name() string        { return r.name }
func (r *remote) Locale() string      { return r.locale }
func (r *remote) Terminal() bool      { return false }

func (r *remote) Privileged() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.operator && !r.onDuty
}

func (r *remote) Operator() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.operator
}

func (r *remote) OnDuty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onDuty
}

func (r *remote) SetOnDuty(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDuty = on
}

// Deliver queues a message frame without blocking.
func (r *remote) Deliver(text string, color domain.Color) {
	r.send(Frame{Type: FrameMessage, Text: text, Color: string(color)})
}

func (r *remote) send(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.outbox <- f:
	default:
		r.logger.Warn("server: outbox of %s (%s) full, dropping %q", r.id, r.session, f.Text)
	}
}

// close stops further deliveries and lets the writer drain and exit.
func (r *remote) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.outbox)
	}
}
