package testutil

import (
	"sync"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// Delivery is one message received by a FakeCaller.
type Delivery struct {
	Text  string
	Color domain.Color
}

// FakeCaller records everything delivered to it.
type FakeCaller struct {
	CallerID   domain.CallerID
	CallerName string
	Lang       string
	IsTerminal bool
	IsPriv     bool

	mu       sync.Mutex
	received []Delivery
}

// NewFakeCaller creates a caller named name with id derived from it.
func NewFakeCaller(name string) *FakeCaller {
	return &FakeCaller{CallerID: domain.NewCallerID(name), CallerName: name}
}

func (c *FakeCaller) ID() domain.CallerID { return c.CallerID }
func (c *FakeCaller) Name() string        { return c.CallerName }
func (c *FakeCaller) Locale() string      { return c.Lang }
func (c *FakeCaller) Terminal() bool      { return c.IsTerminal }
func (c *FakeCaller) Privileged() bool    { return c.IsPriv }

// Deliver records the message.
func (c *FakeCaller) Deliver(text string, color domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, Delivery{Text: text, Color: color})
}

// Received returns a copy of every delivered message.
func (c *FakeCaller) Received() []Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Delivery(nil), c.received...)
}

// Texts returns the text of every delivered message.
func (c *FakeCaller) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.received))
	for i, d := range c.received {
		out[i] = d.Text
	}
	return out
}

// Last returns the most recent message, or an empty Delivery.
func (c *FakeCaller) Last() Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.received) == 0 {
		return Delivery{}
	}
	return c.received[len(c.received)-1]
}

var _ domain.Caller = (*FakeCaller)(nil)
