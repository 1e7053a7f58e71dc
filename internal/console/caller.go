package console

import (
	"sync"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// Operator is the local terminal caller. It starts off duty, so the
// console is privileged until /duty puts it on duty.
type Operator struct {
	mu      sync.Mutex
	onDuty  bool
	deliver func(text string, color domain.Color)
}

// NewOperator creates the console caller. Output is discarded until a
// console attaches.
func NewOperator() *Operator {
	return &Operator{}
}

func (o *Operator) ID() domain.CallerID { return domain.ConsoleID }
func (o *Operator) Name() string        { return "console" }
func (o *Operator) Locale() string      { return "" }
func (o *Operator) Terminal() bool      { return true }
func (o *Operator) Operator() bool      { return true }

func (o *Operator) Privileged() bool { return !o.OnDuty() }

func (o *Operator) OnDuty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.onDuty
}

func (o *Operator) SetOnDuty(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onDuty = on
}

// Deliver hands the message to the attached console.
func (o *Operator) Deliver(text string, color domain.Color) {
	o.mu.Lock()
	fn := o.deliver
	o.mu.Unlock()
	if fn != nil {
		fn(text, color)
	}
}

// attach routes deliveries to fn; nil detaches.
func (o *Operator) attach(fn func(text string, color domain.Color)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliver = fn
}

var _ domain.Caller = (*Operator)(nil)
