// Package session tracks connected callers and tells subscribers when one
// leaves.
package session

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
)

// ErrNameTaken is returned by Join when a caller with the same id is online.
var ErrNameTaken = errors.New("session: name already in use")

// Directory is the set of connected callers.
type Directory struct {
	mu      sync.RWMutex
	callers map[domain.CallerID]domain.Caller

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(domain.CallerID)

	logger domain.Logger
}

// NewDirectory creates an empty directory.
func NewDirectory(logger domain.Logger) *Directory {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Directory{
		callers: make(map[domain.CallerID]domain.Caller),
		subs:    make(map[int]func(domain.CallerID)),
		logger:  logger,
	}
}

// Join registers caller. Ids are unique among online callers.
func (d *Directory) Join(caller domain.Caller) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.callers[caller.ID()]; ok {
		return ErrNameTaken
	}
	d.callers[caller.ID()] = caller
	d.logger.Info("session: %s joined", caller.ID())
	return nil
}

// Leave removes the caller and notifies disconnect subscribers. It reports
// whether the caller was online.
func (d *Directory) Leave(id domain.CallerID) bool {
	d.mu.Lock()
	_, ok := d.callers[id]
	delete(d.callers, id)
	d.mu.Unlock()
	if !ok {
		return false
	}

	d.logger.Info("session: %s left", id)
	for _, fn := range d.subscribers() {
		fn(id)
	}
	return true
}

func (d *Directory) subscribers() []func(domain.CallerID) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	ids := make([]int, 0, len(d.subs))
	for id := range d.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(domain.CallerID), len(ids))
	for i, id := range ids {
		out[i] = d.subs[id]
	}
	return out
}

// Online reports whether id is connected.
func (d *Directory) Online(id domain.CallerID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.callers[id]
	return ok
}

// Lookup returns the connected caller with id.
func (d *Directory) Lookup(id domain.CallerID) (domain.Caller, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.callers[id]
	return c, ok
}

// Find looks a caller up by display name, ignoring case.
func (d *Directory) Find(name string) (domain.Caller, bool) {
	return d.Lookup(domain.NewCallerID(name))
}

// All returns every connected caller sorted by name.
func (d *Directory) All() []domain.Caller {
	d.mu.RLock()
	out := make([]domain.Caller, 0, len(d.callers))
	for _, c := range d.callers {
		out = append(out, c)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name()) < strings.ToLower(out[j].Name())
	})
	return out
}

// Len returns the number of connected callers.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.callers)
}

// OnDisconnect runs fn after every Leave, in subscription order.
func (d *Directory) OnDisconnect(fn func(domain.CallerID)) func() {
	d.subMu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	d.subMu.Unlock()

	return func() {
		d.subMu.Lock()
		delete(d.subs, id)
		d.subMu.Unlock()
	}
}

var _ domain.SessionDirectory = (*Directory)(nil)
