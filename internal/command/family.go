package command

import "context"

// Family is the mutual-exclusion handle shared by a synchronized sub-tree.
// At most one invocation across the family runs at a time.
type Family struct {
	name string
	sem  chan struct{}
}

func newFamily(name string) *Family {
	return &Family{name: name, sem: make(chan struct{}, 1)}
}

// Name returns the key of the descriptor the family was created for.
func (f *Family) Name() string {
	return f.name
}

// Acquire blocks until the family is free or ctx is done.
func (f *Family) Acquire(ctx context.Context) error {
	select {
	case f.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes the family without waiting.
func (f *Family) TryAcquire() bool {
	select {
	case f.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees the family.
func (f *Family) Release() {
	<-f.sem
}
