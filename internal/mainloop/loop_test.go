package mainloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := New(4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l, cancel
}

func TestDoRunsSerially(t *testing.T) {
	l, _ := startLoop(t)

	var (
		wg      sync.WaitGroup
		running int
		peak    int
		total   int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(context.Background(), func() {
				// No lock: jobs never overlap.
				running++
				if running > peak {
					peak = running
				}
				total++
				running--
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, peak)
	require.Equal(t, 50, total)
}

func TestPanicIsReturned(t *testing.T) {
	l, _ := startLoop(t)

	err := l.Do(context.Background(), func() { panic("boom") })
	require.ErrorContains(t, err, "boom")

	require.NoError(t, l.Do(context.Background(), func() {}), "the loop survives a panic")
}

func TestDoAfterStop(t *testing.T) {
	l, cancel := startLoop(t)
	cancel()

	require.Eventually(t, func() bool {
		return l.Do(context.Background(), func() {}) == ErrStopped
	}, time.Second, time.Millisecond)
}

func TestDoHonorsContextWhenLoopIsBusy(t *testing.T) {
	l := New(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nobody runs the loop, so the job can never be accepted.
	err := l.Do(ctx, func() { t.Fatal("must not run") })
	require.ErrorIs(t, err, context.Canceled)
}
