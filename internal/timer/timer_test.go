package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAfterFuncFires(t *testing.T) {
	f := New()
	fired := make(chan struct{})

	f.AfterFunc(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	require.Eventually(t, func() bool { return f.Pending() == 0 }, time.Second, time.Millisecond)
}

func TestStopPreventsFiring(t *testing.T) {
	f := New()
	fired := make(chan struct{}, 1)

	tm := f.AfterFunc(time.Hour, func() { fired <- struct{}{} })
	require.Equal(t, 1, f.Pending())

	require.True(t, tm.Stop())
	require.False(t, tm.Stop())
	require.Zero(t, f.Pending())

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	default:
	}
}
