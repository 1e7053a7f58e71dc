package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/testutil"
)

func TestJoinLeave(t *testing.T) {
	d := NewDirectory(nil)
	bob := testutil.NewFakeCaller("Bob")

	require.NoError(t, d.Join(bob))
	require.ErrorIs(t, d.Join(testutil.NewFakeCaller("bob")), ErrNameTaken)
	require.True(t, d.Online("bob"))

	got, ok := d.Find("BOB")
	require.True(t, ok)
	require.Same(t, bob, got)

	require.True(t, d.Leave("bob"))
	require.False(t, d.Leave("bob"))
	require.False(t, d.Online("bob"))
	require.Zero(t, d.Len())
}

func TestAllSortedByName(t *testing.T) {
	d := NewDirectory(nil)
	for _, name := range []string{"carol", "Alice", "bob"} {
		require.NoError(t, d.Join(testutil.NewFakeCaller(name)))
	}

	var names []string
	for _, c := range d.All() {
		names = append(names, c.Name())
	}
	require.Equal(t, []string{"Alice", "bob", "carol"}, names)
}

func TestOnDisconnect(t *testing.T) {
	d := NewDirectory(nil)
	require.NoError(t, d.Join(testutil.NewFakeCaller("bob")))
	require.NoError(t, d.Join(testutil.NewFakeCaller("alice")))

	var order []string
	first := d.OnDisconnect(func(id domain.CallerID) { order = append(order, "first:"+id.String()) })
	d.OnDisconnect(func(id domain.CallerID) {
		require.False(t, d.Online(id), "subscribers run after removal")
		order = append(order, "second:"+id.String())
	})

	d.Leave("bob")
	require.Equal(t, []string{"first:bob", "second:bob"}, order)

	first()
	order = nil
	d.Leave("alice")
	require.Equal(t, []string{"second:alice"}, order)

	order = nil
	d.Leave("nobody")
	require.Empty(t, order)
}
