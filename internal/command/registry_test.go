package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
)

func noop(c *Context) Result { return OK() }

func mustBuild(t *testing.T, specs ...Spec) *Registry {
	t.Helper()
	reg, err := Build(specs, log.NopLogger{})
	require.NoError(t, err)
	return reg
}

func TestBuild_DepthAndChildren(t *testing.T) {
	// Declared child-first: parents are built on demand.
	reg := mustBuild(t,
		Spec{Key: "a b c", Parent: "a b", Name: "c", New: Func(noop)},
		Spec{Key: "a b", Parent: "a", Name: "b"},
		Spec{Name: "a"},
	)

	a, ok := reg.ByKey("a")
	require.True(t, ok)
	b, _ := reg.ByKey("a b")
	c, _ := reg.ByKey("a b c")

	require.Equal(t, 0, a.Depth())
	require.Equal(t, 1, b.Depth())
	require.Equal(t, 2, c.Depth())
	require.Equal(t, []ID{b.ID()}, a.Children())
	require.Equal(t, []ID{c.ID()}, b.Children())
	require.Equal(t, a.ID(), b.Parent())
	require.Equal(t, NoID, a.Parent())
	require.Equal(t, "a b c", reg.Path(c))
	require.Equal(t, []*Descriptor{a}, reg.Roots())
}

func TestBuild_DerivedKeys(t *testing.T) {
	reg := mustBuild(t,
		Spec{Name: "duel", New: Func(noop)},
		Spec{Parent: "duel", Name: "accept", New: Func(noop)},
	)

	d, ok := reg.ByKey("duel accept")
	require.True(t, ok)
	require.Equal(t, "accept", d.Name())
}

func TestBuild_CircularParentIsFatal(t *testing.T) {
	_, err := Build([]Spec{
		{Key: "x", Parent: "y", Name: "x"},
		{Key: "y", Parent: "z", Name: "y"},
		{Key: "z", Parent: "x", Name: "z"},
	}, log.NopLogger{})

	require.ErrorIs(t, err, ErrCircularParent)
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
		want  error
	}{
		{
			name:  "unknown parent",
			specs: []Spec{{Key: "a", Parent: "missing", Name: "a"}},
			want:  ErrUnknownParent,
		},
		{
			name:  "duplicate key",
			specs: []Spec{{Name: "a", New: Func(noop)}, {Name: "a", New: Func(noop)}},
			want:  ErrDuplicateKey,
		},
		{
			name:  "unknown redirect",
			specs: []Spec{{Name: "a", RedirectTo: "nowhere"}},
			want:  ErrUnknownRedirect,
		},
		{
			name: "redirect cycle",
			specs: []Spec{
				{Name: "a", RedirectTo: "b"},
				{Name: "b", RedirectTo: "c"},
				{Name: "c", RedirectTo: "a"},
			},
			want: ErrRedirectCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.specs, log.NopLogger{})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_RedirectChain(t *testing.T) {
	reg := mustBuild(t,
		Spec{Name: "duel"},
		Spec{Parent: "duel", Name: "accept", New: Func(noop)},
		Spec{Name: "accept", RedirectTo: "yes"},
		Spec{Name: "yes", RedirectTo: "duel accept"},
	)

	accept, _ := reg.Find("accept")
	final, err := reg.ResolveRedirect(accept.ID())
	require.NoError(t, err)
	require.Equal(t, "duel accept", reg.Get(final).Key())
}

func TestBuild_WarnsAboutEmptyCommands(t *testing.T) {
	logger := &recordingLogger{}
	reg, err := Build([]Spec{{Name: "empty"}, {Name: "full", New: Func(noop)}}, logger)

	require.NoError(t, err)
	require.Len(t, reg.Warnings(), 1)
	require.Contains(t, reg.Warnings()[0], `"empty"`)
	require.Len(t, logger.lines, 1)
}

func TestBuild_OnlyOneHelp(t *testing.T) {
	_, err := Build([]Spec{
		{Name: "help", Help: true, New: Func(noop)},
		{Name: "man", Help: true, New: Func(noop)},
	}, log.NopLogger{})
	require.Error(t, err)
}

func TestMergePermission(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
		key   string
		want  Permission
	}{
		{
			name:  "no requirement",
			specs: []Spec{{Name: "a"}},
			key:   "a",
			want:  Permission{Mode: PermissionNone},
		},
		{
			name:  "single default",
			specs: []Spec{{Name: "a", Default: "a.use"}},
			key:   "a",
			want:  Permission{Mode: PermissionSingle, Leaves: []domain.PermissionLeaf{"a.use"}},
		},
		{
			name:  "child inherits parent",
			specs: []Spec{{Name: "a", Default: "a.use"}, {Parent: "a", Name: "b"}},
			key:   "a b",
			want:  Permission{Mode: PermissionSingle, Leaves: []domain.PermissionLeaf{"a.use"}},
		},
		{
			name: "or absorbs parent leaves",
			specs: []Spec{
				{Name: "kit", Default: "kit.use"},
				{Parent: "kit", Name: "give", AnyOf: []domain.PermissionLeaf{"kit.give", "kit.use"}, Default: "kit.admin"},
			},
			key:  "kit give",
			want: Permission{Mode: PermissionAny, Leaves: []domain.PermissionLeaf{"kit.give", "kit.use", "kit.admin"}},
		},
		{
			name: "and stays and without alternatives",
			specs: []Spec{
				{Name: "kit", AllOf: []domain.PermissionLeaf{"kit.use"}},
				{Parent: "kit", Name: "give", AllOf: []domain.PermissionLeaf{"kit.give"}},
			},
			key:  "kit give",
			want: Permission{Mode: PermissionAll, Leaves: []domain.PermissionLeaf{"kit.give", "kit.use"}},
		},
		{
			name: "or up the chain wins over and",
			specs: []Spec{
				{Name: "kit", AnyOf: []domain.PermissionLeaf{"kit.use", "kit.vip"}},
				{Parent: "kit", Name: "give", AllOf: []domain.PermissionLeaf{"kit.give"}},
			},
			key:  "kit give",
			want: Permission{Mode: PermissionAny, Leaves: []domain.PermissionLeaf{"kit.give", "kit.use", "kit.vip"}},
		},
		{
			name: "or two levels up wins over and",
			specs: []Spec{
				{Name: "a", AnyOf: []domain.PermissionLeaf{"a.x", "a.y"}},
				{Parent: "a", Name: "b", Default: "b.use"},
				{Parent: "a b", Name: "c", AllOf: []domain.PermissionLeaf{"c.one", "c.two"}},
			},
			key:  "a b c",
			want: Permission{Mode: PermissionAny, Leaves: []domain.PermissionLeaf{"c.one", "c.two", "b.use"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.specs {
				tt.specs[i].New = Func(noop)
			}
			reg := mustBuild(t, tt.specs...)
			d, ok := reg.ByKey(tt.key)
			require.True(t, ok)
			if tt.want.Mode == PermissionNone {
				require.False(t, d.Permission().Required())
				return
			}
			require.Equal(t, tt.want, d.Permission())
		})
	}
}

func TestBuild_Families(t *testing.T) {
	reg := mustBuild(t,
		Spec{Name: "perm"},
		Spec{Parent: "perm", Name: "grant", Synchronized: true, New: Func(noop)},
		Spec{Parent: "perm", Name: "revoke", Synchronized: true, New: Func(noop)},
		Spec{Parent: "perm", Name: "list", New: Func(noop)},
		Spec{Parent: "perm grant", Name: "all", New: Func(noop)},
		Spec{Name: "lock", Synchronized: true, New: Func(noop)},
		Spec{Parent: "lock", Name: "sub", New: Func(noop)},
		Spec{Name: "free", New: Func(noop)},
	)

	get := func(key string) *Descriptor {
		d, ok := reg.ByKey(key)
		require.True(t, ok, key)
		return d
	}

	grant, revoke := get("perm grant"), get("perm revoke")
	require.NotNil(t, grant.Family())
	require.Same(t, grant.Family(), revoke.Family())
	require.Same(t, grant.Family(), get("perm grant all").Family())
	require.Nil(t, get("perm list").Family())
	require.Nil(t, get("perm").Family())

	lock := get("lock")
	require.NotNil(t, lock.Family())
	require.Same(t, lock.Family(), get("lock sub").Family())
	require.NotSame(t, lock.Family(), grant.Family())
	require.Nil(t, get("free").Family())
}

func TestFamily_AcquireRespectsContext(t *testing.T) {
	f := newFamily("x")
	require.True(t, f.TryAcquire())
	require.False(t, f.TryAcquire())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, f.Acquire(ctx), context.Canceled)

	f.Release()
	require.NoError(t, f.Acquire(context.Background()))
	f.Release()
}

func TestRegistry_FindByAliasAndPriority(t *testing.T) {
	reg := mustBuild(t,
		Spec{Key: "tp-low", Name: "tp", New: Func(noop)},
		Spec{Key: "teleport", Name: "teleport", Aliases: []string{"TP"}, Priority: 10, New: Func(noop)},
		Spec{Name: "group"},
		Spec{Parent: "group", Name: "Sub", Aliases: []string{"s"}, New: Func(noop)},
	)

	d, ok := reg.Find("tp")
	require.True(t, ok)
	require.Equal(t, "teleport", d.Key())

	group, _ := reg.Find("GROUP")
	sub, ok := reg.FindChild(group, "S")
	require.True(t, ok)
	require.Equal(t, "group Sub", sub.Key())

	_, ok = reg.Find("nope")
	require.False(t, ok)
}

func TestWaitList_Extract(t *testing.T) {
	var l WaitList
	a := &stubWaiter{target: "alice", hasTarget: true}
	b := &stubWaiter{}
	c := &stubWaiter{target: "bob", hasTarget: true}
	l.Add(a)
	l.Add(b)
	l.Add(c)

	got := l.Extract(func(w Waiter) bool { return WaiterMatches(w, "alice") })

	require.Equal(t, []Waiter{a, b}, got)
	require.Equal(t, 1, l.Len())
	require.True(t, l.Contains(c))
	require.False(t, l.Remove(a))
	require.True(t, l.Remove(c))
	require.Equal(t, 0, l.Len())
}

type stubWaiter struct {
	target    domain.CallerID
	hasTarget bool
}

func (s *stubWaiter) Target() (domain.CallerID, bool)    { return s.target, s.hasTarget }
func (s *stubWaiter) BlockOriginal() bool                { return false }
func (s *stubWaiter) AbortOnOtherCommand() bool          { return false }
func (s *stubWaiter) Execute(func() *Context) bool       { return true }
func (s *stubWaiter) Abort() bool                        { return true }
func (s *stubWaiter) Disconnect() bool                   { return true }

type recordingLogger struct {
	log.NopLogger
	lines []string
}

func (r *recordingLogger) Warn(format string, args ...any) {
	r.lines = append(r.lines, format)
}
