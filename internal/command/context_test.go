package command

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/testutil"
	"github.com/footprint-tools/switchboard/internal/tokenizer"
	"github.com/footprint-tools/switchboard/internal/usage"
)

func newTestContext(input string, offset int) (*Context, *testutil.FakeCaller) {
	caller := testutil.NewFakeCaller("alice")
	c := NewContext(Options{
		Caller: caller,
		Parsed: tokenizer.Parse(input, false),
		Offset: offset,
	})
	return c, caller
}

func TestContext_Offset(t *testing.T) {
	c, _ := newTestContext("/a b c x y", 2)

	require.Equal(t, []string{"x", "y"}, c.Args())
	require.Equal(t, 2, c.ArgCount())
	require.True(t, c.HasArgs(2))
	require.False(t, c.HasArgs(3))

	arg, ok := c.Arg(0)
	require.True(t, ok)
	require.Equal(t, "x", arg)
	_, ok = c.Arg(2)
	require.False(t, ok)
	_, ok = c.Arg(-1)
	require.False(t, ok)

	require.Equal(t, "x y", c.Rest(0))
	require.Equal(t, "", c.Rest(5))
}

func TestContext_SetOffsetClamps(t *testing.T) {
	c, _ := newTestContext("/cmd one two", 0)

	c.SetOffset(10)
	require.Equal(t, 2, c.Offset())
	require.Empty(t, c.Args())

	c.SetOffset(-3)
	require.Equal(t, 0, c.Offset())
	require.Equal(t, []string{"one", "two"}, c.Args())
}

func TestContext_Input(t *testing.T) {
	c, _ := newTestContext(`@kit give "M4 Kit" --force`, 1)
	require.Equal(t, `/kit give "M4 Kit" --force`, c.Input())
}

func TestContext_MatchFlag(t *testing.T) {
	c, _ := newTestContext("/tp bob -e", 0)

	require.True(t, c.MatchFlag("-e", "e"))
	require.True(t, c.MatchFlag("e"))
	require.True(t, c.MatchFlag("E"))
	require.True(t, c.MatchFlag("--e"))
	require.False(t, c.MatchFlag("x", "-y"))
}

func TestContext_FlagArg(t *testing.T) {
	c, _ := newTestContext("/kick bob -reason spam", 0)

	v, ok := c.FlagArg("reason", "r")
	require.True(t, ok)
	require.Equal(t, "spam", v)

	c, _ = newTestContext("/kick bob spam -reason", 0)
	_, ok = c.FlagArg("reason")
	require.False(t, ok)
}

func TestContext_AnyPermissionStopsAfterDenials(t *testing.T) {
	checker := testutil.NewCountingChecker()
	c := NewContext(Options{Caller: testutil.NewFakeCaller("alice"), Permissions: checker})

	ok, leaves, err := c.Satisfies(Permission{Mode: PermissionAny, Leaves: []domain.PermissionLeaf{"p1", "p2"}})

	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []domain.PermissionLeaf{"p1", "p2"}, leaves)
	require.Equal(t, 2, checker.Count())
	require.Equal(t, 2, c.PermissionChecks())
}

func TestContext_AllPermissionStopsAtFirstDenial(t *testing.T) {
	checker := testutil.NewCountingChecker("p1", "p3")
	c := NewContext(Options{Caller: testutil.NewFakeCaller("alice"), Permissions: checker})

	ok, leaves, err := c.Satisfies(Permission{Mode: PermissionAll, Leaves: []domain.PermissionLeaf{"p1", "p2", "p3"}})

	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []domain.PermissionLeaf{"p2"}, leaves)
	require.Equal(t, 2, checker.Count())
}

func TestContext_PermissionCache(t *testing.T) {
	checker := testutil.NewCountingChecker("p1")
	c := NewContext(Options{Caller: testutil.NewFakeCaller("alice"), Permissions: checker})

	for i := 0; i < 3; i++ {
		ok, err := c.HasPermission("p1")
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, 1, checker.Count())
}

func TestContext_PrivilegedHoldsEverything(t *testing.T) {
	checker := testutil.NewCountingChecker()
	caller := testutil.NewFakeCaller("op")
	caller.IsPriv = true
	c := NewContext(Options{Caller: caller, Permissions: checker})

	ok, err := c.HasPermission("anything")
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, checker.Count())
}

func TestContext_AssertPermissionDenies(t *testing.T) {
	reg := mustBuild(t, Spec{Name: "kit"}, Spec{Parent: "kit", Name: "give", New: Func(noop)})
	give, _ := reg.ByKey("kit give")
	caller := testutil.NewFakeCaller("alice")
	c := NewContext(Options{
		Registry:    reg,
		Descriptor:  give,
		Caller:      caller,
		Permissions: testutil.NewCountingChecker(),
	})

	r, ok := c.AssertPermission("kit.give.others")

	require.False(t, ok)
	require.Equal(t, StatusAborted, r.Status)
	require.True(t, usage.IsKind(r.Err, usage.ErrPermissionDenied))
	require.True(t, c.Responded())
	require.Equal(t, domain.ColorError, caller.Last().Color)
	require.Contains(t, caller.Last().Text, "'kit give'")
	require.Contains(t, caller.Last().Text, "kit.give.others")
}

func TestContext_Responses(t *testing.T) {
	c, caller := newTestContext("/roll", 0)
	require.False(t, c.Responded())

	r := c.Reply("rolled %d", 4)
	require.Equal(t, StatusResponded, r.Status)
	require.True(t, c.Responded())
	require.Equal(t, "rolled 4", caller.Last().Text)

	c.Success("done")
	require.Equal(t, domain.ColorSuccess, caller.Last().Color)

	r = c.SwitchHelp()
	require.NotNil(t, r.Switch)
	require.True(t, r.Switch.Help)
	require.True(t, c.CooldownSkipped())
}

func TestContext_OnMainWithoutExecutor(t *testing.T) {
	c, _ := newTestContext("/x", 0)
	ran := false
	require.NoError(t, c.OnMain(func() { ran = true }))
	require.True(t, ran)
}

func TestArgInt(t *testing.T) {
	c, _ := newTestContext("/n 127 128 -129 255 256 -1 +7 abc 1,000", 0)

	v8, ok := ArgInt[int8](c, 0)
	require.True(t, ok)
	require.Equal(t, int8(127), v8)
	_, ok = ArgInt[int8](c, 1)
	require.False(t, ok)
	_, ok = ArgInt[int8](c, 2)
	require.False(t, ok)

	u8, ok := ArgInt[uint8](c, 3)
	require.True(t, ok)
	require.Equal(t, uint8(255), u8)
	_, ok = ArgInt[uint8](c, 4)
	require.False(t, ok)
	_, ok = ArgInt[uint8](c, 5)
	require.False(t, ok)

	u, ok := ArgInt[uint](c, 6)
	require.True(t, ok)
	require.Equal(t, uint(7), u)

	_, ok = ArgInt[int](c, 7)
	require.False(t, ok)
	_, ok = ArgInt[int](c, 99)
	require.False(t, ok)
}

func TestArgInt_CultureGroups(t *testing.T) {
	c := NewContext(Options{
		Parsed:  tokenizer.Parse("/pay 1.000.000 1,000", false),
		Culture: domain.Culture{Tag: language.German, Decimal: ",", Group: "."},
	})

	n, ok := ArgInt[int64](c, 0)
	require.True(t, ok)
	require.Equal(t, int64(1000000), n)

	_, ok = ArgInt[int64](c, 1)
	require.False(t, ok)
}

func TestArgNumber_GroupShape(t *testing.T) {
	german := domain.Culture{Tag: language.German, Decimal: ",", Group: "."}
	english := domain.Culture{Tag: language.English, Decimal: ".", Group: ","}

	tests := []struct {
		name    string
		culture domain.Culture
		arg     string
		want    int64
		wantOK  bool
	}{
		{name: "german thousands", culture: german, arg: "1.000", want: 1000, wantOK: true},
		{name: "german negative", culture: german, arg: "-12.345.678", want: -12345678, wantOK: true},
		{name: "german decimal point is not a group", culture: german, arg: "1.5", wantOK: false},
		{name: "german short group", culture: german, arg: "1.00", wantOK: false},
		{name: "german leading group", culture: german, arg: ".500", wantOK: false},
		{name: "english thousands", culture: english, arg: "1,000", want: 1000, wantOK: true},
		{name: "english scattered commas", culture: english, arg: "1,0,0", wantOK: false},
		{name: "english oversized first group", culture: english, arg: "1000,000", wantOK: false},
		{name: "english trailing comma", culture: english, arg: "100,", wantOK: false},
		{name: "no separators", culture: english, arg: "1234567", want: 1234567, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(Options{
				Parsed:  tokenizer.Parse("/pay "+tt.arg, false),
				Culture: tt.culture,
			})
			n, ok := ArgInt[int64](c, 0)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, n)
		})
	}
}

func TestArgFloat_GroupShape(t *testing.T) {
	c := NewContext(Options{
		Parsed:  tokenizer.Parse("/f 1.234,5 1.2,5 1,2.5", false),
		Culture: domain.Culture{Decimal: ",", Group: "."},
	})

	f, ok := c.ArgFloat64(0)
	require.True(t, ok)
	require.Equal(t, 1234.5, f)

	_, ok = c.ArgFloat64(1)
	require.False(t, ok)
	_, ok = c.ArgFloat64(2)
	require.False(t, ok)
}

func TestArgFloat(t *testing.T) {
	c, _ := newTestContext("/f 1.5 NaN Inf +Inf 1e3 x", 0)

	f, ok := c.ArgFloat64(0)
	require.True(t, ok)
	require.Equal(t, 1.5, f)

	for i := 1; i <= 3; i++ {
		_, ok = c.ArgFloat64(i)
		require.False(t, ok, "index %d", i)
	}

	f, ok = c.ArgFloat64(4)
	require.True(t, ok)
	require.Equal(t, 1000.0, f)

	_, ok = c.ArgFloat64(5)
	require.False(t, ok)

	f32, ok := c.ArgFloat32(0)
	require.True(t, ok)
	require.Equal(t, float32(1.5), f32)

	c = NewContext(Options{
		Parsed:  tokenizer.Parse("/f 3,25 1e39", false),
		Culture: domain.Culture{Decimal: ",", Group: "."},
	})
	f, ok = c.ArgFloat64(0)
	require.True(t, ok)
	require.Equal(t, 3.25, f)
	_, ok = c.ArgFloat32(1)
	require.False(t, ok, "overflows float32")
}

func TestArgDecimal(t *testing.T) {
	c, _ := newTestContext("/d 0.1 1/3 1e5 0x10 -2.50", 0)

	d, ok := c.ArgDecimal(0)
	require.True(t, ok)
	require.Zero(t, d.Cmp(big.NewRat(1, 10)))

	for i := 1; i <= 3; i++ {
		_, ok = c.ArgDecimal(i)
		require.False(t, ok, "index %d", i)
	}

	d, ok = c.ArgDecimal(4)
	require.True(t, ok)
	require.Zero(t, d.Cmp(big.NewRat(-5, 2)))
}

func TestArgBool(t *testing.T) {
	c, _ := newTestContext("/b YES off t 0 maybe", 0)

	want := []struct {
		v, ok bool
	}{{true, true}, {false, true}, {true, true}, {false, true}, {false, false}}

	for i, w := range want {
		v, ok := c.ArgBool(i)
		require.Equal(t, w.ok, ok, "index %d", i)
		require.Equal(t, w.v, v, "index %d", i)
	}
}

func TestArgUUIDAndDuration(t *testing.T) {
	c, _ := newTestContext("/u 6ba7b810-9dad-11d1-80b4-00c04fd430c8 nope 90 5m -5m", 0)

	id, ok := c.ArgUUID(0)
	require.True(t, ok)
	require.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id.String())
	_, ok = c.ArgUUID(1)
	require.False(t, ok)

	d, ok := c.ArgDuration(2)
	require.True(t, ok)
	require.Equal(t, 90*time.Second, d)
	d, ok = c.ArgDuration(3)
	require.True(t, ok)
	require.Equal(t, 5*time.Minute, d)
	_, ok = c.ArgDuration(4)
	require.False(t, ok)
}

func TestArgEnum(t *testing.T) {
	c, _ := newTestContext("/mode Creative hard", 0)
	modes := map[string]int{"survival": 0, "creative": 1}

	m, ok := ArgEnum(c, 0, modes)
	require.True(t, ok)
	require.Equal(t, 1, m)

	_, ok = ArgEnum(c, 1, modes)
	require.False(t, ok)
}
