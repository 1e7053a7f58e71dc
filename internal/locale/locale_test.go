package locale

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/footprint-tools/switchboard/internal/actions"
	"github.com/footprint-tools/switchboard/internal/dispatchers"
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/testutil"
	"github.com/footprint-tools/switchboard/internal/usage"
)

func TestSeparators(t *testing.T) {
	tests := []struct {
		tag            language.Tag
		decimal, group string
	}{
		{language.English, ".", ","},
		{language.German, ",", "."},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			decimal, group := Separators(tt.tag)
			require.Equal(t, tt.decimal, decimal)
			require.Equal(t, tt.group, group)
		})
	}
}

func TestParseTag(t *testing.T) {
	require.Equal(t, language.MustParse("de-DE"), ParseTag("de_DE"))
	require.Equal(t, language.English, ParseTag(" en "))
	require.Equal(t, language.Und, ParseTag(""))
	require.Equal(t, language.Und, ParseTag("not a tag!"))
}

func TestResolve(t *testing.T) {
	r := NewResolver(language.English)

	player := testutil.NewFakeCaller("Alice")
	player.Lang = "de_DE"
	c := r.Resolve(player)
	require.Equal(t, language.MustParse("de-DE"), c.Tag)
	require.Equal(t, ",", c.Decimal)
	require.Equal(t, ".", c.Group)

	console := testutil.NewFakeCaller("console")
	console.Lang = "de"
	console.IsTerminal = true
	require.Equal(t, language.English, r.Resolve(console).Tag)

	unknown := testutil.NewFakeCaller("Bob")
	unknown.Lang = "???"
	require.Equal(t, language.English, r.Resolve(unknown).Tag)

	require.Equal(t, language.English, r.Resolve(nil).Tag)
}

func TestNewResolverDefaultsToEnglish(t *testing.T) {
	r := NewResolver(language.Und)
	require.Equal(t, language.English, r.Resolve(nil).Tag)
}

func TestCatalogRender(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)
	require.Contains(t, c.Languages(), language.German)

	msg := domain.NewMessage(actions.MsgPermCleared, 1000, "bob").WithColor(domain.ColorSuccess)

	text, color := c.Render(language.English, msg)
	require.Equal(t, "Removed 1,000 permission(s) from bob.", text)
	require.Equal(t, domain.ColorSuccess, color)

	text, _ = c.Render(language.MustParse("de-DE"), msg)
	require.Equal(t, "1.000 Berechtigung(en) von bob entfernt.", text)

	// No French translations, so the English key is used.
	text, _ = c.Render(language.French, domain.NewMessage(dispatchers.MsgDone))
	require.Equal(t, "Done.", text)

	text, _ = c.Render(language.German, domain.NewMessage("plain %s", "text"))
	require.Equal(t, "plain text", text)
}

func TestCatalogAdd(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	msg := domain.NewMessage(dispatchers.MsgDone)
	text, _ := c.Render(language.Dutch, msg)
	require.Equal(t, "Done.", text)

	require.NoError(t, c.Add(language.Dutch, map[string]string{dispatchers.MsgDone: "Klaar."}))
	text, _ = c.Render(language.Dutch, msg)
	require.Equal(t, "Klaar.", text)
}

func TestGermanCoversEveryMessage(t *testing.T) {
	keys := []string{
		dispatchers.MsgDone, dispatchers.MsgAborted, dispatchers.MsgFault,
		dispatchers.MsgHelpTitle, dispatchers.MsgHelpFooter, dispatchers.MsgHelpUsage,
		dispatchers.MsgHelpChildren, dispatchers.MsgHelpFlags, dispatchers.MsgHelpArgs,
		dispatchers.MsgHelpAliases, dispatchers.MsgHelpRedirect,

		actions.MsgVersion, actions.MsgWho, actions.MsgWhoEmpty, actions.MsgNothingToConfirm,
		actions.MsgCooldownReset, actions.MsgRolled, actions.MsgBroadcast,
		actions.MsgDutyNotOperator, actions.MsgDutyOn, actions.MsgDutyOff,
		actions.MsgPermGranted, actions.MsgPermRevoked, actions.MsgPermNotHeld,
		actions.MsgPermList, actions.MsgPermListEmpty, actions.MsgPermClearAsk,
		actions.MsgPermCleared, actions.MsgPermClearStale,
		actions.MsgDuelOffline, actions.MsgDuelSelf, actions.MsgDuelBusy, actions.MsgDuelSent,
		actions.MsgDuelInvite, actions.MsgDuelWon, actions.MsgDuelDenied, actions.MsgDuelYouDenied,
		actions.MsgDuelNoAnswer, actions.MsgDuelExpired, actions.MsgDuelLeft, actions.MsgDuelNoneToTake,
	}
	for _, err := range []*usage.Error{
		usage.PermissionDenied("x", nil),
		usage.PermissionDenied("x", []string{"y"}),
		usage.CooldownActive("x", 0),
		usage.RateLimited(),
		usage.Cancelled("x"),
		usage.InvalidArgument("x", "y"),
		usage.MissingArgument("x"),
		usage.UnknownCommand("x", nil),
		usage.UnknownCommand("x", []string{"y"}),
		usage.UnknownSubcommand("x", "y", nil),
		usage.UnknownSubcommand("x", "y", []string{"z"}),
		usage.NotCommand(),
	} {
		keys = append(keys, err.Format)
	}

	for _, key := range keys {
		_, ok := german[key]
		require.True(t, ok, "no German translation for %q", key)
	}
}
