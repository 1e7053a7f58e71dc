// Package actions holds the built-in commands of the server.
package actions

import (
	"time"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
)

// Cooldown policies of the built-ins.
var (
	RollCooldown      = domain.CooldownPolicy{Duration: 3 * time.Second}
	BroadcastCooldown = domain.CooldownPolicy{Duration: 30 * time.Second, Multiplier: 2, Max: 10 * time.Minute}
)

// Specs returns the built-in command specs. Handlers read env when they run,
// so env.Dispatch may be filled in after the registry is built.
func Specs(env *Env) []command.Spec {
	d := newDuels(env)

	return []command.Spec{
		{
			Name:     "help",
			Aliases:  []string{"?"},
			Summary:  "List commands or explain one",
			Usage:    "/help [command]",
			Category: command.CategoryGeneral,
			Help:     true,
			Args:     []command.ArgSpec{{Name: "command", Description: "Command to explain"}},
			New:      showHelp(),
		},
		{
			Name:     "version",
			Summary:  "Show the server version",
			Usage:    "/version",
			Category: command.CategoryGeneral,
			New:      showVersion(env),
		},
		{
			Name:     "who",
			Aliases:  []string{"online", "list"},
			Summary:  "List connected players",
			Usage:    "/who",
			Category: command.CategoryGeneral,
			New:      listOnline(env),
		},
		{
			Name:     "confirm",
			Summary:  "Confirm a pending destructive command",
			Usage:    "/confirm",
			Category: command.CategoryGeneral,
			New:      confirmNothing(),
		},

		// Permissions. The whole family runs one invocation at a time.
		{
			Name:         "perm",
			Aliases:      []string{"permission", "perms"},
			Summary:      "Manage permission grants",
			Usage:        "/perm <grant|revoke|list|clear> ...",
			Category:     command.CategoryAdmin,
			Synchronized: true,
		},
		{
			Parent:       "perm",
			Name:         "grant",
			Aliases:      []string{"add"},
			Summary:      "Grant a permission to a player",
			Usage:        "/perm grant <player> <permission>",
			Category:     command.CategoryAdmin,
			Default:      "perm.grant",
			Synchronized: true,
			Args: []command.ArgSpec{
				{Name: "player", Description: "Player name", Required: true},
				{Name: "permission", Description: "Permission such as kit.give or kit.*", Required: true},
			},
			New: permGrant(env),
		},
		{
			Parent:       "perm",
			Name:         "revoke",
			Aliases:      []string{"remove"},
			Summary:      "Revoke a permission from a player",
			Usage:        "/perm revoke <player> <permission>",
			Category:     command.CategoryAdmin,
			Default:      "perm.revoke",
			Synchronized: true,
			Args: []command.ArgSpec{
				{Name: "player", Description: "Player name", Required: true},
				{Name: "permission", Description: "Permission to remove", Required: true},
			},
			New: permRevoke(env),
		},
		{
			Parent:       "perm",
			Name:         "list",
			Summary:      "Show the permissions of a player",
			Usage:        "/perm list [player]",
			Category:     command.CategoryAdmin,
			AnyOf:        []domain.PermissionLeaf{"perm.list", "perm.grant"},
			Synchronized: true,
			Args:         []command.ArgSpec{{Name: "player", Description: "Player name, yourself by default"}},
			New:          permList(env),
		},
		{
			Parent:       "perm",
			Name:         "clear",
			Summary:      "Revoke every permission of a player",
			Usage:        "/perm clear <player>",
			Category:     command.CategoryAdmin,
			AllOf:        []domain.PermissionLeaf{"perm.revoke", "perm.clear"},
			Synchronized: true,
			Args:         []command.ArgSpec{{Name: "player", Description: "Player name", Required: true}},
			New:          permClear(env),
		},

		// Moderation.
		{
			Name:     "cooldown",
			Aliases:  []string{"cd"},
			Summary:  "Manage command cooldowns",
			Usage:    "/cooldown reset [player]",
			Category: command.CategoryModeration,
		},
		{
			Parent:   "cooldown",
			Name:     "reset",
			Summary:  "Clear the cooldowns of a player",
			Usage:    "/cooldown reset [player]",
			Category: command.CategoryModeration,
			Default:  "cooldown.reset",
			Args:     []command.ArgSpec{{Name: "player", Description: "Player name, yourself by default"}},
			New:      resetCooldowns(env),
		},
		{
			Name:     "duty",
			Summary:  "Go on or off duty (operators)",
			Usage:    "/duty",
			Category: command.CategoryModeration,
			New:      toggleDuty(env),
		},

		// Playing with others.
		{
			Name:     "duel",
			Aliases:  []string{"fight"},
			Summary:  "Challenge a player to a duel",
			Usage:    "/duel <player> [-timeout <seconds>]",
			Category: command.CategorySocial,
			Flags: []command.FlagDescriptor{
				{Names: []string{"-t", "-timeout"}, ValueHint: "<seconds>", Description: "How long the challenge stays open"},
			},
			Args: []command.ArgSpec{{Name: "player", Description: "Who to challenge", Required: true}},
			New:  d.challenge(),
		},
		{
			Parent:   "duel",
			Name:     "accept",
			Summary:  "Accept a duel",
			Usage:    "/duel accept",
			Category: command.CategorySocial,
			New:      noPendingDuel(),
		},
		{
			Parent:   "duel",
			Name:     "deny",
			Aliases:  []string{"decline"},
			Summary:  "Decline a duel",
			Usage:    "/duel deny",
			Category: command.CategorySocial,
			New:      noPendingDuel(),
		},
		{
			Name:       "accept",
			RedirectTo: "duel accept",
			Category:   command.CategorySocial,
		},
		{
			Name:       "deny",
			RedirectTo: "duel deny",
			Category:   command.CategorySocial,
		},
		{
			Name:             "broadcast",
			Aliases:          []string{"bc", "announce"},
			Summary:          "Announce something to every player",
			Usage:            "/broadcast <message>",
			Category:         command.CategorySocial,
			Default:          "broadcast",
			IsolatedCooldown: BroadcastCooldown,
			Args:             []command.ArgSpec{{Name: "message", Description: "Text to announce", Required: true}},
			New:              broadcast(env),
		},
		{
			Name:     "roll",
			Aliases:  []string{"dice"},
			Summary:  "Roll dice",
			Usage:    "/roll [sides] [count]",
			Category: command.CategorySocial,
			Cooldown: RollCooldown,
			Args: []command.ArgSpec{
				{Name: "sides", Description: "Faces per die, 6 by default"},
				{Name: "count", Description: "Number of dice, 1 by default"},
			},
			New: roll(env),
		},
	}
}
