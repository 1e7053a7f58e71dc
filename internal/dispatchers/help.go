package dispatchers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/footprint-tools/switchboard/internal/command"
	"github.com/footprint-tools/switchboard/internal/domain"
)

// Help output keys, also used as catalog keys.
const (
	MsgHelpTitle    = "Available commands:"
	MsgHelpEntry    = "  /%-18s %s"
	MsgHelpFooter   = "See '/help <command>' for details on a command."
	MsgHelpCommand  = "/%s - %s"
	MsgHelpUsage    = "Usage: %s"
	MsgHelpChildren = "Sub-commands:"
	MsgHelpFlags    = "Flags:"
	MsgHelpArgs     = "Arguments:"
	MsgHelpAliases  = "Aliases: %s"
	MsgHelpRedirect = "Same as /%s."
)

// commandDisplayOrder defines explicit ordering within categories.
// Commands not listed appear alphabetically after listed ones.
var commandDisplayOrder = map[string]int{
	// general
	"help":    1,
	"who":     2,
	"version": 3,
	// play with others
	"duel":      1,
	"roll":      2,
	"broadcast": 3,
	// permissions
	"perm grant":  1,
	"perm revoke": 2,
	"perm list":   3,
}

// HelpTarget resolves the arguments of the help command to the command they
// name, as deep as they match. ok is false when args name nothing.
func HelpTarget(reg *command.Registry, args []string) (*command.Descriptor, bool) {
	if len(args) == 0 {
		return nil, false
	}
	d, ok := reg.Find(args[0])
	if !ok {
		return nil, false
	}
	for _, tok := range args[1:] {
		child, ok := reg.FindChild(d, tok)
		if !ok {
			break
		}
		d = child
	}
	return d, true
}

// collectLeafCommands appends every runnable command under d, descending
// into groups.
func collectLeafCommands(reg *command.Registry, d *command.Descriptor, out *[]*command.Descriptor) {
	if d.Executable() || d.Redirect() != command.NoID {
		*out = append(*out, d)
	}
	for _, child := range reg.Children(d) {
		collectLeafCommands(reg, child, out)
	}
}

// Overview lists the commands the caller of c may run, grouped by category.
func Overview(c *command.Context) []domain.Message {
	reg := c.Registry()

	var leaves []*command.Descriptor
	for _, root := range reg.Roots() {
		collectLeafCommands(reg, root, &leaves)
	}

	grouped := make(map[command.Category][]*command.Descriptor)
	for _, d := range leaves {
		if ok, _, err := c.Satisfies(d.Permission()); err != nil || !ok {
			continue
		}
		grouped[d.Category()] = append(grouped[d.Category()], d)
	}

	out := []domain.Message{domain.NewMessage(MsgHelpTitle).WithColor(domain.ColorHeader)}
	for _, cat := range command.CategoryOrder() {
		cmds := grouped[cat]
		if len(cmds) == 0 {
			continue
		}

		out = append(out, domain.NewMessage("%s", cat.String()).WithColor(domain.ColorHeader))

		sortCommands(reg, cmds)
		for _, d := range cmds {
			out = append(out, domain.NewMessage(MsgHelpEntry, reg.Path(d), summaryOf(reg, d)).WithColor(domain.ColorInfo))
		}
	}
	out = append(out, domain.NewMessage(MsgHelpFooter).WithColor(domain.ColorMuted))
	return out
}

// CommandHelp describes one command: summary, usage, aliases, arguments,
// flags and the sub-commands the caller may run.
func CommandHelp(c *command.Context, d *command.Descriptor) []domain.Message {
	reg := c.Registry()
	path := reg.Path(d)

	out := []domain.Message{domain.NewMessage(MsgHelpCommand, path, summaryOf(reg, d)).WithColor(domain.ColorHeader)}

	if target := reg.Get(d.Redirect()); target != nil {
		out = append(out, domain.NewMessage(MsgHelpRedirect, reg.Path(target)))
	}
	if d.Usage() != "" {
		out = append(out, domain.NewMessage(MsgHelpUsage, d.Usage()).WithColor(domain.ColorInfo))
	}
	if len(d.Aliases()) > 0 {
		out = append(out, domain.NewMessage(MsgHelpAliases, strings.Join(d.Aliases(), ", ")).WithColor(domain.ColorMuted))
	}

	if len(d.Args()) > 0 {
		out = append(out, domain.NewMessage(MsgHelpArgs).WithColor(domain.ColorHeader))
		for _, a := range d.Args() {
			name := "<" + a.Name + ">"
			if !a.Required {
				name = "[" + a.Name + "]"
			}
			out = append(out, domain.NewMessage("  %-24s %s", name, a.Description))
		}
	}

	if len(d.Flags()) > 0 {
		out = append(out, domain.NewMessage(MsgHelpFlags).WithColor(domain.ColorHeader))
		for _, f := range d.Flags() {
			name := strings.Join(f.Names, ", ")
			if f.ValueHint != "" {
				name = name + " " + f.ValueHint
			}
			out = append(out, domain.NewMessage("  %-24s %s", name, f.Description))
		}
	}

	var children []*command.Descriptor
	for _, child := range reg.Children(d) {
		if ok, _, err := c.Satisfies(child.Permission()); err == nil && ok {
			children = append(children, child)
		}
	}
	if len(children) > 0 {
		out = append(out, domain.NewMessage(MsgHelpChildren).WithColor(domain.ColorHeader))
		sortCommands(reg, children)
		for _, child := range children {
			out = append(out, domain.NewMessage("  %-12s %s", child.Name(), summaryOf(reg, child)).WithColor(domain.ColorInfo))
		}
	}
	return out
}

func summaryOf(reg *command.Registry, d *command.Descriptor) string {
	if d.Summary() != "" {
		return d.Summary()
	}
	if target := reg.Get(d.Redirect()); target != nil {
		return fmt.Sprintf("alias of /%s", reg.Path(target))
	}
	return ""
}

// sortCommands orders by explicit display order, then alphabetically.
func sortCommands(reg *command.Registry, cmds []*command.Descriptor) {
	sort.SliceStable(cmds, func(i, j int) bool {
		nameI, nameJ := reg.Path(cmds[i]), reg.Path(cmds[j])
		orderI, hasI := commandDisplayOrder[nameI]
		orderJ, hasJ := commandDisplayOrder[nameJ]
		if hasI && hasJ {
			return orderI < orderJ
		}
		if hasI {
			return true
		}
		if hasJ {
			return false
		}
		return nameI < nameJ
	})
}
