package command

import (
	"strings"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// ID addresses a descriptor inside its Registry.
type ID int

// NoID marks the absence of a descriptor (no parent, no redirect).
const NoID ID = -1

// Descriptor is the registered identity of a command or sub-command.
// Descriptors are created by Build and never change afterwards, except for
// their pending wait list.
type Descriptor struct {
	id       ID
	key      string
	name     string
	aliases  []string
	priority int

	parent   ID
	children []ID
	depth    int

	summary  string
	usage    string
	category Category
	flags    []FlagDescriptor
	args     []ArgSpec

	permission Permission
	// orInChain is set when this descriptor or an ancestor declares
	// alternatives.
	orInChain    bool
	synchronized bool
	family       *Family
	// anchor is the family handed to synchronized children when this
	// descriptor is not in a family itself.
	anchor *Family

	redirect ID
	help     bool

	cooldown domain.CooldownPolicy
	isolated domain.CooldownPolicy

	newHandler HandlerFactory
	waits      WaitList
}

func (d *Descriptor) ID() ID                                  { return d.id }
func (d *Descriptor) Key() string                             { return d.key }
func (d *Descriptor) Name() string                            { return d.name }
func (d *Descriptor) Aliases() []string                       { return d.aliases }
func (d *Descriptor) Priority() int                           { return d.priority }
func (d *Descriptor) Parent() ID                              { return d.parent }
func (d *Descriptor) Children() []ID                          { return d.children }
func (d *Descriptor) Depth() int                              { return d.depth }
func (d *Descriptor) Summary() string                         { return d.summary }
func (d *Descriptor) Usage() string                           { return d.usage }
func (d *Descriptor) Category() Category                      { return d.category }
func (d *Descriptor) Flags() []FlagDescriptor                 { return d.flags }
func (d *Descriptor) Args() []ArgSpec                         { return d.args }
func (d *Descriptor) Permission() Permission                  { return d.permission }
func (d *Descriptor) Synchronized() bool                      { return d.synchronized }
func (d *Descriptor) Family() *Family                         { return d.family }
func (d *Descriptor) Redirect() ID                            { return d.redirect }
func (d *Descriptor) IsHelp() bool                            { return d.help }
func (d *Descriptor) Cooldown() domain.CooldownPolicy         { return d.cooldown }
func (d *Descriptor) IsolatedCooldown() domain.CooldownPolicy { return d.isolated }

// Waits returns the descriptor's pending wait list.
func (d *Descriptor) Waits() *WaitList {
	return &d.waits
}

// Executable reports whether the descriptor has a handler of its own.
func (d *Descriptor) Executable() bool {
	return d.newHandler != nil
}

// NewHandler creates a handler for one invocation, or nil when the
// descriptor is not executable.
func (d *Descriptor) NewHandler() Handler {
	if d.newHandler == nil {
		return nil
	}
	return d.newHandler()
}

// Matches reports whether token names the descriptor, ignoring case.
func (d *Descriptor) Matches(token string) bool {
	if strings.EqualFold(d.name, token) {
		return true
	}
	for _, a := range d.aliases {
		if strings.EqualFold(a, token) {
			return true
		}
	}
	return false
}
