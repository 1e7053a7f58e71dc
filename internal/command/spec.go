// Package command holds the command registry (descriptors, permissions,
// synchronized families, pending wait lists) and the per-invocation
// Context handed to handlers.
package command

import "github.com/footprint-tools/switchboard/internal/domain"

// Spec declares one command or sub-command. Specs are listed explicitly and
// turned into descriptors by Build.
type Spec struct {
	// Key identifies the spec. When empty it is derived from the parent key
	// and Name, separated by a space ("duel accept").
	Key string
	// Parent is the key of the parent spec, empty for top-level commands.
	Parent string

	Name     string
	Aliases  []string
	Priority int

	Summary  string
	Usage    string
	Category Category
	Flags    []FlagDescriptor
	Args     []ArgSpec

	// Default is the single leaf required to run the command.
	Default domain.PermissionLeaf
	// AnyOf lists alternatives, one of which is enough.
	AnyOf []domain.PermissionLeaf
	// AllOf lists leaves that are all required.
	AllOf []domain.PermissionLeaf

	// Synchronized puts the command in a mutual-exclusion family shared
	// with its synchronized siblings and its own sub-tree.
	Synchronized bool

	// RedirectTo hands execution to the command with that key.
	RedirectTo string

	// Help marks the help command, the target of "<command> help".
	Help bool

	Cooldown         domain.CooldownPolicy
	IsolatedCooldown domain.CooldownPolicy

	// New creates a fresh handler for each invocation.
	New HandlerFactory
}

func (s Spec) resolvedKey() string {
	if s.Key != "" {
		return s.Key
	}
	if s.Parent != "" {
		return s.Parent + " " + s.Name
	}
	return s.Name
}

// FlagDescriptor documents a flag for help output.
type FlagDescriptor struct {
	Names       []string
	ValueHint   string
	Description string
}

// ArgSpec documents a positional argument for help output.
type ArgSpec struct {
	Name        string
	Description string
	Required    bool
}
