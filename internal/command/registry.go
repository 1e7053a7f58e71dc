package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/footprint-tools/switchboard/internal/domain"
)

var (
	// ErrCircularParent is returned by Build when parents form a loop.
	ErrCircularParent = errors.New("circular parent reference")
	// ErrRedirectCycle is returned when redirects form a loop.
	ErrRedirectCycle = errors.New("redirect cycle")
	// ErrUnknownParent is returned by Build when a parent key is not declared.
	ErrUnknownParent = errors.New("unknown parent")
	// ErrUnknownRedirect is returned by Build when a redirect key is not declared.
	ErrUnknownRedirect = errors.New("unknown redirect target")
	// ErrDuplicateKey is returned by Build when two specs share a key.
	ErrDuplicateKey = errors.New("duplicate command key")
)

// Registry is the arena of descriptors built from a list of specs.
type Registry struct {
	descs    []*Descriptor
	byKey    map[string]ID
	roots    []ID
	help     ID
	warnings []string
}

type builder struct {
	reg      *Registry
	specs    map[string]Spec
	visiting map[string]bool
	logger   domain.Logger
}

// Build turns specs into a Registry. Parents are built before their
// children regardless of declaration order. Problems that make dispatch
// impossible are returned as errors; a command that can do nothing is only
// logged and listed in Warnings.
func Build(specs []Spec, logger domain.Logger) (*Registry, error) {
	b := &builder{
		reg: &Registry{
			byKey: make(map[string]ID, len(specs)),
			help:  NoID,
		},
		specs:    make(map[string]Spec, len(specs)),
		visiting: make(map[string]bool),
		logger:   logger,
	}

	order := make([]string, 0, len(specs))
	for _, s := range specs {
		key := s.resolvedKey()
		if key == "" || s.Name == "" {
			return nil, fmt.Errorf("command spec without a name (key %q)", key)
		}
		if _, dup := b.specs[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		b.specs[key] = s
		order = append(order, key)
	}

	for _, key := range order {
		if _, err := b.build(key); err != nil {
			return nil, err
		}
	}

	if err := b.linkRedirects(); err != nil {
		return nil, err
	}

	for _, d := range b.reg.descs {
		if !d.Executable() && len(d.children) == 0 && d.redirect == NoID {
			msg := fmt.Sprintf("command %q has no handler, sub-commands or redirect", d.key)
			b.reg.warnings = append(b.reg.warnings, msg)
			if logger != nil {
				logger.Warn("registry: %s", msg)
			}
		}
	}

	return b.reg, nil
}

func (b *builder) build(key string) (ID, error) {
	if id, ok := b.reg.byKey[key]; ok {
		return id, nil
	}
	if b.visiting[key] {
		return NoID, fmt.Errorf("%w: %s", ErrCircularParent, key)
	}
	b.visiting[key] = true
	defer delete(b.visiting, key)

	s := b.specs[key]

	parent := NoID
	if s.Parent != "" {
		if _, ok := b.specs[s.Parent]; !ok {
			return NoID, fmt.Errorf("%w %q for %q", ErrUnknownParent, s.Parent, key)
		}
		var err error
		parent, err = b.build(s.Parent)
		if err != nil {
			return NoID, err
		}
	}

	d := &Descriptor{
		id:           ID(len(b.reg.descs)),
		key:          key,
		name:         s.Name,
		aliases:      append([]string(nil), s.Aliases...),
		priority:     s.Priority,
		parent:       parent,
		summary:      s.Summary,
		usage:        s.Usage,
		category:     s.Category,
		flags:        s.Flags,
		args:         s.Args,
		synchronized: s.Synchronized,
		redirect:     NoID,
		help:         s.Help,
		cooldown:     s.Cooldown,
		isolated:     s.IsolatedCooldown,
		newHandler:   s.New,
	}

	var parentPerm Permission
	orAbove := false
	if parent != NoID {
		p := b.reg.descs[parent]
		d.depth = p.depth + 1
		parentPerm = p.permission
		orAbove = p.orInChain
		if !containsID(p.children, d.id) {
			p.children = append(p.children, d.id)
		}
		d.family = familyFor(d, p)
	} else {
		b.reg.roots = append(b.reg.roots, d.id)
		if d.synchronized {
			d.family = newFamily(key)
		}
	}
	d.permission = mergePermission(s, parentPerm, orAbove)
	d.orInChain = orAbove || len(s.AnyOf) > 0

	if d.help {
		if b.reg.help != NoID {
			return NoID, fmt.Errorf("more than one help command: %q and %q", b.reg.descs[b.reg.help].key, key)
		}
		b.reg.help = d.id
	}

	b.reg.descs = append(b.reg.descs, d)
	b.reg.byKey[key] = d.id
	return d.id, nil
}

// familyFor picks the mutual-exclusion handle of a child. A synchronized
// child joins its parent's family, or the family anchored on the parent
// when the parent has none. Other children stay in their parent's family.
func familyFor(d, parent *Descriptor) *Family {
	if !d.synchronized {
		return parent.family
	}
	if parent.family != nil {
		return parent.family
	}
	if parent.anchor == nil {
		parent.anchor = newFamily(parent.key)
	}
	return parent.anchor
}

func (b *builder) linkRedirects() error {
	for _, d := range b.reg.descs {
		target := b.specs[d.key].RedirectTo
		if target == "" {
			continue
		}
		id, ok := b.reg.byKey[target]
		if !ok {
			return fmt.Errorf("%w %q for %q", ErrUnknownRedirect, target, d.key)
		}
		d.redirect = id
	}
	for _, d := range b.reg.descs {
		if _, err := b.reg.ResolveRedirect(d.id); err != nil {
			return err
		}
	}
	return nil
}

// ResolveRedirect follows redirects from id to the final descriptor.
func (r *Registry) ResolveRedirect(id ID) (ID, error) {
	seen := make(map[ID]bool)
	for {
		d := r.Get(id)
		if d == nil {
			return NoID, fmt.Errorf("unknown descriptor %d", id)
		}
		if d.redirect == NoID {
			return id, nil
		}
		if seen[id] {
			return NoID, fmt.Errorf("%w at %q", ErrRedirectCycle, d.key)
		}
		seen[id] = true
		id = d.redirect
	}
}

// Get returns the descriptor with the given id, or nil.
func (r *Registry) Get(id ID) *Descriptor {
	if id < 0 || int(id) >= len(r.descs) {
		return nil
	}
	return r.descs[id]
}

// ByKey returns the descriptor registered under key.
func (r *Registry) ByKey(key string) (*Descriptor, bool) {
	id, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return r.descs[id], true
}

// Help returns the help descriptor, or nil when none is registered.
func (r *Registry) Help() *Descriptor {
	return r.Get(r.help)
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	return r.descs
}

// Roots returns the top-level descriptors.
func (r *Registry) Roots() []*Descriptor {
	return r.resolve(r.roots)
}

// Children returns the sub-commands of d.
func (r *Registry) Children(d *Descriptor) []*Descriptor {
	return r.resolve(d.children)
}

// Warnings returns the non-fatal problems found by Build.
func (r *Registry) Warnings() []string {
	return r.warnings
}

// Find returns the top-level command named token (or aliased as token).
func (r *Registry) Find(token string) (*Descriptor, bool) {
	return r.pick(r.roots, token)
}

// FindChild returns the sub-command of d named token.
func (r *Registry) FindChild(d *Descriptor, token string) (*Descriptor, bool) {
	return r.pick(d.children, token)
}

// pick returns the matching descriptor with the highest priority; the
// first registered wins a tie.
func (r *Registry) pick(ids []ID, token string) (*Descriptor, bool) {
	var best *Descriptor
	for _, id := range ids {
		d := r.descs[id]
		if !d.Matches(token) {
			continue
		}
		if best == nil || d.priority > best.priority {
			best = d
		}
	}
	return best, best != nil
}

// Ancestors returns d's ancestors from the root down, excluding d.
func (r *Registry) Ancestors(d *Descriptor) []*Descriptor {
	var chain []*Descriptor
	for p := r.Get(d.parent); p != nil; p = r.Get(p.parent) {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Path returns the names from the root down to d, space separated.
func (r *Registry) Path(d *Descriptor) string {
	names := make([]string, 0, d.depth+1)
	for _, a := range r.Ancestors(d) {
		names = append(names, a.name)
	}
	return strings.Join(append(names, d.name), " ")
}

// Names returns the names of the given descriptors.
func Names(descs []*Descriptor) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.name
	}
	return out
}

func (r *Registry) resolve(ids []ID) []*Descriptor {
	out := make([]*Descriptor, len(ids))
	for i, id := range ids {
		out[i] = r.descs[id]
	}
	return out
}

func containsID(ids []ID, id ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
