package command

import (
	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/usage"
)

// HasPermission reports whether the caller holds leaf. Results are cached
// for the lifetime of the invocation; privileged callers hold everything.
func (c *Context) HasPermission(leaf domain.PermissionLeaf) (bool, error) {
	if c.caller != nil && c.caller.Privileged() {
		return true, nil
	}

	c.permMu.Lock()
	if v, ok := c.permCache[leaf]; ok {
		c.permMu.Unlock()
		return v, nil
	}
	c.permMu.Unlock()

	if c.perms == nil {
		return false, nil
	}
	ok, err := c.perms.HasPermission(c.ctx, c.caller, leaf)
	if err != nil {
		return false, err
	}

	c.permMu.Lock()
	c.permCache[leaf] = ok
	c.permChecks++
	c.permMu.Unlock()
	return ok, nil
}

// PermissionChecks returns how many leaves were looked up (cache misses).
func (c *Context) PermissionChecks() int {
	c.permMu.Lock()
	defer c.permMu.Unlock()
	return c.permChecks
}

// HasAll reports whether every leaf is held, stopping at the first denial,
// which is returned.
func (c *Context) HasAll(leaves ...domain.PermissionLeaf) (bool, domain.PermissionLeaf, error) {
	for _, leaf := range leaves {
		ok, err := c.HasPermission(leaf)
		if err != nil {
			return false, leaf, err
		}
		if !ok {
			return false, leaf, nil
		}
	}
	return true, "", nil
}

// HasAny reports whether at least one leaf is held, trying them in order
// and stopping at the first grant.
func (c *Context) HasAny(leaves ...domain.PermissionLeaf) (bool, error) {
	for _, leaf := range leaves {
		ok, err := c.HasPermission(leaf)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return len(leaves) == 0, nil
}

// Satisfies checks a merged descriptor requirement and returns the leaves
// to report when it is not met.
func (c *Context) Satisfies(p Permission) (bool, []domain.PermissionLeaf, error) {
	switch p.Mode {
	case PermissionNone:
		return true, nil, nil
	case PermissionAny:
		ok, err := c.HasAny(p.Leaves...)
		return ok, p.Leaves, err
	default:
		ok, denied, err := c.HasAll(p.Leaves...)
		if ok || err != nil {
			return ok, nil, err
		}
		return false, []domain.PermissionLeaf{denied}, nil
	}
}

// AssertPermission denies the invocation unless the caller holds leaf.
//
//	if r, ok := c.AssertPermission("kit.give.others"); !ok {
//		return r
//	}
func (c *Context) AssertPermission(leaf domain.PermissionLeaf) (Result, bool) {
	return c.AssertAll(leaf)
}

// AssertAll denies the invocation unless every leaf is held.
func (c *Context) AssertAll(leaves ...domain.PermissionLeaf) (Result, bool) {
	ok, denied, err := c.HasAll(leaves...)
	if err != nil {
		return Failed(err), false
	}
	if !ok {
		return c.deny([]domain.PermissionLeaf{denied}), false
	}
	return OK(), true
}

// AssertAny denies the invocation unless one of the leaves is held.
func (c *Context) AssertAny(leaves ...domain.PermissionLeaf) (Result, bool) {
	ok, err := c.HasAny(leaves...)
	if err != nil {
		return Failed(err), false
	}
	if !ok {
		return c.deny(leaves), false
	}
	return OK(), true
}

func (c *Context) deny(leaves []domain.PermissionLeaf) Result {
	names := make([]string, len(leaves))
	for i, l := range leaves {
		names[i] = string(l)
	}
	return c.FailWith(usage.PermissionDenied(c.CommandPath(), names))
}

// CommandPath returns the full name of the running command, such as "duel accept".
func (c *Context) CommandPath() string {
	if c.desc == nil {
		return c.parsed.Name
	}
	if c.reg == nil {
		return c.desc.Name()
	}
	return c.reg.Path(c.desc)
}
