package command

import "github.com/footprint-tools/switchboard/internal/domain"

// PermissionMode says how the leaves of a Permission combine.
type PermissionMode int

const (
	PermissionNone PermissionMode = iota
	PermissionSingle
	PermissionAny
	PermissionAll
)

func (m PermissionMode) String() string {
	switch m {
	case PermissionSingle:
		return "single"
	case PermissionAny:
		return "any"
	case PermissionAll:
		return "all"
	default:
		return "none"
	}
}

// Permission is the merged requirement of a descriptor.
type Permission struct {
	Mode   PermissionMode
	Leaves []domain.PermissionLeaf
}

// Required reports whether any leaf is needed.
func (p Permission) Required() bool {
	return p.Mode != PermissionNone && len(p.Leaves) > 0
}

// Strings returns the leaves as strings.
func (p Permission) Strings() []string {
	out := make([]string, len(p.Leaves))
	for i, l := range p.Leaves {
		out[i] = string(l)
	}
	return out
}

// mergePermission combines a spec's own declaration with its parent's merged
// requirement. Alternatives absorb the parent's leaves into an OR set. An
// AND set stays AND unless some ancestor declared alternatives (orAbove),
// even one whose own merged mode was later narrowed. A lone default leaf
// stands on its own, and nothing declared inherits the parent.
func mergePermission(s Spec, parent Permission, orAbove bool) Permission {
	switch {
	case len(s.AnyOf) > 0:
		leaves := append(append([]domain.PermissionLeaf{}, s.AnyOf...), s.Default)
		leaves = append(leaves, parent.Leaves...)
		return Permission{Mode: PermissionAny, Leaves: dedupLeaves(leaves)}

	case len(s.AllOf) > 0:
		leaves := append(append([]domain.PermissionLeaf{}, s.AllOf...), s.Default)
		leaves = append(leaves, parent.Leaves...)
		mode := PermissionAll
		if orAbove {
			mode = PermissionAny
		}
		return Permission{Mode: mode, Leaves: dedupLeaves(leaves)}

	case s.Default != "":
		return Permission{Mode: PermissionSingle, Leaves: []domain.PermissionLeaf{s.Default}}

	default:
		return Permission{Mode: parent.Mode, Leaves: append([]domain.PermissionLeaf(nil), parent.Leaves...)}
	}
}

func dedupLeaves(leaves []domain.PermissionLeaf) []domain.PermissionLeaf {
	seen := make(map[domain.PermissionLeaf]bool, len(leaves))
	out := make([]domain.PermissionLeaf, 0, len(leaves))
	for _, l := range leaves {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
