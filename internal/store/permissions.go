package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// Wildcard grants every leaf.
const Wildcard domain.PermissionLeaf = "*"

// Permissions stores leaves granted to callers. A grant of "a.*" covers
// every leaf below "a"; a grant of "*" covers everything.
type Permissions struct {
	db     *sql.DB
	logger domain.Logger
}

// HasPermission reports whether caller holds leaf directly or through a
// wildcard grant.
func (p *Permissions) HasPermission(ctx context.Context, caller domain.Caller, leaf domain.PermissionLeaf) (bool, error) {
	candidates := coveringLeaves(leaf)

	placeholders := make([]string, len(candidates))
	args := make([]any, 0, len(candidates)+1)
	args = append(args, caller.ID().String())
	for i, c := range candidates {
		placeholders[i] = "?"
		args = append(args, string(c))
	}

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM permission_grants WHERE subject = ? AND leaf IN (%s)",
		strings.Join(placeholders, ","),
	)

	var n int
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		p.logger.Error("store: permission lookup failed: %v (caller=%s, leaf=%s)", err, caller.ID(), leaf)
		return false, err
	}
	return n > 0, nil
}

// Grant gives leaf to subject.
func (p *Permissions) Grant(ctx context.Context, subject domain.CallerID, leaf domain.PermissionLeaf) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO permission_grants (subject, leaf) VALUES (?, ?)
		 ON CONFLICT(subject, leaf) DO NOTHING`,
		subject.String(), string(leaf),
	)
	if err != nil {
		p.logger.Error("store: grant failed: %v (subject=%s, leaf=%s)", err, subject, leaf)
	}
	return err
}

// Revoke removes leaf from subject and reports whether it was granted.
func (p *Permissions) Revoke(ctx context.Context, subject domain.CallerID, leaf domain.PermissionLeaf) (bool, error) {
	result, err := p.db.ExecContext(ctx,
		`DELETE FROM permission_grants WHERE subject = ? AND leaf = ?`,
		subject.String(), string(leaf),
	)
	if err != nil {
		p.logger.Error("store: revoke failed: %v (subject=%s, leaf=%s)", err, subject, leaf)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the leaves granted to subject, sorted.
func (p *Permissions) List(ctx context.Context, subject domain.CallerID) ([]domain.PermissionLeaf, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT leaf FROM permission_grants WHERE subject = ? ORDER BY leaf`,
		subject.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PermissionLeaf
	for rows.Next() {
		var leaf string
		if err := rows.Scan(&leaf); err != nil {
			return nil, err
		}
		out = append(out, domain.PermissionLeaf(leaf))
	}
	return out, rows.Err()
}

// coveringLeaves returns leaf and every wildcard that covers it:
// "kit.give.all" yields itself, "kit.give.*", "kit.*" and "*".
func coveringLeaves(leaf domain.PermissionLeaf) []domain.PermissionLeaf {
	out := []domain.PermissionLeaf{leaf}
	s := string(leaf)
	for i := strings.LastIndexByte(s, '.'); i > 0; i = strings.LastIndexByte(s[:i], '.') {
		out = append(out, domain.PermissionLeaf(s[:i]+".*"))
	}
	if leaf != Wildcard {
		out = append(out, Wildcard)
	}
	return out
}

var _ domain.PermissionStore = (*Permissions)(nil)
