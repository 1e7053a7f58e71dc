package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// CooldownRow is one persisted cooldown. Isolated cooldowns need both the
// start and the duration to compound on the next trigger.
type CooldownRow struct {
	Kind     domain.CooldownKind
	Command  string
	Caller   domain.CallerID
	Started  time.Time
	Duration time.Duration
}

// Expires returns the moment the cooldown ends.
func (r CooldownRow) Expires() time.Time {
	return r.Started.Add(r.Duration)
}

// WindowEnd returns the moment a retrigger stops compounding: one more
// duration after expiry.
func (r CooldownRow) WindowEnd() time.Time {
	return r.Started.Add(2 * r.Duration)
}

// Cooldowns persists cooldowns so they survive a restart.
type Cooldowns struct {
	db     *sql.DB
	logger domain.Logger
}

// Save inserts or replaces the cooldown for (kind, command, caller).
func (c *Cooldowns) Save(ctx context.Context, r CooldownRow) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cooldowns (kind, command, caller, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(kind, command, caller)
		 DO UPDATE SET started_at = excluded.started_at, duration_ms = excluded.duration_ms`,
		r.Kind.String(), r.Command, r.Caller.String(),
		r.Started.UnixMilli(), r.Duration.Milliseconds(),
	)
	if err != nil {
		c.logger.Error("store: save cooldown failed: %v (caller=%s, command=%s)", err, r.Caller, r.Command)
	}
	return err
}

// DeleteCaller removes every cooldown of caller and returns how many there were.
func (c *Cooldowns) DeleteCaller(ctx context.Context, caller domain.CallerID) (int64, error) {
	result, err := c.db.ExecContext(ctx, `DELETE FROM cooldowns WHERE caller = ?`, caller.String())
	if err != nil {
		c.logger.Error("store: delete cooldowns failed: %v (caller=%s)", err, caller)
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteStale removes cooldowns whose window ended before cutoff.
func (c *Cooldowns) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		`DELETE FROM cooldowns WHERE started_at + 2 * duration_ms < ?`,
		cutoff.UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Load returns every cooldown whose window is still open at cutoff, oldest
// first.
func (c *Cooldowns) Load(ctx context.Context, cutoff time.Time) ([]CooldownRow, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT kind, command, caller, started_at, duration_ms
		 FROM cooldowns
		 WHERE started_at + 2 * duration_ms >= ?
		 ORDER BY started_at`,
		cutoff.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CooldownRow
	for rows.Next() {
		var (
			r                CooldownRow
			kind, caller     string
			startedMS, durMS int64
		)
		if err := rows.Scan(&kind, &r.Command, &caller, &startedMS, &durMS); err != nil {
			return nil, err
		}
		r.Kind = parseKind(kind)
		r.Caller = domain.CallerID(caller)
		r.Started = time.UnixMilli(startedMS)
		r.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

func parseKind(s string) domain.CooldownKind {
	if s == domain.CooldownIsolated.String() {
		return domain.CooldownIsolated
	}
	return domain.CooldownGeneral
}
