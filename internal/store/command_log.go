package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// logTimeLayout is fixed width so timestamps compare as strings.
const logTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CommandLog appends executed commands.
type CommandLog struct {
	db     *sql.DB
	logger domain.Logger
}

// Record stores rec.
func (l *CommandLog) Record(ctx context.Context, rec domain.CommandRecord) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO command_log (caller, command, input, outcome, duration_ms, at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Caller.String(), rec.Command, rec.Input, rec.Outcome,
		rec.Duration.Milliseconds(), at.UTC().Format(logTimeLayout),
	)
	if err != nil {
		l.logger.Error("store: record command failed: %v (caller=%s, command=%s)", err, rec.Caller, rec.Command)
	}
	return err
}

// Recent returns the last limit commands of caller, newest first. An empty
// caller matches everyone.
func (l *CommandLog) Recent(ctx context.Context, caller domain.CallerID, limit int) ([]domain.CommandRecord, error) {
	query := `SELECT caller, command, input, outcome, duration_ms, at FROM command_log`
	var args []any
	if caller != "" {
		query += " WHERE caller = ?"
		args = append(args, caller.String())
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CommandRecord
	for rows.Next() {
		var (
			rec   domain.CommandRecord
			who   string
			durMS int64
			ts    string
		)
		if err := rows.Scan(&who, &rec.Command, &rec.Input, &rec.Outcome, &durMS, &ts); err != nil {
			return nil, err
		}
		t, err := time.Parse(logTimeLayout, ts)
		if err != nil {
			return nil, err
		}
		rec.Caller = domain.CallerID(who)
		rec.Duration = time.Duration(durMS) * time.Millisecond
		rec.At = t
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes entries older than cutoff.
func (l *CommandLog) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := l.db.ExecContext(ctx,
		`DELETE FROM command_log WHERE at < ?`,
		cutoff.UTC().Format(logTimeLayout),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var _ domain.CommandRecorder = (*CommandLog)(nil)
