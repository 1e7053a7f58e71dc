// Package store persists permission grants, cooldowns and the command log in
// SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/footprint-tools/switchboard/internal/domain"
	"github.com/footprint-tools/switchboard/internal/log"
	"github.com/footprint-tools/switchboard/internal/store/migrations"
)

// Store wraps a SQLite database connection.
type Store struct {
	db     *sql.DB
	path   string
	logger domain.Logger
}

// New opens the database at path and runs pending migrations.
func New(path string, logger domain.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NopLogger{}
	}
	logger.Debug("store: opening database at %s", path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = configureSQLite(db, path); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	setDBPermissions(path)

	if err = migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug("store: database ready")
	return &Store{db: db, path: path, logger: logger}, nil
}

// NewWithDB creates a Store from an existing, migrated connection.
func NewWithDB(db *sql.DB, logger domain.Logger) *Store {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Store{db: db, logger: logger}
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Permissions returns the grant table as a domain.PermissionStore.
func (s *Store) Permissions() *Permissions {
	return &Permissions{db: s.db, logger: s.logger}
}

// Cooldowns returns the persisted cooldown table.
func (s *Store) Cooldowns() *Cooldowns {
	return &Cooldowns{db: s.db, logger: s.logger}
}

// CommandLog returns the command log as a domain.CommandRecorder.
func (s *Store) CommandLog() *CommandLog {
	return &CommandLog{db: s.db, logger: s.logger}
}

// configureSQLite enables WAL and a busy timeout. Writers from the
// dispatcher, the cooldown sweeper and the transports share the file.
func configureSQLite(db *sql.DB, path string) error {
	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	} else {
		db.SetMaxOpenConns(1)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// setDBPermissions sets restrictive file permissions on the database and its WAL/SHM files.
func setDBPermissions(path string) {
	if path == ":memory:" {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}
