// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver, registered as "sqlite"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// OpenOptions configures Open.
type OpenOptions struct {
	// ReadOnly opens with mode=ro; no journal or schema changes are attempted.
	ReadOnly bool

	// Immutable tells SQLite the file cannot change while open, so no -wal
	// or -shm sidecars are created next to it. Implies ReadOnly.
	Immutable bool

	// BusyTimeout makes writers wait for locks instead of failing with SQLITE_BUSY.
	BusyTimeout time.Duration

	// WAL switches the journal mode to write-ahead logging.
	WAL bool

	// ForeignKeys turns on foreign key enforcement for the connection.
	ForeignKeys bool
}

// Open opens a SQLite file with a single connection. One connection means
// connection-scoped PRAGMAs (foreign_keys in particular) hold for every
// statement and transaction issued through the returned handle.
func Open(path string, opts OpenOptions) (*sqlx.DB, error) {
	dsn := "file:" + path
	switch {
	case opts.Immutable:
		opts.ReadOnly = true
		dsn += "?mode=ro&immutable=1"
	case opts.ReadOnly:
		dsn += "?mode=ro"
	}

	conn, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	var pragmas []string
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()))
	}
	if opts.WAL && !opts.ReadOnly {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	if opts.ForeignKeys {
		pragmas = append(pragmas, "PRAGMA foreign_keys=ON")
	}

	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return conn, nil
}

// IntegrityCheck runs PRAGMA integrity_check against a database file
// through an immutable handle, leaving no sidecar files behind.
func IntegrityCheck(ctx context.Context, path string) error {
	conn, err := Open(path, OpenOptions{Immutable: true})
	if err != nil {
		return err
	}
	defer closeWithLog(conn, "integrity check connection")

	var result string
	if err := conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("failed to run integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}
