// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/salonkeeper/internal/config"
	"github.com/tomtom215/salonkeeper/internal/logging"
)

// DB is the live store handle: the SQLite connection pool plus the image
// directory that belongs to the same dataset. One DB exists per process and
// is passed explicitly to every component that needs it.
type DB struct {
	conn      *sqlx.DB
	cfg       *config.DatabaseConfig
	readOnly  bool
	closeOnce sync.Once
	closeErr  error
}

// New opens (creating if needed) the live database and ensures the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(cfg.ImagesDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create images directory %s: %w", cfg.ImagesDir, err)
	}

	conn, err := Open(cfg.Path, OpenOptions{
		BusyTimeout: cfg.BusyTimeout,
		WAL:         true,
		ForeignKeys: true,
	})
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn, cfg: cfg}

	ctx, cancel := schemaContext()
	defer cancel()
	if err := db.createSchema(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Str("images_dir", cfg.ImagesDir).
		Msg("Live store opened")

	return db, nil
}

// OpenSnapshot opens a copied database file immutable, for reading the
// rows a snapshot describes. No schema is created and no sidecar files are
// written next to the copy. ImagesDir is empty.
func OpenSnapshot(path string) (*DB, error) {
	conn, err := Open(path, OpenOptions{Immutable: true})
	if err != nil {
		return nil, err
	}
	return &DB{conn: conn, cfg: &config.DatabaseConfig{Path: path}, readOnly: true}, nil
}

// Close checkpoints the WAL into the main file and closes the pool.
// Safe to call more than once.
func (db *DB) Close() error {
	db.closeOnce.Do(func() {
		if !db.readOnly {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := db.Checkpoint(ctx); err != nil {
				logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
			}
		}
		db.closeErr = db.conn.Close()
	})
	return db.closeErr
}

// Checkpoint folds the WAL into the main database file and truncates it, so
// a byte copy of the file is a complete copy of the data.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// Ping checks that the pool can still reach the database. It fails once
// the store has been closed for a restore.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// DatabasePath returns the live database file path.
func (db *DB) DatabasePath() string {
	return db.cfg.Path
}

// ImagesDir returns the live image tree root.
func (db *DB) ImagesDir() string {
	return db.cfg.ImagesDir
}

// ensureContext bounds queries that arrive without a deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}
