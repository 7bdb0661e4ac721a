// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
manager.go - Core Backup Manager

This file contains the backup manager struct that owns every snapshot and
restore operation against the live store.

Manager Responsibilities:
  - Snapshot building (builder.go) and packaging (archive.go)
  - Backup validation (validate.go)
  - Restore orchestration (restore.go)
  - Listing and retention pruning (retention.go)

Thread Safety:
Build, restore and prune are serialized by one mutex, so a snapshot never
reads a database that a restore is replacing. Validation and listing only
read snapshot directories and run without the lock.

After a restore replaced the live database the injected store handle is
closed; every further mutating call returns ErrRestartPending until the
process restarts with a fresh Manager.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/salonkeeper/internal/cache"
	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/models"
)

// snapshotInfoTTL bounds how long a measured snapshot description is reused.
const snapshotInfoTTL = 10 * time.Minute

// RowSource reads the rows a snapshot describes. *database.DB satisfies
// it for both the live store and an opened snapshot copy.
type RowSource interface {
	// RowCounts returns the row count of every table
	RowCounts(ctx context.Context) (map[string]int64, error)
	// ImageRecords returns every photo joined to its treatment and customer
	ImageRecords(ctx context.Context) ([]models.ImageRecord, error)
	// CustomerExportRows returns the customer × treatment outer join
	CustomerExportRows(ctx context.Context) ([]models.CustomerExportRow, error)
	// MasterExportRows returns the rows of every lookup table
	MasterExportRows(ctx context.Context) ([]models.MasterExportRow, error)
}

// LiveStore defines the live database operations needed for backup.
// *database.DB satisfies it.
type LiveStore interface {
	RowSource

	// DatabasePath returns the path to the database file
	DatabasePath() string
	// ImagesDir returns the root of the live photo tree
	ImagesDir() string
	// Checkpoint forces a WAL checkpoint for a consistent byte copy
	Checkpoint(ctx context.Context) error
	// Close checkpoints and closes the connection
	Close() error
}

// Manager handles snapshot and restore operations
type Manager struct {
	cfg       *Config
	store     LiveStore
	resolver  *Resolver
	relocator *Relocator
	packager  *Packager

	// infos caches ListSnapshots entries by directory name
	infos *cache.Cache[SnapshotInfo]

	// mu serializes build, restore and prune
	mu sync.Mutex

	// restartPending is read without mu so health checks never wait on a
	// running snapshot
	restartPending atomic.Bool

	// log carries component=backup
	log zerolog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewManager creates a new backup manager
func NewManager(cfg *Config, store LiveStore) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("backup configuration is required")
	}
	if store == nil {
		return nil, fmt.Errorf("live store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backup configuration: %w", err)
	}
	if err := cfg.EnsureBackupDir(); err != nil {
		return nil, err
	}

	return &Manager{
		cfg:       cfg,
		store:     store,
		resolver:  NewResolver(cfg.BackupDir),
		relocator: NewRelocator(store.ImagesDir(), cfg.location(), cfg.Workers),
		packager:  NewPackager(),
		infos:     cache.New[SnapshotInfo](snapshotInfoTTL),
		log:       logging.WithComponent("backup"),
		now:       time.Now,
	}, nil
}

// logCtx returns the backup logger with the ids and operation of ctx.
func (m *Manager) logCtx(ctx context.Context) *zerolog.Logger {
	return logging.CtxWith(ctx, m.log)
}

// Resolver returns the path resolver shared by validation and restore.
func (m *Manager) Resolver() *Resolver {
	return m.resolver
}

// Packager returns the archive packager.
func (m *Manager) Packager() *Packager {
	return m.packager
}

// Config returns the manager configuration.
func (m *Manager) Config() *Config {
	return m.cfg
}

// RestartPending reports whether a restore replaced the live store and the
// process has not restarted since.
func (m *Manager) RestartPending() bool {
	return m.restartPending.Load()
}

// lock takes the operation mutex and refuses to proceed once a restore has
// completed. The caller must call the returned unlock.
func (m *Manager) lock() (unlock func(), err error) {
	m.mu.Lock()
	if m.restartPending.Load() {
		m.mu.Unlock()
		return nil, ErrRestartPending
	}
	return m.mu.Unlock, nil
}

// nowInZone returns the current time in the configured zone, truncated to
// the second resolution used by snapshot names.
func (m *Manager) nowInZone() time.Time {
	return m.now().In(m.cfg.location()).Truncate(time.Second)
}
