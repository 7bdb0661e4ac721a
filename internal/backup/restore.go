// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
restore.go - Restore Engine

Restores a snapshot directory into the live store.

Restore Process:
 1. Resolve the identifier and locate the backup database (fatal if absent)
 2. Integrity-check the backup database (warning only)
 3. Checkpoint and close the live store handle
 4. Copy the live database aside to <db>.before-restore-<ts> (warning on failure)
 5. Replace the live database: temp file in the same directory, fsync,
    atomic rename (fatal on failure, the live file is then unchanged)
 6. Optionally restore images: full moves the live tree aside first, merge
    copies over it without deleting (warning on failure)
 7. Row-level table reload where configured (warning on failure)
 8. Remove -wal and -shm sidecars of the replaced file (warning on failure)

Once step 3 has run the Manager no longer has a usable store: the result
has RestartRequired set and every later build, restore or prune returns
ErrRestartPending. A restore cannot be cancelled once started.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/salonkeeper/internal/database"
	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/metrics"
)

// Restore warning steps, used in log fields and the metrics label.
const (
	stepIntegrity    = "integrity_check"
	stepRelease      = "release_live_store"
	stepAside        = "snapshot_live_db"
	stepImages       = "images"
	stepTableReload  = "table_reload"
	stepKeepMasters  = "keep_masters"
	stepSidecarClean = "clean_sidecars"
)

// Restore replaces the live store with the snapshot named by req.BackupPath.
func (m *Manager) Restore(ctx context.Context, req *RestoreRequest) (*RestoreResult, error) {
	if req == nil {
		return nil, fmt.Errorf("restore request is required")
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeFull
	}
	if mode != ModeFull && mode != ModeMerge {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRestoreMode, mode)
	}

	unlock, err := m.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	// The live file is half-replaced if a restore stops midway.
	ctx = logging.ContextWithOperation(context.WithoutCancel(ctx), "restore")

	startTime := time.Now()
	result, err := m.restoreLocked(ctx, req, mode)
	duration := time.Since(startTime)

	if err != nil {
		metrics.RecordRestore(string(mode), duration, 0, err)
		m.logCtx(ctx).Error().Err(err).Str("backup_path", req.BackupPath).Msg("Restore failed")
		return nil, err
	}

	result.Duration = duration
	metrics.RecordRestore(string(mode), duration, len(result.Warnings), nil)
	m.logCtx(ctx).Info().
		Str("backup_path", result.BackupPath).
		Str("mode", string(mode)).
		Str("logical_swap", string(result.LogicalSwap)).
		Int("images_restored", result.ImagesRestored).
		Int("warnings", len(result.Warnings)).
		Dur("duration", duration).
		Msg("Restore completed, restart required")

	return result, nil
}

func (m *Manager) restoreLocked(ctx context.Context, req *RestoreRequest, mode RestoreMode) (*RestoreResult, error) {
	root := m.resolver.Resolve(req.BackupPath)
	backupDB, ok := m.findBackupDatabase(root)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackupDatabaseNotFound, m.expectedBackupDatabasePath(root))
	}

	result := &RestoreResult{
		BackupPath:  root,
		Mode:        mode,
		LogicalSwap: SwapSkipped,
		Warnings:    make([]string, 0),
	}
	stamp := m.nowInZone()

	if err := database.IntegrityCheck(ctx, backupDB); err != nil {
		m.warn(ctx, result, stepIntegrity, "backup database failed integrity check", err)
	}

	livePath := m.store.DatabasePath()
	imagesDir := m.store.ImagesDir()

	m.releaseLiveStore(ctx, result)

	if fileExists(livePath) {
		aside := asideDatabasePath(livePath, stamp)
		if err := copyFile(livePath, aside); err != nil {
			m.warn(ctx, result, stepAside, "failed to keep a copy of the live database", err)
		} else {
			result.PreRestoreDatabase = aside
		}
	}

	if err := replaceFile(backupDB, livePath); err != nil {
		return nil, fmt.Errorf("failed to replace live database: %w", err)
	}

	if req.IncludeImages {
		m.restoreImages(ctx, result, filepath.Join(root, ImagesDirName), imagesDir, mode, stamp)
	}

	m.reloadRestoredTables(ctx, result, livePath, backupDB, req.IncludeMasters)

	for _, sidecar := range []string{livePath + "-wal", livePath + "-shm"} {
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			m.warn(ctx, result, stepSidecarClean, "failed to remove "+filepath.Base(sidecar), err)
		}
	}

	result.RestoredAt = m.now().In(m.cfg.location())
	result.RestartRequired = true
	return result, nil
}

// releaseLiveStore closes the injected store so no connection keeps the
// old file open across the replace.
func (m *Manager) releaseLiveStore(ctx context.Context, result *RestoreResult) {
	m.restartPending.Store(true)
	metrics.SetRestartPending(true)
	if err := m.store.Close(); err != nil {
		m.warn(ctx, result, stepRelease, "failed to close live database", err)
	}
}

// restoreImages copies the snapshot's image tree into the live images directory.
func (m *Manager) restoreImages(ctx context.Context, result *RestoreResult, src, dst string, mode RestoreMode, stamp time.Time) {
	if !dirExists(src) {
		m.logCtx(ctx).Info().Str("path", src).Msg("Backup has no images directory, skipping image restore")
		return
	}

	if mode == ModeFull && dirExists(dst) {
		aside := asideImagesPath(dst, stamp)
		if err := os.Rename(dst, aside); err != nil {
			m.warn(ctx, result, stepImages, "failed to move live images aside", err)
			return
		}
		result.PreviousImagesPath = aside
	}

	if err := os.MkdirAll(dst, 0o750); err != nil {
		m.warn(ctx, result, stepImages, "failed to create images directory", err)
		return
	}

	copied, err := copyTree(ctx, src, dst, m.cfg.Workers)
	result.ImagesRestored = copied
	if err != nil {
		m.warn(ctx, result, stepImages, "image restore incomplete", err)
	}
}

// reloadRestoredTables runs the row-level reloads that apply to this
// restore and records the outcome in result.
func (m *Manager) reloadRestoredTables(ctx context.Context, result *RestoreResult, livePath, backupDB string, includeMasters bool) {
	ran, failed := false, false
	apply := func(source string, tables []string, step string) {
		ran = true
		reloaded, err := reloadTables(ctx, livePath, source, tables)
		if err != nil {
			failed = true
			metrics.RecordTableReload(string(SwapFailed))
			m.warn(ctx, result, step, "table reload rolled back", err)
			return
		}
		metrics.RecordTableReload(string(SwapApplied))
		result.TablesSwapped = append(result.TablesSwapped, reloaded.Tables...)
		result.RowsRestored += reloaded.Rows
	}

	if m.cfg.LogicalSwap {
		tables := database.Tables
		if !includeMasters {
			tables = nonMasterTables()
		}
		apply(backupDB, tables, stepTableReload)
	}

	if !includeMasters {
		if result.PreRestoreDatabase == "" {
			m.warn(ctx, result, stepKeepMasters, "master tables restored from backup",
				errors.New("no copy of the previous live database to keep master tables from"))
		} else {
			apply(result.PreRestoreDatabase, database.MasterTables, stepKeepMasters)
		}
	}

	switch {
	case failed:
		result.LogicalSwap = SwapFailed
	case ran:
		result.LogicalSwap = SwapApplied
	default:
		result.LogicalSwap = SwapSkipped
		metrics.RecordTableReload(string(SwapSkipped))
	}
}

// warn records a degraded restore step.
func (m *Manager) warn(ctx context.Context, result *RestoreResult, step, msg string, err error) {
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", msg, err))
	metrics.RecordRestoreWarning(step)
	m.logCtx(ctx).Warn().Err(err).Str("step", step).Msg(msg)
}

func nonMasterTables() []string {
	tables := make([]string, 0, len(database.Tables))
	for _, t := range database.Tables {
		if !database.IsMasterTable(t) {
			tables = append(tables, t)
		}
	}
	return tables
}

// replaceFile atomically replaces dst with a copy of src. A temp file in
// dst's directory is written and fsynced, then renamed over dst, so dst is
// either the old file or the complete new one.
//
//nolint:gosec // G304: src is a validated backup database path
func replaceFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Best effort cleanup

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".restore-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := copyAndCloseDestFile(tmp, in); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o640); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup on error
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	syncDir(filepath.Dir(dst))
	return nil
}

// syncDir flushes a directory entry change to disk. Not every platform
// supports fsync on directories; those errors are ignored.
//
//nolint:gosec // G304: dir is the live database directory
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close() //nolint:errcheck // Best effort cleanup
	_ = d.Sync()
}
