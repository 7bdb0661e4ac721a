// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
builder.go - Snapshot Builder

BuildSnapshot produces one self-contained snapshot directory:

	salon-backup-YYYY-MM-DD_HH-MM-SS/
	├── database/<db-file>          (byte copy after a WAL checkpoint)
	├── images/customers/...        (canonical photo layout, relocate.go)
	├── exports/customers.csv       (customer × treatment, exports.go)
	├── exports/masters.csv         (lookup tables, exports.go)
	├── metadata.json
	└── README.txt

Build Process:
 1. Create the snapshot root and its three subdirectories
 2. Checkpoint the live WAL, copy the database file
 3. Open the copy immutable; every later read uses it
 4. Relocate every photo referenced by a treatment
 5. Render the CSV exports
 6. Write metadata.json and README.txt

A missing live database aborts the build and removes the half-created
root. Any later failure is returned as is; the partial snapshot stays on
disk for inspection.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonkeeper/internal/database"
	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/metrics"
)

// Snapshot triggers, used as the metrics label.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// metadataCountKeys maps table names to their row_counts key in
// metadata.json. Only treatment_images is renamed.
var metadataCountKeys = map[string]string{
	database.TableTreatmentImages: "images",
}

// BuildSnapshot creates a new snapshot directory of the live store
func (m *Manager) BuildSnapshot(ctx context.Context) (*SnapshotResult, error) {
	return m.BuildSnapshotWithTrigger(ctx, TriggerManual)
}

// BuildSnapshotWithTrigger creates a snapshot and labels its metrics with trigger
func (m *Manager) BuildSnapshotWithTrigger(ctx context.Context, trigger string) (*SnapshotResult, error) {
	unlock, err := m.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx = logging.ContextWithOperation(ctx, "snapshot")
	startTime := time.Now()
	result, err := m.buildSnapshotLocked(ctx)
	duration := time.Since(startTime)

	if err != nil {
		metrics.RecordSnapshot(trigger, duration, 0, 0, err)
		m.logCtx(ctx).Error().Err(err).Str("trigger", trigger).Msg("Snapshot failed")
		return nil, err
	}

	metrics.RecordSnapshot(trigger, duration, result.ImagesCopied, result.ImagesSkipped, nil)
	m.logCtx(ctx).Info().
		Str("trigger", trigger).
		Str("path", result.SnapshotRoot).
		Int("images_copied", result.ImagesCopied).
		Int("images_skipped", result.ImagesSkipped).
		Dur("duration", duration).
		Msg("Snapshot created")

	return result, nil
}

func (m *Manager) buildSnapshotLocked(ctx context.Context) (*SnapshotResult, error) {
	createdAt := m.nowInZone()

	root, err := createSnapshotRoot(m.cfg.BackupDir, createdAt)
	if err != nil {
		return nil, err
	}
	// A listing that raced the build may have measured a partial tree.
	defer m.infos.Delete(filepath.Base(root))
	for _, dir := range []string{DatabaseDirName, ImagesDirName, ExportsDirName} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}

	result := &SnapshotResult{
		SnapshotRoot: root,
		CreatedAt:    createdAt,
	}

	dbFile, err := m.copyLiveDatabase(ctx, root)
	if err != nil {
		if os.RemoveAll(root) != nil {
			m.logCtx(ctx).Warn().Str("path", root).Msg("Failed to remove incomplete snapshot")
		}
		return nil, err
	}
	result.DatabaseCopied = true

	// Rows come from the copy so exports and metadata match database/.
	src, release := m.copiedRowSource(ctx, filepath.Join(root, DatabaseDirName, dbFile))
	defer release()

	records, err := src.ImageRecords(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := m.relocator.RelocateAll(ctx, records, filepath.Join(root, ImagesDirName))
	if err != nil {
		return nil, fmt.Errorf("image relocation aborted: %w", err)
	}
	result.ImagesCopied = stats.Copied
	result.ImagesSkipped = stats.Skipped

	if err := m.writeExports(ctx, src, root); err != nil {
		return nil, err
	}

	counts, err := src.RowCounts(ctx)
	if err != nil {
		return nil, err
	}
	result.RowCounts = metadataRowCounts(counts)

	meta := &Metadata{
		CreatedAt:     createdAt,
		Version:       MetadataVersion,
		RowCounts:     result.RowCounts,
		Tables:        append([]string(nil), database.Tables...),
		ImagesCopied:  result.ImagesCopied,
		ImagesSkipped: result.ImagesSkipped,
		DatabaseFile:  dbFile,
		Timezone:      m.cfg.location().String(),
	}
	if err := writeMetadata(filepath.Join(root, MetadataFile), meta); err != nil {
		return nil, err
	}
	if err := writeReadme(filepath.Join(root, ReadmeFile), meta); err != nil {
		return nil, err
	}

	return result, nil
}

// copyLiveDatabase checkpoints the live store and copies its file into the
// snapshot's database directory. Returns the copied file name.
func (m *Manager) copyLiveDatabase(ctx context.Context, root string) (string, error) {
	livePath := m.store.DatabasePath()
	if !fileExists(livePath) {
		return "", ErrLiveDatabaseNotFound
	}

	// Folding the WAL into the main file makes the byte copy complete.
	if err := m.store.Checkpoint(ctx); err != nil {
		m.logCtx(ctx).Warn().Err(err).Msg("WAL checkpoint before snapshot failed, copying anyway")
	}

	name := filepath.Base(livePath)
	if err := copyFile(livePath, filepath.Join(root, DatabaseDirName, name)); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}
	return name, nil
}

// copiedRowSource opens the snapshot's database copy for reading. When the
// copy cannot be opened the live store is used instead.
func (m *Manager) copiedRowSource(ctx context.Context, copyPath string) (RowSource, func()) {
	copied, err := database.OpenSnapshot(copyPath)
	if err != nil {
		m.logCtx(ctx).Warn().Err(err).Str("path", copyPath).
			Msg("Failed to open copied database, reading snapshot rows from the live store")
		return m.store, func() {}
	}
	return copied, func() {
		if err := copied.Close(); err != nil {
			m.logCtx(ctx).Warn().Err(err).Str("path", copyPath).Msg("Failed to close copied database")
		}
	}
}

func (m *Manager) writeExports(ctx context.Context, src RowSource, root string) error {
	customers, err := src.CustomerExportRows(ctx)
	if err != nil {
		return err
	}
	if err := writeCustomersCSV(filepath.Join(root, ExportsDirName, CustomersCSV), customers, m.cfg.location()); err != nil {
		return err
	}

	masters, err := src.MasterExportRows(ctx)
	if err != nil {
		return err
	}
	return writeMastersCSV(filepath.Join(root, ExportsDirName, MastersCSV), masters)
}

// metadataRowCounts renames table counts to metadata.json keys.
func metadataRowCounts(counts map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for table, n := range counts {
		key := table
		if renamed, ok := metadataCountKeys[table]; ok {
			key = renamed
		}
		out[key] = n
	}
	return out
}

func writeMetadata(path string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	//nolint:gosec // G306: snapshot files are readable by the operator group
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// readMetadata loads and parses a snapshot's metadata.json.
//
//nolint:gosec // G304: path is resolved beneath a snapshot root
func readMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &meta, nil
}
