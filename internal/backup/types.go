// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"time"
)

// MetadataVersion is the schema version written to metadata.json.
const MetadataVersion = "1.0"

// Snapshot layout names. These are part of the on-disk format and must not
// change: existing backups are read back with the same names.
const (
	SnapshotPrefix  = "salon-backup-"
	DatabaseDirName = "database"
	ImagesDirName   = "images"
	ExportsDirName  = "exports"
	MetadataFile    = "metadata.json"
	ReadmeFile      = "README.txt"
	CustomersCSV    = "customers.csv"
	MastersCSV      = "masters.csv"
	CustomersDir    = "customers"
)

// Metadata is the metadata.json document written into every snapshot.
type Metadata struct {
	CreatedAt     time.Time        `json:"created_at"`
	Version       string           `json:"version"`
	RowCounts     map[string]int64 `json:"row_counts"`
	Tables        []string         `json:"tables"`
	ImagesCopied  int              `json:"images_copied"`
	ImagesSkipped int              `json:"images_skipped"`
	DatabaseFile  string           `json:"database_file,omitempty"`
	Timezone      string           `json:"timezone,omitempty"`
}

// SnapshotResult describes a freshly built snapshot directory.
type SnapshotResult struct {
	SnapshotRoot   string           `json:"snapshot_root"`
	CreatedAt      time.Time        `json:"created_at"`
	DatabaseCopied bool             `json:"database_copied"`
	ImagesCopied   int              `json:"images_copied"`
	ImagesSkipped  int              `json:"images_skipped"`
	RowCounts      map[string]int64 `json:"row_counts"`
}

// Location is the directory-mode delivery of a snapshot.
type Location struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// ValidationResult is returned by Validate. It never carries a Go error:
// failures are described by Error and DebugContext. HasImages reports the
// images directory; HasImageFiles reports at least one photo inside it.
type ValidationResult struct {
	Valid         bool          `json:"valid"`
	Error         string        `json:"error,omitempty"`
	DebugContext  *DebugContext `json:"debugContext,omitempty"`
	Metadata      *Metadata     `json:"metadata,omitempty"`
	HasImages     bool          `json:"hasImages"`
	HasImageFiles bool          `json:"hasImageFiles"`
	BackupSize    int64         `json:"backupSize"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
	BackupPath    string        `json:"backupPath"`
}

// DebugContext lists the exact paths a failed validation looked at.
type DebugContext struct {
	Identifier   string `json:"identifier"`
	ResolvedPath string `json:"resolvedPath"`
	BackupsRoot  string `json:"backupsRoot"`
	DatabasePath string `json:"databasePath"`
	MetadataPath string `json:"metadataPath"`
	IsAbsolute   bool   `json:"isAbsolute"`
}

// RestoreMode selects how the image tree is restored.
type RestoreMode string

const (
	// ModeFull moves the live image tree aside and copies the backup tree in.
	ModeFull RestoreMode = "full"

	// ModeMerge copies the backup tree over the live one without deleting anything.
	ModeMerge RestoreMode = "merge"
)

// RestoreRequest is one restore invocation.
type RestoreRequest struct {
	BackupPath     string      `json:"backup_path" validate:"backuppath,max=4096"`
	Mode           RestoreMode `json:"restore_mode" validate:"omitempty,oneof=full merge"`
	IncludeImages  bool        `json:"include_images"`
	IncludeMasters bool        `json:"include_masters"`
}

// SwapOutcome reports what the row-level table reload did.
type SwapOutcome string

const (
	SwapApplied SwapOutcome = "applied"
	SwapSkipped SwapOutcome = "skipped"
	SwapFailed  SwapOutcome = "failed"
)

// RestoreResult is returned by a successful restore. Degraded steps are
// listed in Warnings.
type RestoreResult struct {
	BackupPath         string        `json:"backupPath"`
	RestoredAt         time.Time     `json:"restoredAt"`
	Mode               RestoreMode   `json:"mode"`
	PreRestoreDatabase string        `json:"preRestoreDatabase,omitempty"`
	PreviousImagesPath string        `json:"previousImagesPath,omitempty"`
	ImagesRestored     int           `json:"imagesRestored"`
	LogicalSwap        SwapOutcome   `json:"logicalSwap"`
	TablesSwapped      []string      `json:"tablesSwapped,omitempty"`
	RowsRestored       int64         `json:"rowsRestored"`
	Warnings           []string      `json:"warnings"`
	RestartRequired    bool          `json:"restartRequired"`
	Duration           time.Duration `json:"-"`
}

// SnapshotInfo is one entry of ListSnapshots.
type SnapshotInfo struct {
	Name      string           `json:"name"`
	Path      string           `json:"path"`
	CreatedAt time.Time        `json:"created_at"`
	SizeBytes int64            `json:"size_bytes"`
	HasImages bool             `json:"has_images"`
	RowCounts map[string]int64 `json:"row_counts,omitempty"`
}

// RetentionPolicy defines how snapshot directories are retained
type RetentionPolicy struct {
	// Keep at least this many snapshots regardless of age
	MinCount int `json:"min_count"`

	// Maximum number of snapshots to keep (0 = unlimited)
	MaxCount int `json:"max_count"`

	// Maximum age of snapshots in days (0 = unlimited)
	MaxAgeDays int `json:"max_age_days"`
}

// PruneResult reports what ApplyRetention removed.
type PruneResult struct {
	Deleted      []string `json:"deleted"`
	Kept         int      `json:"kept"`
	FreedBytes   int64    `json:"freed_bytes"`
	FailedDelete []string `json:"failed_delete,omitempty"`
}
