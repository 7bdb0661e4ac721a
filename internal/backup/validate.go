// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
validate.go - Backup Validation

Checks that a snapshot directory can be restored, before any live data is
touched.

Validation Checks (in order, first failure wins):
 1. Snapshot directory exists
 2. database/ holds the database file (the live file name, or failing that
    the only *.db or *.sqlite file present)
 3. metadata.json exists and parses

A failed validation is a normal result, not a Go error. The result then
carries a DebugContext naming every path that was examined, so an operator
can see whether a relative name resolved somewhere unexpected.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/salonkeeper/internal/metrics"
)

// Validation failure messages. Stable strings, shown to operators.
const (
	msgDirNotFound      = "Backup directory not found"
	msgDatabaseNotFound = "Backup database file not found"
	msgMetadataNotFound = "Backup metadata file not found"
	msgMetadataInvalid  = "Backup metadata file is invalid"
)

// errStopWalk ends a directory walk early once an answer is known.
var errStopWalk = errors.New("stop walk")

// Validate checks the snapshot named by identifier. Never returns nil.
func (m *Manager) Validate(identifier string) *ValidationResult {
	root := m.resolver.Resolve(identifier)
	dbPath := m.expectedBackupDatabasePath(root)
	metaPath := filepath.Join(root, MetadataFile)

	result := &ValidationResult{BackupPath: root}
	fail := func(msg string) *ValidationResult {
		result.Valid = false
		result.Error = msg
		result.DebugContext = &DebugContext{
			Identifier:   identifier,
			ResolvedPath: root,
			BackupsRoot:  m.resolver.Root(),
			DatabasePath: dbPath,
			MetadataPath: metaPath,
			IsAbsolute:   filepath.IsAbs(strings.TrimSpace(identifier)),
		}
		metrics.RecordValidation(false)
		m.log.Warn().
			Str("identifier", identifier).
			Str("resolved_path", root).
			Str("reason", msg).
			Msg("Backup validation failed")
		return result
	}

	if !dirExists(root) {
		return fail(msgDirNotFound)
	}

	found, ok := m.findBackupDatabase(root)
	if !ok {
		return fail(msgDatabaseNotFound)
	}
	dbPath = found

	if !fileExists(metaPath) {
		return fail(msgMetadataNotFound)
	}
	meta, err := readMetadata(metaPath)
	if err != nil {
		return fail(msgMetadataInvalid)
	}

	result.Valid = true
	result.Metadata = meta
	if !meta.CreatedAt.IsZero() {
		createdAt := meta.CreatedAt
		result.CreatedAt = &createdAt
	}
	imagesDir := filepath.Join(root, ImagesDirName)
	result.HasImages = dirExists(imagesDir)
	result.HasImageFiles = result.HasImages && hasFiles(imagesDir)
	if size, err := dirSize(root); err == nil {
		result.BackupSize = size
	}

	metrics.RecordValidation(true)
	return result
}

// expectedBackupDatabasePath is where a snapshot of this store keeps its
// database file.
func (m *Manager) expectedBackupDatabasePath(root string) string {
	return filepath.Join(root, DatabaseDirName, filepath.Base(m.store.DatabasePath()))
}

// findBackupDatabase returns the database file inside a snapshot. The live
// file name is preferred; otherwise a single *.db or *.sqlite file is
// accepted so snapshots taken under a different file name still restore.
func (m *Manager) findBackupDatabase(root string) (string, bool) {
	expected := m.expectedBackupDatabasePath(root)
	if fileExists(expected) {
		return expected, true
	}

	entries, err := os.ReadDir(filepath.Join(root, DatabaseDirName))
	if err != nil {
		return "", false
	}
	var candidates []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".db", ".sqlite", ".sqlite3":
			candidates = append(candidates, filepath.Join(root, DatabaseDirName, e.Name()))
		}
	}
	if len(candidates) != 1 {
		return "", false
	}
	return candidates[0], true
}

// hasFiles reports whether dir contains at least one regular file.
func hasFiles(dir string) bool {
	found := false
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			found = true
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return false
	}
	return found
}
