// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// snapshotTimeLayout is the second-resolution stamp in snapshot and archive names.
const snapshotTimeLayout = "2006-01-02_15-04-05"

// asideTimeLayout stamps files and directories moved aside during a restore.
const asideTimeLayout = "20060102-150405"

// Resolver turns a backup identifier into a snapshot directory path. It is
// the only resolution used by validation and restore, so an absolute path
// and a bare name behave the same in both flows.
type Resolver struct {
	root string
}

// NewResolver returns a Resolver rooted at the backups directory.
func NewResolver(backupsRoot string) *Resolver {
	return &Resolver{root: filepath.Clean(backupsRoot)}
}

// Root returns the backups directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns identifier unchanged when it is absolute, otherwise joins
// it beneath the backups root. Existence is not checked.
func (r *Resolver) Resolve(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if filepath.IsAbs(identifier) {
		return identifier
	}
	return filepath.Join(r.root, identifier)
}

// SnapshotName returns the directory name of a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return SnapshotPrefix + t.Format(snapshotTimeLayout)
}

// ArchiveFileName returns the download file name of a zipped snapshot taken at t.
func ArchiveFileName(t time.Time) string {
	return SnapshotName(t) + ".zip"
}

// parseSnapshotName recovers the creation time from a snapshot directory
// name, ignoring a collision suffix.
func parseSnapshotName(name string, loc *time.Location) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, SnapshotPrefix)
	if !ok || len(stamp) < len(snapshotTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(snapshotTimeLayout, stamp[:len(snapshotTimeLayout)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// createSnapshotRoot creates a new, empty snapshot directory for time t.
// Two builds in the same second get suffixes _2, _3 and so on instead of
// sharing a directory.
func createSnapshotRoot(backupsRoot string, t time.Time) (string, error) {
	base := filepath.Join(backupsRoot, SnapshotName(t))
	for n := 1; n <= 100; n++ {
		candidate := base
		if n > 1 {
			candidate = fmt.Sprintf("%s_%d", base, n)
		}
		// Mkdir (not MkdirAll) fails if the directory exists, which is the
		// collision signal.
		err := os.Mkdir(candidate, 0o750)
		if err == nil {
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	return "", fmt.Errorf("failed to create snapshot directory: too many snapshots named %s", filepath.Base(base))
}

// asideDatabasePath names the copy of the live database kept by a restore.
func asideDatabasePath(dbPath string, t time.Time) string {
	return dbPath + ".before-restore-" + t.Format(asideTimeLayout)
}

// asideImagesPath names the live image tree moved aside by a full restore.
func asideImagesPath(imagesDir string, t time.Time) string {
	return filepath.Clean(imagesDir) + "_before-restore_" + t.Format(asideTimeLayout)
}
