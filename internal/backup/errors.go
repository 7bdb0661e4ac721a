// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrLiveDatabaseNotFound aborts a snapshot when the live database file is absent.
	ErrLiveDatabaseNotFound = fmt.Errorf("live database file not found: %w", fs.ErrNotExist)

	// ErrBackupDatabaseNotFound aborts a restore when the backup has no database file.
	ErrBackupDatabaseNotFound = fmt.Errorf("backup database file not found: %w", fs.ErrNotExist)

	// ErrSnapshotNotFound is returned when a snapshot directory does not exist.
	ErrSnapshotNotFound = fmt.Errorf("backup directory not found: %w", fs.ErrNotExist)

	// ErrRestartPending is returned by every operation after a restore
	// replaced the live store; the process must restart first.
	ErrRestartPending = errors.New("restore completed, restart pending")

	// ErrInvalidRestoreMode is returned for a restore mode other than full or merge.
	ErrInvalidRestoreMode = errors.New("invalid restore mode")
)
