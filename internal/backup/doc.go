// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

// Package backup snapshots and restores the salon's live store: one SQLite
// database file plus the tree of treatment photos.
//
// # Overview
//
// A snapshot is a plain directory that an operator can open and read
// without the application:
//
//	salon-backup-2024-01-15_10-30-00/
//	├── database/salon.db
//	├── images/customers/<customer>/<YYYY-MM-DD>/<file>
//	├── exports/customers.csv
//	├── exports/masters.csv
//	├── metadata.json
//	└── README.txt
//
// # Architecture
//
//	Resolver  - Maps a backup identifier (name or absolute path) to a directory
//	Relocator - Copies photos into the canonical customer/date layout
//	Manager   - Builds, validates, restores, lists and prunes snapshots
//	Packager  - Delivers a snapshot as a zip download or a directory reference
//	Scheduler - suture.Service running periodic snapshots and retention
//
// # Restore
//
// The live database file is replaced by an atomic rename of a fully
// written temp file. The live store handle is closed first, so a completed
// restore leaves the Manager in a restart-pending state: the process must
// restart to reopen the store. Degraded steps (photo copy failures, the
// row-level table reload, sidecar cleanup) are reported as warnings in the
// RestoreResult instead of failing the restore.
//
// # Usage
//
//	store, err := database.New(&cfg.Database)
//	if err != nil {
//		return err
//	}
//
//	manager, err := backup.NewManager(backup.ConfigFromApp(&cfg.Backup), store)
//	if err != nil {
//		return err
//	}
//
//	result, err := manager.BuildSnapshot(ctx)
//	if err != nil {
//		return err
//	}
//	loc, err := manager.Packager().Locate(result.SnapshotRoot)
//
// # Thread Safety
//
// Build, restore and prune hold the Manager's mutex for their whole
// duration. Validate and ListSnapshots only read the backups directory.
package backup
