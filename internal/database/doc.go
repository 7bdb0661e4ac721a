// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

// Package database is the live store of the salon application: one SQLite
// file holding customers, treatments, treatment images and six master
// lookup tables, plus the directory of uploaded treatment photos.
//
// # Overview
//
// The store is opened once per process by New and handed to every
// component that needs it. The snapshot and restore machinery in
// internal/backup reads from it through the export queries in this
// package and releases it (Close) before the database file is replaced.
//
// Files:
//   - database.go: lifecycle (New, Close, Checkpoint) and accessors
//   - database_open.go: Open with PRAGMAs, read-only handles, IntegrityCheck
//   - database_schema.go: table names, dependency order, CREATE statements
//   - crud_export.go: row counts and the joins used by snapshot exports
//   - crud_records.go: inserts and listings for records
//   - seed.go: demo data
//
// # Database Technology
//
// The package uses SQLite through modernc.org/sqlite (pure Go, no CGO) with
// github.com/jmoiron/sqlx for struct scanning. Every handle is opened with a
// single connection so connection-scoped PRAGMAs such as foreign_keys apply
// to all statements issued through it. The live store runs in WAL mode;
// Checkpoint folds the WAL back into the main file before a byte copy.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	counts, err := db.RowCounts(ctx)
//
// # Concurrency
//
// Exported methods are safe for concurrent use; the single pooled
// connection serializes them.
package database
