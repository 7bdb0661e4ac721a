// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package models

import (
	"time"
)

// APIError is the body of every non-2xx JSON response.
//
// Error is a human-readable message. Details carries whatever helps the
// operator find the problem, usually the resolved paths that were tried.
//
// Example:
//
//	{
//	  "error": "backup database file not found",
//	  "code": "BACKUP_NOT_FOUND",
//	  "details": "/var/lib/salonkeeper/backups/salon-backup-2024-01-20_10-30-05/database/salon.db"
//	}
type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// DataSummary describes what a directory-mode snapshot captured.
type DataSummary struct {
	DatabaseCopied bool  `json:"database_copied"`
	ImagesCopied   int   `json:"images_copied"`
	ImagesSkipped  int   `json:"images_skipped"`
	BackupSize     int64 `json:"backup_size"`
}

// CreateBackupResponse is returned by POST /api/backup/create in directory mode.
type CreateBackupResponse struct {
	Success     bool        `json:"success"`
	BackupPath  string      `json:"backup_path"`
	DataSummary DataSummary `json:"data_summary"`
}

// RestoreResponse is returned by a successful POST /api/backup/restore.
//
// RestartRequired is always true after a restore: the process stops shortly
// after the response is written and comes back against the restored store.
// Warnings lists every degraded step so a caller can tell a fully consistent
// restore from a file-level one.
type RestoreResponse struct {
	Message         string    `json:"message"`
	BackupPath      string    `json:"backupPath"`
	RestoredAt      time.Time `json:"restoredAt"`
	Mode            string    `json:"mode"`
	RestartRequired bool      `json:"restartRequired"`
	LogicalSwap     string    `json:"logicalSwap"`
	ImagesRestored  int       `json:"imagesRestored"`
	Warnings        []string  `json:"warnings"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	Uptime         float64 `json:"uptime_seconds"`
	DatabaseOK     bool    `json:"database_ok"`
	RestartPending bool    `json:"restart_pending"`
}
