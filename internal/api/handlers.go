// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/salonkeeper/internal/backup"
)

// BackupService is the interface for snapshot and restore operations.
// *backup.Manager implements it.
type BackupService interface {
	BuildSnapshotWithTrigger(ctx context.Context, trigger string) (*backup.SnapshotResult, error)
	Validate(identifier string) *backup.ValidationResult
	Restore(ctx context.Context, req *backup.RestoreRequest) (*backup.RestoreResult, error)
	ListSnapshots() ([]backup.SnapshotInfo, error)
	ApplyRetention(ctx context.Context) (*backup.PruneResult, error)
	RestartPending() bool
}

// SnapshotPackager delivers a built snapshot. *backup.Packager implements it.
type SnapshotPackager interface {
	Pack(ctx context.Context, snapshotRoot string) ([]byte, error)
	Locate(snapshotRoot string) (*backup.Location, error)
}

// RestartScheduler stops the process after a restore.
type RestartScheduler interface {
	ScheduleRestart(reason string)
}

// HealthChecker reports whether the live store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HandlerConfig holds the collaborators of a Handler.
type HandlerConfig struct {
	Backups   BackupService
	Packager  SnapshotPackager
	Restarter RestartScheduler
	Store     HealthChecker
	Version   string
}

// Handler handles HTTP requests
type Handler struct {
	backups   BackupService
	packager  SnapshotPackager
	restarter RestartScheduler
	store     HealthChecker
	version   string
	startTime time.Time
}

// NewHandler creates a new Handler. Backups, Packager and Restarter are required.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Backups == nil {
		return nil, errors.New("backup service is required")
	}
	if cfg.Packager == nil {
		return nil, errors.New("snapshot packager is required")
	}
	if cfg.Restarter == nil {
		return nil, errors.New("restart scheduler is required")
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		backups:   cfg.Backups,
		packager:  cfg.Packager,
		restarter: cfg.Restarter,
		store:     cfg.Store,
		version:   version,
		startTime: time.Now(),
	}, nil
}
