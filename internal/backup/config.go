// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/salonkeeper/internal/config"
)

// Config holds all backup-related configuration
type Config struct {
	// Directory holding snapshot directories; relative identifiers resolve beneath it
	BackupDir string

	// Bound on concurrent image copies
	Workers int

	// Zone used to bucket treatment dates and to name snapshots
	Location *time.Location

	// Reload restored tables row by row from the backup file after the file replace
	LogicalSwap bool

	// Schedule configuration
	Schedule ScheduleConfig

	// Retention policy
	Retention RetentionPolicy
}

// ScheduleConfig defines when automatic snapshots should run
type ScheduleConfig struct {
	// Enable automatic scheduled snapshots
	Enabled bool

	// Snapshot interval (e.g., 24h for daily)
	Interval time.Duration

	// Hour of day (0-23) for intervals of 24h or more; -1 disables alignment
	PreferredHour int
}

// DefaultRetentionPolicy returns a sensible default retention policy
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{
		MinCount:   3,  // Always keep at least 3 snapshots
		MaxCount:   30, // Maximum 30 snapshots
		MaxAgeDays: 90, // Delete snapshots older than 90 days
	}
}

// ConfigFromApp derives the backup configuration from the application config.
func ConfigFromApp(cfg *config.BackupConfig) *Config {
	return &Config{
		BackupDir:   cfg.Dir,
		Workers:     cfg.Workers,
		Location:    cfg.Location(),
		LogicalSwap: cfg.LogicalSwap,
		Schedule: ScheduleConfig{
			Enabled:       cfg.Schedule.Enabled,
			Interval:      cfg.Schedule.Interval,
			PreferredHour: cfg.Schedule.PreferredHour,
		},
		Retention: RetentionPolicy{
			MinCount:   cfg.Retention.MinCount,
			MaxCount:   cfg.Retention.MaxCount,
			MaxAgeDays: cfg.Retention.MaxAgeDays,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.BackupDir == "" {
		return fmt.Errorf("backup directory is required")
	}
	if !filepath.IsAbs(c.BackupDir) {
		return fmt.Errorf("backup directory must be an absolute path, got: %s", c.BackupDir)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got: %d", c.Workers)
	}

	if c.Schedule.Enabled {
		if c.Schedule.Interval < time.Hour {
			return fmt.Errorf("schedule interval must be at least 1 hour, got: %s", c.Schedule.Interval)
		}
		if c.Schedule.PreferredHour < -1 || c.Schedule.PreferredHour > 23 {
			return fmt.Errorf("preferred hour must be between -1 and 23, got: %d", c.Schedule.PreferredHour)
		}
	}

	if c.Retention.MinCount < 1 {
		return fmt.Errorf("retention min count must be at least 1")
	}
	if c.Retention.MaxCount > 0 && c.Retention.MaxCount < c.Retention.MinCount {
		return fmt.Errorf("retention max count (%d) must be >= min count (%d)",
			c.Retention.MaxCount, c.Retention.MinCount)
	}
	if c.Retention.MaxAgeDays < 0 {
		return fmt.Errorf("retention max age must not be negative, got: %d", c.Retention.MaxAgeDays)
	}

	return nil
}

// location returns the configured zone, falling back to the host zone.
func (c *Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// EnsureBackupDir creates the backup directory if it doesn't exist
func (c *Config) EnsureBackupDir() error {
	if err := os.MkdirAll(c.BackupDir, 0o750); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", c.BackupDir, err)
	}
	return nil
}
