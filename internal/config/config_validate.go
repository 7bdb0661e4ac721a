// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateBackup(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("SALON_DB_PATH is required")
	}
	if c.Database.ImagesDir == "" {
		return fmt.Errorf("SALON_IMAGES_DIR is required")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("DB_BUSY_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateBackup() error {
	b := &c.Backup
	if b.Dir == "" {
		return fmt.Errorf("BACKUP_DIR is required")
	}
	if !filepath.IsAbs(b.Dir) {
		return fmt.Errorf("BACKUP_DIR must be an absolute path, got %q", b.Dir)
	}
	if b.Workers < 1 || b.Workers > 64 {
		return fmt.Errorf("BACKUP_WORKERS must be between 1 and 64, got %d", b.Workers)
	}
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("BACKUP_TIMEZONE %q is not a known time zone: %w", b.Timezone, err)
	}
	if b.RestartDelay < 0 {
		return fmt.Errorf("BACKUP_RESTART_DELAY must not be negative")
	}

	if b.Schedule.Enabled {
		if b.Schedule.Interval < time.Hour {
			return fmt.Errorf("BACKUP_INTERVAL must be at least 1h when scheduling is enabled, got %v", b.Schedule.Interval)
		}
	}
	if b.Schedule.PreferredHour < -1 || b.Schedule.PreferredHour > 23 {
		return fmt.Errorf("BACKUP_PREFERRED_HOUR must be -1 or between 0 and 23, got %d", b.Schedule.PreferredHour)
	}

	r := b.Retention
	if r.MinCount < 0 || r.MaxCount < 0 || r.MaxAgeDays < 0 {
		return fmt.Errorf("backup retention values must not be negative")
	}
	if r.MaxCount > 0 && r.MinCount > r.MaxCount {
		return fmt.Errorf("BACKUP_RETENTION_MIN_COUNT (%d) must not exceed BACKUP_RETENTION_MAX_COUNT (%d)", r.MinCount, r.MaxCount)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
