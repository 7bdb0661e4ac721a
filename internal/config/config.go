// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package config

import (
	"path/filepath"
	"time"
	_ "time/tzdata" // zone lookups must work on minimal container images
)

// Config is the complete process configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Backup   BackupConfig   `koanf:"backup"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig locates the live store: the SQLite file and the image tree
// that must always describe the same dataset.
type DatabaseConfig struct {
	Path        string        `koanf:"path"`
	ImagesDir   string        `koanf:"images_dir"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`

	// SeedDemoData fills an empty store with demo customers on startup
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// FileName returns the base name of the database file, which is also the
// name it carries inside a snapshot's database/ directory.
func (d DatabaseConfig) FileName() string {
	return filepath.Base(d.Path)
}

// BackupConfig holds snapshot and restore settings.
type BackupConfig struct {
	// Dir is the backups root. Relative backup identifiers resolve beneath it.
	Dir string `koanf:"dir"`

	// Workers bounds the image copy fan-out.
	Workers int `koanf:"workers"`

	// Timezone is the IANA zone used to bucket treatment dates into
	// calendar days and to name snapshots. "Local" uses the host zone.
	Timezone string `koanf:"timezone"`

	// RestartDelay is how long the process keeps serving after a restore
	// before it exits for the external supervisor to restart it.
	RestartDelay time.Duration `koanf:"restart_delay"`

	// LogicalSwap enables the row-level table reload after the file replace.
	LogicalSwap bool `koanf:"logical_swap"`

	Schedule  ScheduleConfig  `koanf:"schedule"`
	Retention RetentionConfig `koanf:"retention"`
}

// Location resolves Timezone. Validate has already rejected unknown zones.
func (b BackupConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ScheduleConfig controls automatic directory snapshots.
type ScheduleConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
	// PreferredHour aligns the first run to this hour (0-23); -1 disables alignment.
	PreferredHour int `koanf:"preferred_hour"`
}

// RetentionConfig limits how many snapshot directories are kept.
type RetentionConfig struct {
	MinCount   int `koanf:"min_count"`
	MaxCount   int `koanf:"max_count"`
	MaxAgeDays int `koanf:"max_age_days"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds settings passed to logging.Init.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
