// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "SALON_DB_PATH"},
		{"missing images dir", func(c *Config) { c.Database.ImagesDir = "" }, "SALON_IMAGES_DIR"},
		{"relative backup dir", func(c *Config) { c.Backup.Dir = "backups" }, "absolute"},
		{"zero workers", func(c *Config) { c.Backup.Workers = 0 }, "BACKUP_WORKERS"},
		{"unknown zone", func(c *Config) { c.Backup.Timezone = "Nowhere/Town" }, "BACKUP_TIMEZONE"},
		{"fixed zone", func(c *Config) { c.Backup.Timezone = "Asia/Tokyo" }, ""},
		{"negative restart delay", func(c *Config) { c.Backup.RestartDelay = -time.Second }, "BACKUP_RESTART_DELAY"},
		{"short schedule interval", func(c *Config) {
			c.Backup.Schedule.Enabled = true
			c.Backup.Schedule.Interval = time.Minute
		}, "BACKUP_INTERVAL"},
		{"preferred hour out of range", func(c *Config) { c.Backup.Schedule.PreferredHour = 24 }, "BACKUP_PREFERRED_HOUR"},
		{"preferred hour disabled", func(c *Config) { c.Backup.Schedule.PreferredHour = -1 }, ""},
		{"min above max", func(c *Config) {
			c.Backup.Retention.MinCount = 10
			c.Backup.Retention.MaxCount = 5
		}, "MIN_COUNT"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestBackupConfigLocation(t *testing.T) {
	b := BackupConfig{Timezone: "UTC"}
	if b.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", b.Location())
	}

	b.Timezone = "not-a-zone"
	if b.Location() != time.Local {
		t.Errorf("Location() should fall back to Local, got %v", b.Location())
	}
}
