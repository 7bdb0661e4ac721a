// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/salonkeeper/config.yaml",
	"/etc/salonkeeper/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "/data/salon.db",
			ImagesDir:   "/data/uploads",
			BusyTimeout: 5 * time.Second,
		},
		Backup: BackupConfig{
			Dir:          "/data/backups",
			Workers:      4,
			Timezone:     "Local",
			RestartDelay: 2 * time.Second,
			LogicalSwap:  false,
			Schedule: ScheduleConfig{
				Enabled:       false,
				Interval:      24 * time.Hour,
				PreferredHour: 3,
			},
			Retention: RetentionConfig{
				MinCount:   3,
				MaxCount:   30,
				MaxAgeDays: 90,
			},
		},
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
			// Zip downloads of large photo trees are slow to build.
			Timeout: 10 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers, later ones winning:
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables listed in envMappings
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values into slices.
// Values already loaded as lists from YAML are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		var parts []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config keys.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	// Live store
	"salon_db_path":    "database.path",
	"salon_images_dir": "database.images_dir",
	"db_busy_timeout":  "database.busy_timeout",
	"seed_demo_data":   "database.seed_demo_data",

	// Backup
	"backup_dir":           "backup.dir",
	"backup_workers":       "backup.workers",
	"backup_timezone":      "backup.timezone",
	"backup_restart_delay": "backup.restart_delay",
	"backup_logical_swap":  "backup.logical_swap",

	"backup_schedule_enabled": "backup.schedule.enabled",
	"backup_interval":         "backup.schedule.interval",
	"backup_preferred_hour":   "backup.schedule.preferred_hour",

	"backup_retention_min_count": "backup.retention.min_count",
	"backup_retention_max_count": "backup.retention.max_count",
	"backup_retention_max_days":  "backup.retention.max_age_days",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths:
//   - SALON_DB_PATH -> database.path
//   - BACKUP_TIMEZONE -> backup.timezone
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
