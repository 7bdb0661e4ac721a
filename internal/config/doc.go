// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package config loads Salonkeeper configuration with koanf.

Sources are layered defaults, then an optional YAML file, then environment
variables. The file is taken from CONFIG_PATH or the first of
DefaultConfigPaths that exists.

Example config.yaml:

	database:
	  path: /data/salon.db
	  images_dir: /data/uploads
	backup:
	  dir: /data/backups
	  timezone: Asia/Tokyo
	  workers: 8
	  retention:
	    max_count: 14

Environment Variables:
  - SALON_DB_PATH, SALON_IMAGES_DIR: live store locations
  - BACKUP_DIR: backups root (absolute)
  - BACKUP_TIMEZONE: IANA zone for treatment date bucketing (default: Local)
  - BACKUP_WORKERS: image copy concurrency (default: 4)
  - BACKUP_RESTART_DELAY: delay before the post-restore exit (default: 2s)
  - BACKUP_LOGICAL_SWAP: row-level reload of restored tables from the backup file (default: false)
  - BACKUP_SCHEDULE_ENABLED, BACKUP_INTERVAL, BACKUP_PREFERRED_HOUR
  - BACKUP_RETENTION_MIN_COUNT, BACKUP_RETENTION_MAX_COUNT, BACKUP_RETENTION_MAX_DAYS
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - CORS_ORIGINS (comma separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
