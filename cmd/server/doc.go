// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package main is the entry point for the Salonkeeper snapshot server.

The server owns one live store (a SQLite file plus the treatment photo tree)
and exposes snapshot, validation and restore over HTTP.

# Application Architecture

	RootSupervisor ("salonkeeper")
	├── DataSupervisor ("data-layer")
	│   └── Backup Scheduler (when BACKUP_SCHEDULE_ENABLED=true)
	└── APISupervisor ("api-layer")
	    ├── HTTP Server
	    └── Restart Coordinator

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with JSON or console output
 3. Live store: SQLite via modernc.org/sqlite, schema created on first start
 4. Backup manager: snapshot, validate, restore, retention
 5. HTTP router: chi with CORS, rate limiting and Prometheus metrics
 6. Supervisor tree: suture v4

# Restart After Restore

A restore replaces the live database file. The server answers the restore
request, waits BACKUP_RESTART_DELAY, drains the HTTP server and exits with
status 0. Run it under systemd (Restart=always) or Docker
(restart: unless-stopped) so it comes back against the restored store.

# Example Usage

	export SALON_DB_PATH=/data/salon.db
	export SALON_IMAGES_DIR=/data/uploads
	export BACKUP_DIR=/data/backups
	export BACKUP_TIMEZONE=Asia/Tokyo
	export BACKUP_SCHEDULE_ENABLED=true
	./salonkeeper

# Signal Handling

SIGINT and SIGTERM cancel the root context. In-flight requests, including a
running restore, get the HTTP shutdown timeout to finish.
*/
package main
