// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package api provides the HTTP surface of the snapshot and restore subsystem.

# Endpoints

	POST     /api/backup/create?format=directory|zip   build a snapshot
	GET/POST /api/backup/validate                      validate a snapshot
	POST     /api/backup/restore                       restore a snapshot
	GET      /api/backups                              list snapshot directories
	POST     /api/backups/prune                        apply the retention policy
	GET      /api/health                               liveness
	GET      /metrics                                  Prometheus exposition

Validate and restore accept either a JSON body or a form-encoded body with
the same field names (backup_path, restore_mode, include_images,
include_masters). Absent include flags default to true in JSON; in a form
body they are checkboxes, so an absent flag is false. Validate also reads
backup_path from the query string.

# Errors

Error responses share one shape:

	{"error": "backup database file not found", "code": "BACKUP_NOT_FOUND", "details": "..."}

Status codes:
  - 400: request validation failed or unknown restore mode
  - 404: the backup directory or its database file does not exist
  - 503: a restore already replaced the live store and a restart is pending
  - 500: anything else

# Restart After Restore

A restore closes the live store. After the response is written the handler
asks the RestartScheduler to stop the process; the supervisor drains the
HTTP server and main exits with status 0.

# Middleware

The router applies, in order: request ID, real IP, panic recovery, CORS
(go-chi/cors), per-IP rate limiting (go-chi/httprate), security headers and
Prometheus request metrics. The list endpoint is additionally gzip
compressed.
*/
package api
