// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed by the API router at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Snapshot Metrics:
  - backup_snapshot_duration_seconds: build time (histogram), labels: trigger
  - backup_snapshots_total: builds (counter), labels: trigger, status
  - backup_snapshot_last_success_timestamp: last successful build (gauge)
  - backup_snapshot_size_bytes: size of the last delivered snapshot (gauge)
  - backup_images_relocated_total: images processed (counter), labels: result

Restore Metrics:
  - backup_restores_total: restores (counter), labels: mode, status
    (status is success, degraded or error)
  - backup_restore_duration_seconds: restore time (histogram)
  - backup_restore_warnings_total: degraded steps (counter), labels: step
  - backup_table_reloads_total: row-level reload outcomes (counter), labels: outcome
  - backup_restart_pending: 1 while the process waits to be restarted (gauge)

Retention and Validation:
  - backup_snapshots_pruned_total: directories removed by retention (counter)
  - backup_validations_total: validations (counter), labels: valid
  - backup_snapshot_info_cache: listing cache hits, misses, evictions and
    entries (gauge), labels: stat
  - backup_snapshot_info_cache_hit_rate_percent: listing cache hit rate (gauge)

HTTP Metrics:
  - api_requests_total: requests (counter), labels: method, endpoint, status_code
  - api_request_duration_seconds: latency (histogram), labels: method, endpoint
  - api_active_requests: in-flight requests (gauge)
  - api_rate_limit_hits_total: rate limit rejections (counter), labels: endpoint

# Usage

	start := time.Now()
	res, err := manager.BuildSnapshot(ctx)
	metrics.RecordSnapshot("manual", time.Since(start), res.ImagesCopied, res.ImagesSkipped, err)

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
