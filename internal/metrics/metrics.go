// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Snapshot builds and image relocation
// - Restores and the row-level table reload
// - Retention pruning
// - API endpoint latency and throughput

var (
	// Snapshot Metrics
	SnapshotDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_snapshot_duration_seconds",
			Help:    "Duration of snapshot builds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"trigger"},
	)

	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_snapshots_total",
			Help: "Total number of snapshot builds by trigger and outcome",
		},
		[]string{"trigger", "status"}, // status: "success", "error"
	)

	SnapshotLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_snapshot_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot",
		},
	)

	SnapshotSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_snapshot_size_bytes",
			Help: "Size of the most recently delivered snapshot in bytes",
		},
	)

	ImagesRelocated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_images_relocated_total",
			Help: "Total number of images processed during snapshot builds",
		},
		[]string{"result"}, // "copied", "skipped"
	)

	// Restore Metrics
	RestoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_restores_total",
			Help: "Total number of restores by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	RestoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backup_restore_duration_seconds",
			Help:    "Duration of restores in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	RestoreWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_restore_warnings_total",
			Help: "Total number of degraded restore steps",
		},
		[]string{"step"},
	)

	TableReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_table_reloads_total",
			Help: "Outcomes of the row-level table reload during restore",
		},
		[]string{"outcome"}, // "applied", "skipped", "failed"
	)

	RestartPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_restart_pending",
			Help: "1 when a restore completed and the process awaits restart",
		},
	)

	// Retention Metrics
	SnapshotsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_snapshots_pruned_total",
			Help: "Total number of snapshot directories removed by retention",
		},
	)

	// Snapshot listing cache, refreshed on every listing
	SnapshotInfoCache = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backup_snapshot_info_cache",
			Help: "Snapshot listing cache counters by stat",
		},
		[]string{"stat"}, // "hits", "misses", "evictions", "entries"
	)

	SnapshotInfoCacheHitRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_snapshot_info_cache_hit_rate_percent",
			Help: "Snapshot listing cache hit rate as a percentage",
		},
	)

	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_validations_total",
			Help: "Total number of backup validations by result",
		},
		[]string{"valid"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordSnapshot records a snapshot build
func RecordSnapshot(trigger string, duration time.Duration, copied, skipped int, err error) {
	SnapshotDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	if err != nil {
		SnapshotsTotal.WithLabelValues(trigger, "error").Inc()
		return
	}
	SnapshotsTotal.WithLabelValues(trigger, "success").Inc()
	SnapshotLastSuccess.Set(float64(time.Now().Unix()))
	ImagesRelocated.WithLabelValues("copied").Add(float64(copied))
	ImagesRelocated.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordRestore records a restore attempt
func RecordRestore(mode string, duration time.Duration, warnings int, err error) {
	RestoreDuration.Observe(duration.Seconds())
	status := "success"
	switch {
	case err != nil:
		status = "error"
	case warnings > 0:
		status = "degraded"
	}
	RestoresTotal.WithLabelValues(mode, status).Inc()
}

// RecordRestoreWarning records one degraded restore step
func RecordRestoreWarning(step string) {
	RestoreWarnings.WithLabelValues(step).Inc()
}

// RecordTableReload records the outcome of the row-level table reload
func RecordTableReload(outcome string) {
	TableReloads.WithLabelValues(outcome).Inc()
}

// RecordSnapshotInfoCache publishes the listing cache counters
func RecordSnapshotInfoCache(hits, misses, evictions, entries int64, hitRate float64) {
	SnapshotInfoCache.WithLabelValues("hits").Set(float64(hits))
	SnapshotInfoCache.WithLabelValues("misses").Set(float64(misses))
	SnapshotInfoCache.WithLabelValues("evictions").Set(float64(evictions))
	SnapshotInfoCache.WithLabelValues("entries").Set(float64(entries))
	SnapshotInfoCacheHitRate.Set(hitRate)
}

// RecordValidation records a validation result
func RecordValidation(valid bool) {
	if valid {
		ValidationsTotal.WithLabelValues("true").Inc()
		return
	}
	ValidationsTotal.WithLabelValues("false").Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetRestartPending flips the restart-pending gauge
func SetRestartPending(pending bool) {
	if pending {
		RestartPending.Set(1)
	} else {
		RestartPending.Set(0)
	}
}
