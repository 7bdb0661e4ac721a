// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordSnapshot tests snapshot metric recording
func TestRecordSnapshot(t *testing.T) {
	beforeSuccess := testutil.ToFloat64(SnapshotsTotal.WithLabelValues("manual", "success"))
	beforeError := testutil.ToFloat64(SnapshotsTotal.WithLabelValues("manual", "error"))
	beforeCopied := testutil.ToFloat64(ImagesRelocated.WithLabelValues("copied"))
	beforeSkipped := testutil.ToFloat64(ImagesRelocated.WithLabelValues("skipped"))

	RecordSnapshot("manual", 2*time.Second, 10, 2, nil)
	RecordSnapshot("manual", time.Second, 0, 0, errors.New("live database not found"))

	if got := testutil.ToFloat64(SnapshotsTotal.WithLabelValues("manual", "success")) - beforeSuccess; got != 1 {
		t.Errorf("success count delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SnapshotsTotal.WithLabelValues("manual", "error")) - beforeError; got != 1 {
		t.Errorf("error count delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ImagesRelocated.WithLabelValues("copied")) - beforeCopied; got != 10 {
		t.Errorf("copied delta = %v, want 10", got)
	}
	if got := testutil.ToFloat64(ImagesRelocated.WithLabelValues("skipped")) - beforeSkipped; got != 2 {
		t.Errorf("skipped delta = %v, want 2", got)
	}
	if testutil.ToFloat64(SnapshotLastSuccess) == 0 {
		t.Error("SnapshotLastSuccess should be set after a successful build")
	}
}

// TestRecordRestore tests restore status classification
func TestRecordRestore(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		warnings   int
		err        error
		wantStatus string
	}{
		{"clean full restore", "full", 0, nil, "success"},
		{"merge restore with warnings", "merge", 2, nil, "degraded"},
		{"failed restore", "full", 0, errors.New("backup database file not found"), "error"},
		{"error wins over warnings", "merge", 3, errors.New("rename failed"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RestoresTotal.WithLabelValues(tt.mode, tt.wantStatus))
			RecordRestore(tt.mode, 500*time.Millisecond, tt.warnings, tt.err)
			after := testutil.ToFloat64(RestoresTotal.WithLabelValues(tt.mode, tt.wantStatus))
			if after-before != 1 {
				t.Errorf("status %q delta = %v, want 1", tt.wantStatus, after-before)
			}
		})
	}
}

// TestRecordTableReload tests table reload outcome counting
func TestRecordTableReload(t *testing.T) {
	for _, outcome := range []string{"applied", "skipped", "failed"} {
		before := testutil.ToFloat64(TableReloads.WithLabelValues(outcome))
		RecordTableReload(outcome)
		if got := testutil.ToFloat64(TableReloads.WithLabelValues(outcome)) - before; got != 1 {
			t.Errorf("%s delta = %v, want 1", outcome, got)
		}
	}
}

// TestRecordValidation tests validation counters
func TestRecordValidation(t *testing.T) {
	beforeValid := testutil.ToFloat64(ValidationsTotal.WithLabelValues("true"))
	beforeInvalid := testutil.ToFloat64(ValidationsTotal.WithLabelValues("false"))

	RecordValidation(true)
	RecordValidation(false)
	RecordValidation(false)

	if got := testutil.ToFloat64(ValidationsTotal.WithLabelValues("true")) - beforeValid; got != 1 {
		t.Errorf("valid delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ValidationsTotal.WithLabelValues("false")) - beforeInvalid; got != 2 {
		t.Errorf("invalid delta = %v, want 2", got)
	}
}

// TestSetRestartPending tests the restart gauge
func TestSetRestartPending(t *testing.T) {
	SetRestartPending(true)
	if got := testutil.ToFloat64(RestartPending); got != 1 {
		t.Errorf("RestartPending = %v, want 1", got)
	}
	SetRestartPending(false)
	if got := testutil.ToFloat64(RestartPending); got != 0 {
		t.Errorf("RestartPending = %v, want 0", got)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{"create directory snapshot", "POST", "/api/backup/create", "200", 2 * time.Second},
		{"validate missing backup", "GET", "/api/backup/validate", "200", 5 * time.Millisecond},
		{"restore missing backup", "POST", "/api/backup/restore", "404", 3 * time.Millisecond},
		{"restore bad request", "POST", "/api/backup/restore", "400", time.Millisecond},
		{"rate limited", "GET", "/api/backups", "429", time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			if after-before != 1 {
				t.Errorf("request count delta = %v, want 1", after-before)
			}
		})
	}
}

// TestTrackActiveRequest_Concurrent verifies the gauge returns to its start value
func TestTrackActiveRequest_Concurrent(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("APIActiveRequests = %v, want %v", got, start)
	}
}

func TestRecordSnapshotInfoCache(t *testing.T) {
	RecordSnapshotInfoCache(3, 1, 2, 4, 75)

	for stat, want := range map[string]float64{"hits": 3, "misses": 1, "evictions": 2, "entries": 4} {
		if got := testutil.ToFloat64(SnapshotInfoCache.WithLabelValues(stat)); got != want {
			t.Errorf("%s = %v, want %v", stat, got, want)
		}
	}
	if got := testutil.ToFloat64(SnapshotInfoCacheHitRate); got != 75 {
		t.Errorf("hit rate = %v, want 75", got)
	}
}
