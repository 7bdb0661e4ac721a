// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestSelectForDeletion(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	// Newest first, one per day going back.
	snapshots := make([]SnapshotInfo, 10)
	for i := range snapshots {
		snapshots[i] = SnapshotInfo{
			Name:      fmt.Sprintf("s%d", i),
			CreatedAt: now.AddDate(0, 0, -i*10),
		}
	}

	tests := []struct {
		name   string
		policy RetentionPolicy
		want   []string
	}{
		{"no limits", RetentionPolicy{MinCount: 1}, nil},
		{"max count", RetentionPolicy{MinCount: 1, MaxCount: 7}, []string{"s7", "s8", "s9"}},
		{"max age", RetentionPolicy{MinCount: 1, MaxAgeDays: 45}, []string{"s5", "s6", "s7", "s8", "s9"}},
		{"min count protects old", RetentionPolicy{MinCount: 8, MaxAgeDays: 5}, []string{"s8", "s9"}},
		{"min count beats max count", RetentionPolicy{MinCount: 5, MaxCount: 3}, []string{"s5", "s6", "s7", "s8", "s9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := selectForDeletion(snapshots, tt.policy, now)
			if len(got) != len(tt.want) {
				t.Fatalf("deleted %d, want %v", len(got), tt.want)
			}
			for i, s := range got {
				if s.Name != tt.want[i] {
					t.Errorf("deleted[%d] = %s, want %s", i, s.Name, tt.want[i])
				}
			}
		})
	}
}

func TestListSnapshotsAndApplyRetention(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	cfg := env.newTestConfig()
	cfg.Retention = RetentionPolicy{MinCount: 1, MaxCount: 2}
	m := env.newTestManagerWithConfig(t, cfg)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		m.now = fixedClock(base.AddDate(0, 0, i))
		if _, err := m.BuildSnapshot(context.Background()); err != nil {
			t.Fatalf("BuildSnapshot() error = %v", err)
		}
	}
	// Directories without metadata are ignored.
	writeTestFile(t, filepath.Join(env.backupDir, "salon-backup-broken", "database", "salon.db"), []byte("x"))

	list, err := m.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("ListSnapshots() = %d entries, want 4", len(list))
	}
	if list[0].Name != "salon-backup-2024-01-04_09-00-00" {
		t.Errorf("newest first expected, got %s", list[0].Name)
	}
	if list[0].SizeBytes <= 0 {
		t.Error("SizeBytes should be set")
	}

	m.now = fixedClock(base.AddDate(0, 0, 5))
	result, err := m.ApplyRetention(context.Background())
	if err != nil {
		t.Fatalf("ApplyRetention() error = %v", err)
	}
	if len(result.Deleted) != 2 || result.Kept != 2 {
		t.Errorf("result = %+v, want 2 deleted and 2 kept", result)
	}
	if result.FreedBytes <= 0 {
		t.Error("FreedBytes should be positive")
	}

	list, err = m.ListSnapshots()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[1].Name != "salon-backup-2024-01-03_09-00-00" {
		t.Errorf("remaining = %+v", list)
	}
	if !dirExists(filepath.Join(env.backupDir, "salon-backup-broken")) {
		t.Error("directories without metadata must not be pruned")
	}
	for _, name := range result.Deleted {
		if _, ok := m.infos.Get(name); ok {
			t.Errorf("pruned snapshot %s still cached", name)
		}
	}
}

func TestListSnapshots_ReusesMeasuredSize(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	m := env.newTestManager(t)

	result, err := m.BuildSnapshot(context.Background())
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	first, err := m.ListSnapshots()
	if err != nil || len(first) != 1 {
		t.Fatalf("ListSnapshots() = %v, %v", first, err)
	}

	writeTestFile(t, filepath.Join(result.SnapshotRoot, "extra.bin"), make([]byte, 1024))
	second, err := m.ListSnapshots()
	if err != nil {
		t.Fatal(err)
	}
	if second[0].SizeBytes != first[0].SizeBytes {
		t.Errorf("SizeBytes = %d, want cached %d", second[0].SizeBytes, first[0].SizeBytes)
	}

	m.infos.Delete(filepath.Base(result.SnapshotRoot))
	third, err := m.ListSnapshots()
	if err != nil {
		t.Fatal(err)
	}
	if third[0].SizeBytes != first[0].SizeBytes+1024 {
		t.Errorf("SizeBytes after delete = %d, want %d", third[0].SizeBytes, first[0].SizeBytes+1024)
	}
}
