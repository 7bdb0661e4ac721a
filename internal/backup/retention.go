// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
retention.go - Snapshot Listing and Retention

Snapshots are plain directories under the backups root; there is no
separate index. ListSnapshots scans for salon-backup-* directories that
carry a metadata.json. Directories without metadata (a build that failed
midway, or foreign folders) are never listed and never pruned.

Retention Rules (applied newest first):
 1. The newest MinCount snapshots are always kept
 2. Snapshots older than MaxAgeDays are deleted (0 = no age limit)
 3. Snapshots beyond MaxCount are deleted, oldest first (0 = no count limit)
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/metrics"
)

// ListSnapshots returns the snapshots under the backups root, newest first.
func (m *Manager) ListSnapshots() ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(m.cfg.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	loc := m.cfg.location()
	snapshots := make([]SnapshotInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), SnapshotPrefix) {
			continue
		}
		info, ok := m.infos.Get(e.Name())
		if !ok {
			info, ok = describeSnapshot(m.cfg.BackupDir, e.Name(), loc)
			if !ok {
				continue
			}
			m.infos.Set(e.Name(), info)
		}
		snapshots = append(snapshots, info)
	}

	sortSnapshotsNewestFirst(snapshots)

	stats := m.infos.GetStats()
	metrics.RecordSnapshotInfoCache(stats.Hits, stats.Misses, stats.Evictions, stats.TotalKeys, m.infos.HitRate())
	return snapshots, nil
}

// describeSnapshot reads the metadata of one snapshot directory and measures
// it. Returns false when the directory carries no readable metadata.
func describeSnapshot(backupDir, name string, loc *time.Location) (SnapshotInfo, bool) {
	root := filepath.Join(backupDir, name)
	meta, err := readMetadata(filepath.Join(root, MetadataFile))
	if err != nil {
		return SnapshotInfo{}, false
	}

	info := SnapshotInfo{
		Name:      name,
		Path:      root,
		CreatedAt: meta.CreatedAt,
		HasImages: dirExists(filepath.Join(root, ImagesDirName)),
		RowCounts: meta.RowCounts,
	}
	if info.CreatedAt.IsZero() {
		if t, ok := parseSnapshotName(name, loc); ok {
			info.CreatedAt = t
		}
	}
	if size, err := dirSize(root); err == nil {
		info.SizeBytes = size
	}
	return info, true
}

// ApplyRetention deletes the snapshots the retention policy no longer keeps
func (m *Manager) ApplyRetention(ctx context.Context) (*PruneResult, error) {
	unlock, err := m.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	ctx = logging.ContextWithOperation(ctx, "prune")

	snapshots, err := m.ListSnapshots()
	if err != nil {
		return nil, err
	}

	toDelete := selectForDeletion(snapshots, m.cfg.Retention, m.now())
	result := &PruneResult{Deleted: make([]string, 0, len(toDelete))}
	for _, s := range toDelete {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		m.infos.Delete(s.Name)
		if err := os.RemoveAll(s.Path); err != nil {
			m.logCtx(ctx).Warn().Err(err).Str("path", s.Path).Msg("Failed to delete snapshot")
			result.FailedDelete = append(result.FailedDelete, s.Name)
			continue
		}
		result.Deleted = append(result.Deleted, s.Name)
		result.FreedBytes += s.SizeBytes
	}
	result.Kept = len(snapshots) - len(result.Deleted)

	if len(result.Deleted) > 0 {
		metrics.SnapshotsPruned.Add(float64(len(result.Deleted)))
		m.logCtx(ctx).Info().
			Int("deleted_count", len(result.Deleted)).
			Float64("freed_mb", float64(result.FreedBytes)/(1024*1024)).
			Msg("Retention policy applied")
	}
	return result, nil
}

// selectForDeletion applies the retention rules to snapshots sorted newest first.
func selectForDeletion(snapshots []SnapshotInfo, policy RetentionPolicy, now time.Time) []SnapshotInfo {
	var toDelete []SnapshotInfo
	for i, s := range snapshots {
		if i < policy.MinCount {
			continue
		}
		if shouldDeleteByAge(s, policy, now) || shouldDeleteByCount(i, policy) {
			toDelete = append(toDelete, s)
		}
	}
	return toDelete
}

// shouldDeleteByAge returns true if a snapshot is older than MaxAgeDays
func shouldDeleteByAge(s SnapshotInfo, policy RetentionPolicy, now time.Time) bool {
	if policy.MaxAgeDays <= 0 {
		return false
	}
	cutoff := now.AddDate(0, 0, -policy.MaxAgeDays)
	return s.CreatedAt.Before(cutoff)
}

// shouldDeleteByCount returns true if position (0 = newest) is beyond MaxCount
func shouldDeleteByCount(position int, policy RetentionPolicy) bool {
	return policy.MaxCount > 0 && position >= policy.MaxCount
}

func sortSnapshotsNewestFirst(snapshots []SnapshotInfo) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].Name > snapshots[j].Name
		}
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
}
