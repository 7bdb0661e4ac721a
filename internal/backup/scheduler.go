// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
scheduler.go - Snapshot Scheduling

Scheduler builds directory snapshots at a fixed interval and prunes old
ones afterwards. It implements suture.Service and runs under the
supervisor tree.

Timer Logic:
  - For intervals >= 24h with a preferred hour: run at that hour, on the
    next day it has not yet passed, plus any whole extra days
  - Otherwise: now + interval
  - The timer is reset after each run completes

Failed runs are logged and the loop continues. After a restore the
Manager refuses new snapshots until the restart; the scheduler just logs
those refusals.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"time"
)

// Scheduler runs periodic snapshots.
type Scheduler struct {
	manager  *Manager
	schedule ScheduleConfig
	name     string

	// now is replaceable in tests
	now func() time.Time
}

// NewScheduler creates a scheduler for the manager's schedule configuration.
func NewScheduler(manager *Manager) *Scheduler {
	return &Scheduler{
		manager:  manager,
		schedule: manager.cfg.Schedule,
		name:     "backup-scheduler",
		now:      time.Now,
	}
}

// Serve implements suture.Service. Returns ctx.Err() on shutdown.
func (s *Scheduler) Serve(ctx context.Context) error {
	if !s.schedule.Enabled {
		<-ctx.Done()
		return ctx.Err()
	}

	next := calculateNextRunTime(s.now().In(s.manager.cfg.location()), s.schedule)
	s.manager.log.Info().Time("next_run", next).Msg("Backup scheduler started")

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			s.runOnce(ctx)

			next = calculateNextRunTime(s.now().In(s.manager.cfg.location()), s.schedule)
			s.manager.log.Debug().Time("next_run", next).Msg("Next scheduled snapshot")
			timer.Reset(time.Until(next))
		}
	}
}

// runOnce builds one snapshot and applies retention.
func (s *Scheduler) runOnce(ctx context.Context) {
	result, err := s.manager.BuildSnapshotWithTrigger(ctx, TriggerScheduled)
	switch {
	case errors.Is(err, ErrRestartPending):
		s.manager.log.Warn().Msg("Scheduled snapshot skipped, restart pending")
		return
	case err != nil:
		s.manager.log.Error().Err(err).Msg("Scheduled snapshot failed")
	default:
		s.manager.log.Info().Str("path", result.SnapshotRoot).Msg("Scheduled snapshot completed")
	}

	if _, err := s.manager.ApplyRetention(ctx); err != nil && !errors.Is(err, ErrRestartPending) {
		s.manager.log.Error().Err(err).Msg("Retention policy application failed")
	}
}

// String implements fmt.Stringer for logging.
func (s *Scheduler) String() string {
	return s.name
}

// calculateNextRunTime determines when the next scheduled snapshot should run
func calculateNextRunTime(now time.Time, schedule ScheduleConfig) time.Time {
	interval := schedule.Interval

	if interval >= 24*time.Hour && schedule.PreferredHour >= 0 {
		// Daily or longer - use preferred hour
		next := time.Date(now.Year(), now.Month(), now.Day(),
			schedule.PreferredHour, 0, 0, 0, now.Location())

		// If we've already passed the preferred hour today, schedule for tomorrow
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		// Add additional days if interval is more than 24h
		if days := int(interval.Hours() / 24); days > 1 {
			next = next.AddDate(0, 0, days-1)
		}

		return next
	}

	// Shorter interval - just add interval to now
	return now.Add(interval)
}
