// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/salonkeeper/internal/logging"
)

// RestartCoordinator ends the process after a restore has replaced the live
// store. A restore cannot reopen the store in place, so the process exits
// cleanly and relies on its external supervisor (systemd, Docker) to start
// it again against the restored files.
//
// ScheduleRestart may be called from any goroutine. After delay, the
// coordinator calls stop, which main wires to the cancel func of the root
// supervisor context. Only the first request counts.
type RestartCoordinator struct {
	delay    time.Duration
	stop     context.CancelFunc
	requests chan string
	once     sync.Once
	fired    atomic.Bool
	name     string
}

// NewRestartCoordinator creates a coordinator that calls stop delay after
// the first restart request.
func NewRestartCoordinator(delay time.Duration, stop context.CancelFunc) *RestartCoordinator {
	if delay < 0 {
		delay = 0
	}
	return &RestartCoordinator{
		delay:    delay,
		stop:     stop,
		requests: make(chan string, 1),
		name:     "restart-coordinator",
	}
}

// ScheduleRestart requests a process restart. It never blocks.
func (c *RestartCoordinator) ScheduleRestart(reason string) {
	c.once.Do(func() {
		logging.Warn().
			Str("reason", reason).
			Dur("delay", c.delay).
			Msg("Process restart scheduled")
		c.requests <- reason
	})
}

// Requested reports whether a restart has been requested. main uses it to
// choose a clean exit over an error exit once the tree stops.
func (c *RestartCoordinator) Requested() bool {
	return c.fired.Load()
}

// Serve implements suture.Service.
func (c *RestartCoordinator) Serve(ctx context.Context) error {
	var reason string
	select {
	case <-ctx.Done():
		return ctx.Err()
	case reason = <-c.requests:
	}

	c.fired.Store(true)

	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	logging.Info().Str("reason", reason).Msg("Stopping for restart")
	c.stop()

	<-ctx.Done()
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (c *RestartCoordinator) String() string {
	return c.name
}
