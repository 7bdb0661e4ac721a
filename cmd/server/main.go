// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/salonkeeper/internal/api"
	"github.com/tomtom215/salonkeeper/internal/backup"
	"github.com/tomtom215/salonkeeper/internal/config"
	"github.com/tomtom215/salonkeeper/internal/database"
	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/metrics"
	"github.com/tomtom215/salonkeeper/internal/supervisor"
	"github.com/tomtom215/salonkeeper/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// httpShutdownTimeout bounds the drain of in-flight requests.
const httpShutdownTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

// run wires the server and returns the process exit code. Deferred cleanup
// runs before main exits.
func run() int {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logging.Info().Str("version", version).Msg("Starting Salonkeeper with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("images_dir", cfg.Database.ImagesDir).
		Str("backup_dir", cfg.Backup.Dir).
		Str("timezone", cfg.Backup.Timezone).
		Msg("Configuration loaded")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open live store")
		return 1
	}
	// Close is idempotent; a restore has usually closed the store already.
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemoData {
		seedDemoData(db)
	}

	manager, err := backup.NewManager(backup.ConfigFromApp(&cfg.Backup), db)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize backup manager")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restarter := services.NewRestartCoordinator(cfg.Backup.RestartDelay, cancel)

	handler, err := api.NewHandler(api.HandlerConfig{
		Backups:   manager,
		Packager:  manager.Packager(),
		Restarter: restarter,
		Store:     db,
		Version:   version,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create API handler")
		return 1
	}

	mw := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, mw).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Zip downloads and restores copy the whole photo tree.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: httpShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}

	if cfg.Backup.Schedule.Enabled {
		tree.AddDataService(backup.NewScheduler(manager))
		logging.Info().
			Dur("interval", cfg.Backup.Schedule.Interval).
			Int("preferred_hour", cfg.Backup.Schedule.PreferredHour).
			Msg("Backup scheduler added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, httpShutdownTimeout))
	tree.AddAPIService(restarter)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	exitCode := 0
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			exitCode = 1
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	if restarter.Requested() {
		logging.Info().Msg("Exiting for restart after restore")
		return 0
	}
	logging.Info().Msg("Application stopped gracefully")
	return exitCode
}

// seedDemoData fills an empty store. Failures are logged and ignored.
func seedDemoData(db *database.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := db.CountRows(ctx, database.TableCustomers)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to count customers, skipping demo data")
		return
	}
	if n > 0 {
		logging.Info().Int64("customers", n).Msg("Store not empty, skipping demo data")
		return
	}
	if err := db.SeedDemoData(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to seed demo data")
	}
}
