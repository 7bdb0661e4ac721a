// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package supervisor provides process supervision for the server using suture v4.

# Overview

Services are organized into two layers:

	RootSupervisor ("salonkeeper")
	├── DataSupervisor ("data-layer")
	│   └── backup.Scheduler
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService
	    └── RestartCoordinator

Crashed services are restarted with suture's failure counting and backoff.
Supervisor events are logged through sutureslog.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(backup.NewScheduler(manager))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 30*time.Second))
	tree.AddAPIService(restarter)

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Restart After Restore

A restore replaces the live SQLite file underneath the open store. The
RestartCoordinator cancels the root context after a short delay so the HTTP
server drains and the process exits with status 0. systemd or Docker then
starts a fresh process against the restored files.

# What Is NOT Supervised

The SQLite store is a library handle, not a service. It is opened before the
tree starts and closed after the tree stops.
*/
package supervisor
