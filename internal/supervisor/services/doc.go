// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package services provides suture.Service wrappers for the long-running parts
of the server.

  - HTTPServerService: runs an *http.Server with graceful shutdown
  - RestartCoordinator: stops the tree after a restore so the process can be
    restarted against the restored store

The snapshot scheduler lives in the backup package and implements
suture.Service directly.

Every service returns ctx.Err() on shutdown and implements fmt.Stringer so
suture can name it in log events.
*/
package services
