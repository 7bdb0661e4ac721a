// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

// Package models defines the salon records shared by the database and
// backup packages: customers, treatments, treatment images, the six master
// lookup tables, the joined rows used for snapshot exports, and the JSON
// bodies of the HTTP API.
package models
