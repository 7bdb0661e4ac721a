// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Fields are reported
// by their json tag name, so a restore request missing its path fails with
// "backup_path is required" rather than the Go field name.
//
// # Custom Tags
//
//   - backuppath: non-blank and free of control characters
//
// # Usage
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
