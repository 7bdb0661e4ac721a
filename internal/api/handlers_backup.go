// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/tomtom215/salonkeeper/internal/backup"
	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/models"
)

// Snapshot delivery formats.
const (
	formatDirectory = "directory"
	formatZip       = "zip"
)

// respondBackupError maps backup errors to status codes.
func respondBackupError(w http.ResponseWriter, err error, fallbackCode, fallbackMessage string) {
	switch {
	case errors.Is(err, backup.ErrRestartPending):
		respondError(w, http.StatusServiceUnavailable, "RESTART_PENDING",
			"A restore has completed; the server is restarting", nil, err)
	case errors.Is(err, backup.ErrInvalidRestoreMode):
		respondError(w, http.StatusBadRequest, "INVALID_RESTORE_MODE",
			"restore_mode must be full or merge", err.Error(), nil)
	case errors.Is(err, backup.ErrLiveDatabaseNotFound):
		respondError(w, http.StatusInternalServerError, "LIVE_DATABASE_NOT_FOUND",
			"Live database file not found", err.Error(), err)
	case errors.Is(err, backup.ErrBackupDatabaseNotFound):
		respondError(w, http.StatusNotFound, "BACKUP_NOT_FOUND",
			"Backup database file not found", err.Error(), err)
	case errors.Is(err, fs.ErrNotExist):
		respondError(w, http.StatusNotFound, "BACKUP_NOT_FOUND",
			"Backup not found", err.Error(), err)
	default:
		respondError(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, err.Error(), err)
	}
}

// HandleCreateBackup builds a snapshot of the live store.
// POST /api/backup/create?format=directory|zip
func (h *Handler) HandleCreateBackup(w http.ResponseWriter, r *http.Request) {
	if !checkHTTPMethod(w, r, http.MethodPost) {
		return
	}

	req := CreateBackupRequest{Format: r.URL.Query().Get("format")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Error, apiErr.Details, nil)
		return
	}

	result, err := h.backups.BuildSnapshotWithTrigger(r.Context(), backup.TriggerManual)
	if err != nil {
		respondBackupError(w, err, "BACKUP_FAILED", "Failed to create backup")
		return
	}

	if req.Format == formatZip {
		h.sendArchive(w, r, result)
		return
	}

	loc, err := h.packager.Locate(result.SnapshotRoot)
	if err != nil {
		respondBackupError(w, err, "BACKUP_FAILED", "Failed to locate backup")
		return
	}

	respondJSON(w, http.StatusOK, &models.CreateBackupResponse{
		Success:    true,
		BackupPath: loc.Path,
		DataSummary: models.DataSummary{
			DatabaseCopied: result.DatabaseCopied,
			ImagesCopied:   result.ImagesCopied,
			ImagesSkipped:  result.ImagesSkipped,
			BackupSize:     loc.SizeBytes,
		},
	})
}

// sendArchive packs the snapshot and streams the zip. The snapshot directory
// is gone afterwards whether or not packing succeeded.
func (h *Handler) sendArchive(w http.ResponseWriter, r *http.Request, result *backup.SnapshotResult) {
	data, err := h.packager.Pack(r.Context(), result.SnapshotRoot)
	if err != nil {
		respondBackupError(w, err, "ARCHIVE_FAILED", "Failed to create backup archive")
		return
	}

	filename := backup.ArchiveFileName(result.CreatedAt)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("filename", filename).Msg("Failed to write backup archive")
	}
}

// HandleValidateBackup checks a snapshot directory. Both valid and invalid
// snapshots answer 200; the body says which.
// GET|POST /api/backup/validate
func (h *Handler) HandleValidateBackup(w http.ResponseWriter, r *http.Request) {
	if !checkHTTPMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	req, err := parseValidateRequest(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil, nil)
		return
	}
	if apiErr := validateRequest(req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Error, apiErr.Details, nil)
		return
	}

	respondJSON(w, http.StatusOK, h.backups.Validate(req.BackupPath))
}

// HandleRestoreBackup restores a snapshot over the live store and schedules
// a process restart.
// POST /api/backup/restore
func (h *Handler) HandleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	if !checkHTTPMethod(w, r, http.MethodPost) {
		return
	}

	req, err := parseRestoreRequest(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil, nil)
		return
	}
	if apiErr := validateRequest(req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Error, apiErr.Details, nil)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("backup_path", sanitizeLogValue(req.BackupPath)).
		Str("mode", string(req.Mode)).
		Bool("include_images", req.IncludeImages).
		Bool("include_masters", req.IncludeMasters).
		Msg("Restore requested")

	result, err := h.backups.Restore(r.Context(), req)

	// A restore that failed after closing the live store still needs the restart.
	if h.backups.RestartPending() {
		defer h.restarter.ScheduleRestart("restore of " + sanitizeLogValue(req.BackupPath))
	}

	if err != nil {
		respondBackupError(w, err, "RESTORE_FAILED", "Failed to restore backup")
		return
	}

	respondJSON(w, http.StatusOK, &models.RestoreResponse{
		Message:         "Restore completed. The server will restart to load the restored data.",
		BackupPath:      result.BackupPath,
		RestoredAt:      result.RestoredAt,
		Mode:            string(result.Mode),
		RestartRequired: result.RestartRequired,
		LogicalSwap:     string(result.LogicalSwap),
		ImagesRestored:  result.ImagesRestored,
		Warnings:        result.Warnings,
	})
}

// SnapshotListResponse is returned by GET /api/backups.
type SnapshotListResponse struct {
	Snapshots []backup.SnapshotInfo `json:"snapshots"`
	Count     int                   `json:"count"`
}

// HandleListBackups lists snapshot directories, newest first.
// GET /api/backups
func (h *Handler) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if !checkHTTPMethod(w, r, http.MethodGet) {
		return
	}

	snapshots, err := h.backups.ListSnapshots()
	if err != nil {
		respondBackupError(w, err, "LIST_FAILED", "Failed to list backups")
		return
	}
	if snapshots == nil {
		snapshots = []backup.SnapshotInfo{}
	}
	respondJSON(w, http.StatusOK, &SnapshotListResponse{Snapshots: snapshots, Count: len(snapshots)})
}

// HandlePruneBackups applies the retention policy.
// POST /api/backups/prune
func (h *Handler) HandlePruneBackups(w http.ResponseWriter, r *http.Request) {
	if !checkHTTPMethod(w, r, http.MethodPost) {
		return
	}

	result, err := h.backups.ApplyRetention(r.Context())
	if err != nil {
		respondBackupError(w, err, "PRUNE_FAILED", "Failed to prune backups")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
