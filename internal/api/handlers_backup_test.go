// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/salonkeeper/internal/backup"
	"github.com/tomtom215/salonkeeper/internal/models"
)

func TestHandleCreateBackup_Directory(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/backup/create", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[models.CreateBackupResponse](t, rec)
	if !resp.Success || resp.BackupPath != "/backups/salon-backup-2024-01-20_10-30-05" {
		t.Errorf("response = %+v", resp)
	}
	want := models.DataSummary{DatabaseCopied: true, ImagesCopied: 3, ImagesSkipped: 1, BackupSize: 1234}
	if resp.DataSummary != want {
		t.Errorf("data_summary = %+v, want %+v", resp.DataSummary, want)
	}
	if ts.backups.lastTrigger != backup.TriggerManual {
		t.Errorf("trigger = %q", ts.backups.lastTrigger)
	}
	if ts.packager.packed != "" {
		t.Error("directory mode must not pack")
	}
}

func TestHandleCreateBackup_Zip(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/backup/create?format=zip", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	wantDisposition := `attachment; filename="salon-backup-2024-01-20_10-30-05.zip"`
	if got := rec.Header().Get("Content-Disposition"); got != wantDisposition {
		t.Errorf("Content-Disposition = %q, want %q", got, wantDisposition)
	}
	if rec.Body.String() != "PK\x03\x04fake" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ts.packager.packed != ts.backups.snapshot.SnapshotRoot {
		t.Errorf("packed %q", ts.packager.packed)
	}
}

func TestHandleCreateBackup_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   string
		buildErr error
		packErr  error
		wantCode int
		wantErr  string
	}{
		{"bad format", "/api/backup/create?format=tar", nil, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing live db", "/api/backup/create", fmt.Errorf("%w: /data/salon.db", backup.ErrLiveDatabaseNotFound), nil, http.StatusInternalServerError, "LIVE_DATABASE_NOT_FOUND"},
		{"restart pending", "/api/backup/create", backup.ErrRestartPending, nil, http.StatusServiceUnavailable, "RESTART_PENDING"},
		{"build failure", "/api/backup/create", errBoom, nil, http.StatusInternalServerError, "BACKUP_FAILED"},
		{"pack failure", "/api/backup/create?format=zip", nil, errBoom, http.StatusInternalServerError, "ARCHIVE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.backups.buildErr = tt.buildErr
			if tt.buildErr != nil {
				ts.backups.snapshot = nil
			}
			ts.packager.packErr = tt.packErr

			rec := ts.do(t, http.MethodPost, tt.target, "", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if resp := decodeBody[models.APIError](t, rec); resp.Code != tt.wantErr || resp.Error == "" {
				t.Errorf("error body = %+v, want code %s", resp, tt.wantErr)
			}
		})
	}
}

func TestHandleCreateBackup_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/backup/create", "", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleValidateBackup_Inputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
	}{
		{"query", http.MethodGet, "/api/backup/validate?backup_path=salon-backup-2024-01-20_10-30-05", "", ""},
		{"json", http.MethodPost, "/api/backup/validate", "application/json", `{"backup_path":"salon-backup-2024-01-20_10-30-05"}`},
		{"form", http.MethodPost, "/api/backup/validate", "application/x-www-form-urlencoded", "backup_path=salon-backup-2024-01-20_10-30-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)

			rec := ts.do(t, tt.method, tt.target, tt.contentType, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if ts.backups.lastValidate != "salon-backup-2024-01-20_10-30-05" {
				t.Errorf("validated %q", ts.backups.lastValidate)
			}
			resp := decodeBody[backup.ValidationResult](t, rec)
			if resp.Valid {
				t.Error("fake reports invalid; got valid")
			}
		})
	}
}

func TestHandleValidateBackup_ValidResult(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	created := time.Date(2024, 1, 20, 10, 30, 5, 0, time.UTC)
	ts.backups.validation = &backup.ValidationResult{
		Valid:      true,
		HasImages:  true,
		BackupSize: 4096,
		CreatedAt:  &created,
		BackupPath: "/backups/salon-backup-2024-01-20_10-30-05",
		Metadata:   &backup.Metadata{Version: backup.MetadataVersion, RowCounts: map[string]int64{"customers": 2}},
	}

	rec := ts.do(t, http.MethodGet, "/api/backup/validate?backup_path=x", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"valid":true`, `"hasImages":true`, `"backupSize":4096`, `"customers":2`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestHandleValidateBackup_BlankPath(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/backup/validate?backup_path=%20%20", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ts.backups.lastValidate != "" {
		t.Error("blank path must not reach the validator")
	}
}

func TestHandleRestoreBackup_Success(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	restoredAt := time.Date(2024, 1, 21, 9, 0, 0, 0, time.UTC)
	ts.backups.restore = &backup.RestoreResult{
		BackupPath:      "/backups/salon-backup-2024-01-20_10-30-05",
		RestoredAt:      restoredAt,
		Mode:            backup.ModeMerge,
		LogicalSwap:     backup.SwapSkipped,
		ImagesRestored:  4,
		Warnings:        []string{"sidecar_cleanup: failed to remove salon.db-wal"},
		RestartRequired: true,
	}
	ts.backups.pendingAfterRestore = true

	rec := ts.do(t, http.MethodPost, "/api/backup/restore", "application/json",
		`{"backup_path":"salon-backup-2024-01-20_10-30-05","restore_mode":"merge","include_masters":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[models.RestoreResponse](t, rec)
	if resp.Message == "" || resp.BackupPath != ts.backups.restore.BackupPath || !resp.RestoredAt.Equal(restoredAt) {
		t.Errorf("response = %+v", resp)
	}
	if !resp.RestartRequired || resp.LogicalSwap != "skipped" || len(resp.Warnings) != 1 {
		t.Errorf("response = %+v", resp)
	}

	req := ts.backups.lastRestoreReq
	if req.Mode != backup.ModeMerge || !req.IncludeImages || req.IncludeMasters {
		t.Errorf("restore request = %+v", req)
	}
	if ts.restarter.count() != 1 {
		t.Errorf("restart requests = %d, want 1", ts.restarter.count())
	}
}

func TestHandleRestoreBackup_FormBody(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.backups.restore = &backup.RestoreResult{Mode: backup.ModeFull, Warnings: []string{}}

	rec := ts.do(t, http.MethodPost, "/api/backup/restore", "application/x-www-form-urlencoded",
		"backup_path=%2Fsrv%2Fbackups%2Fsalon-backup-2024-01-20_10-30-05&restore_mode=full&include_images=false&include_masters=on")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req := ts.backups.lastRestoreReq
	if req.BackupPath != "/srv/backups/salon-backup-2024-01-20_10-30-05" || req.IncludeImages || !req.IncludeMasters {
		t.Errorf("restore request = %+v", req)
	}
}

func TestHandleRestoreBackup_FormUncheckedCheckbox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantImages  bool
		wantMasters bool
	}{
		{"images unchecked", "backup_path=x&restore_mode=merge&include_masters=on", false, true},
		{"both unchecked", "backup_path=x&restore_mode=merge", false, false},
		{"both checked", "backup_path=x&restore_mode=merge&include_images=on&include_masters=on", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.backups.restore = &backup.RestoreResult{Mode: backup.ModeMerge, Warnings: []string{}}

			rec := ts.do(t, http.MethodPost, "/api/backup/restore", "application/x-www-form-urlencoded", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			req := ts.backups.lastRestoreReq
			if req.IncludeImages != tt.wantImages || req.IncludeMasters != tt.wantMasters {
				t.Errorf("include images/masters = %v/%v, want %v/%v",
					req.IncludeImages, req.IncludeMasters, tt.wantImages, tt.wantMasters)
			}
		})
	}
}

func TestHandleRestoreBackup_JSONFlagsDefaultTrue(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.backups.restore = &backup.RestoreResult{Mode: backup.ModeFull, Warnings: []string{}}

	rec := ts.do(t, http.MethodPost, "/api/backup/restore", "application/json", `{"backup_path":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	req := ts.backups.lastRestoreReq
	if !req.IncludeImages || !req.IncludeMasters {
		t.Errorf("absent JSON flags should default to true: %+v", req)
	}
}

func TestHandleRestoreBackup_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		contentType  string
		body         string
		restoreErr   error
		pending      bool
		wantCode     int
		wantErr      string
		wantRestarts int
	}{
		{
			name: "missing backup database", contentType: "application/json",
			body:       `{"backup_path":"salon-backup-x"}`,
			restoreErr: fmt.Errorf("%w: /backups/salon-backup-x/database/salon.db", backup.ErrBackupDatabaseNotFound),
			wantCode:   http.StatusNotFound, wantErr: "BACKUP_NOT_FOUND",
		},
		{
			name: "blank path", contentType: "application/json",
			body:     `{"backup_path":"  "}`,
			wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR",
		},
		{
			name: "unknown mode", contentType: "application/json",
			body:     `{"backup_path":"salon-backup-x","restore_mode":"replace"}`,
			wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR",
		},
		{
			name: "malformed json", contentType: "application/json",
			body:     `{"backup_path":`,
			wantCode: http.StatusBadRequest, wantErr: "INVALID_REQUEST",
		},
		{
			name: "bad form flag", contentType: "application/x-www-form-urlencoded",
			body:     "backup_path=salon-backup-x&include_images=maybe",
			wantCode: http.StatusBadRequest, wantErr: "INVALID_REQUEST",
		},
		{
			name: "already restored", contentType: "application/json",
			body:       `{"backup_path":"salon-backup-x"}`,
			restoreErr: backup.ErrRestartPending, pending: true,
			wantCode: http.StatusServiceUnavailable, wantErr: "RESTART_PENDING", wantRestarts: 1,
		},
		{
			name: "replace failed after release", contentType: "application/json",
			body:       `{"backup_path":"salon-backup-x"}`,
			restoreErr: fmt.Errorf("failed to replace live database: %w", errBoom), pending: true,
			wantCode: http.StatusInternalServerError, wantErr: "RESTORE_FAILED", wantRestarts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.backups.restoreErr = tt.restoreErr
			ts.backups.pending = tt.pending

			rec := ts.do(t, http.MethodPost, "/api/backup/restore", tt.contentType, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			resp := decodeBody[models.APIError](t, rec)
			if resp.Code != tt.wantErr || resp.Error == "" {
				t.Errorf("error body = %+v, want code %s", resp, tt.wantErr)
			}
			if ts.restarter.count() != tt.wantRestarts {
				t.Errorf("restart requests = %d, want %d", ts.restarter.count(), tt.wantRestarts)
			}
		})
	}
}

func TestHandleRestoreBackup_NotFoundCarriesDetails(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.backups.restoreErr = fmt.Errorf("%w: /backups/salon-backup-x/database/salon.db", backup.ErrBackupDatabaseNotFound)

	rec := ts.do(t, http.MethodPost, "/api/backup/restore", "application/json", `{"backup_path":"salon-backup-x"}`)
	resp := decodeBody[models.APIError](t, rec)
	details, ok := resp.Details.(string)
	if !ok || !strings.Contains(details, "/backups/salon-backup-x/database/salon.db") {
		t.Errorf("details = %#v, want the attempted path", resp.Details)
	}
}

func TestHandleListBackups(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/backups", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeBody[SnapshotListResponse](t, rec); resp.Count != 0 || resp.Snapshots == nil {
		t.Errorf("empty list = %+v", resp)
	}

	ts.backups.snapshots = []backup.SnapshotInfo{
		{Name: "salon-backup-2024-01-21_03-00-00"},
		{Name: "salon-backup-2024-01-20_03-00-00"},
	}
	rec = ts.do(t, http.MethodGet, "/api/backups", "", "")
	resp := decodeBody[SnapshotListResponse](t, rec)
	if resp.Count != 2 || resp.Snapshots[0].Name != "salon-backup-2024-01-21_03-00-00" {
		t.Errorf("list = %+v", resp)
	}
}

func TestHandlePruneBackups(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.backups.prune = &backup.PruneResult{Deleted: []string{"salon-backup-2023-01-01_03-00-00"}, Kept: 3, FreedBytes: 10}

	rec := ts.do(t, http.MethodPost, "/api/backups/prune", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeBody[backup.PruneResult](t, rec); resp.Kept != 3 || len(resp.Deleted) != 1 {
		t.Errorf("prune = %+v", resp)
	}

	ts.backups.pending = true
	if rec := ts.do(t, http.MethodPost, "/api/backups/prune", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status after restore = %d, want 503", rec.Code)
	}
}
