// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonkeeper/internal/backup"
)

// maxRequestBodyBytes bounds JSON and form bodies. Requests only carry a
// path and a few flags.
const maxRequestBodyBytes = 64 << 10

// CreateBackupRequest holds the query parameters of POST /api/backup/create.
type CreateBackupRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=directory zip"`
}

// ValidateBackupRequest is the input of /api/backup/validate.
type ValidateBackupRequest struct {
	BackupPath string `json:"backup_path" validate:"backuppath,max=4096"`
}

// restoreBody is the wire form of a restore request. The include flags are
// pointers so a flag absent from a JSON body can default to true.
type restoreBody struct {
	BackupPath     string `json:"backup_path"`
	RestoreMode    string `json:"restore_mode"`
	IncludeImages  *bool  `json:"include_images"`
	IncludeMasters *bool  `json:"include_masters"`
}

func (b *restoreBody) toRequest() *backup.RestoreRequest {
	req := &backup.RestoreRequest{
		BackupPath:     strings.TrimSpace(b.BackupPath),
		Mode:           backup.RestoreMode(strings.ToLower(strings.TrimSpace(b.RestoreMode))),
		IncludeImages:  true,
		IncludeMasters: true,
	}
	if b.IncludeImages != nil {
		req.IncludeImages = *b.IncludeImages
	}
	if b.IncludeMasters != nil {
		req.IncludeMasters = *b.IncludeMasters
	}
	return req
}

// isJSON reports whether the request body is declared as JSON.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"))
}

// decodeJSONBody decodes a JSON body into dst. An empty body leaves dst unchanged.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseRestoreRequest reads a restore request from a JSON or form body.
// JSON include flags default to true; form include flags are checkboxes.
func parseRestoreRequest(w http.ResponseWriter, r *http.Request) (*backup.RestoreRequest, error) {
	var body restoreBody
	if isJSON(r) {
		if err := decodeJSONBody(w, r, &body); err != nil {
			return nil, err
		}
		return body.toRequest(), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	body.BackupPath = r.PostForm.Get("backup_path")
	body.RestoreMode = r.PostForm.Get("restore_mode")

	includeImages, err := formBool(r, "include_images")
	if err != nil {
		return nil, err
	}
	includeMasters, err := formBool(r, "include_masters")
	if err != nil {
		return nil, err
	}
	body.IncludeImages = &includeImages
	body.IncludeMasters = &includeMasters
	return body.toRequest(), nil
}

// parseValidateRequest reads backup_path from the query string, then from
// a JSON or form body.
func parseValidateRequest(w http.ResponseWriter, r *http.Request) (*ValidateBackupRequest, error) {
	req := &ValidateBackupRequest{BackupPath: r.URL.Query().Get("backup_path")}
	if req.BackupPath == "" && r.Method == http.MethodPost {
		if isJSON(r) {
			if err := decodeJSONBody(w, r, req); err != nil {
				return nil, err
			}
		} else {
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
			if err := r.ParseForm(); err != nil {
				return nil, fmt.Errorf("invalid form body: %w", err)
			}
			req.BackupPath = r.PostForm.Get("backup_path")
		}
	}
	req.BackupPath = strings.TrimSpace(req.BackupPath)
	return req, nil
}

// formBool parses a boolean form field. HTML checkboxes send "on" when
// checked and nothing at all when unchecked, so an absent field is false.
func formBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.PostForm.Get(key))
	if raw == "" {
		return false, nil
	}
	if strings.EqualFold(raw, "on") {
		return true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(key + " must be a boolean")
	}
	return v, nil
}
