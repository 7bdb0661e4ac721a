// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/models"
	"github.com/tomtom215/salonkeeper/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
// Backup paths come straight from request bodies and end up in log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an {error, code, details} response. err is logged, never
// sent to the client.
func respondError(w http.ResponseWriter, status int, code, message string, details interface{}, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Int("status", status).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIError{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
//
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Error, apiErr.Details, nil)
//	    return
//	}
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Error:   apiErr.Message,
		Code:    apiErr.Code,
		Details: apiErr.Details,
	}
}

// checkHTTPMethod validates the HTTP method and responds with error if invalid
func checkHTTPMethod(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	for _, m := range allowed {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
		fmt.Sprintf("Only %s allowed", strings.Join(allowed, ", ")), nil, nil)
	return false
}
