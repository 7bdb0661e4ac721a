// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const listBody = `{"snapshots":[{"name":"salon-backup-2024-01-20_10-30-00"}]}`

func listHandler() http.Handler {
	return Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listBody))
	}))
}

func TestCompression_Gzip(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/backups", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := httptest.NewRecorder()
	listHandler().ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != listBody {
		t.Errorf("body = %q", body)
	}
}

func TestCompression_Identity(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	listHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/backups", nil))

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("response must not be encoded without Accept-Encoding")
	}
	if rec.Body.String() != listBody {
		t.Errorf("body = %q", rec.Body.String())
	}
}
