// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package database

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tomtom215/salonkeeper/internal/logging"
)

// mockCloser implements io.Closer for testing
type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

// captureLogs routes the global logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(previous) })
	return &buf
}

func TestCloseWithLog(t *testing.T) {
	t.Run("nil closer does not panic", func(t *testing.T) {
		buf := captureLogs(t)

		closeWithLog(nil, "test")

		if buf.Len() > 0 {
			t.Errorf("Expected no log output for nil closer, got: %s", buf.String())
		}
	})

	t.Run("successful close does not log", func(t *testing.T) {
		buf := captureLogs(t)

		closer := &mockCloser{}
		closeWithLog(closer, "test resource")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
		if buf.Len() > 0 {
			t.Errorf("Expected no log output for successful close, got: %s", buf.String())
		}
	})

	t.Run("error during close is logged", func(t *testing.T) {
		buf := captureLogs(t)

		closer := &mockCloser{err: errors.New("close failed: disk I/O error")}
		closeWithLog(closer, "database connection")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
		logOutput := buf.String()
		if !strings.Contains(logOutput, "Failed to close resource") {
			t.Errorf("Expected log to contain 'Failed to close resource', got: %s", logOutput)
		}
		if !strings.Contains(logOutput, "database connection") {
			t.Errorf("Expected log to contain resource type, got: %s", logOutput)
		}
		if !strings.Contains(logOutput, "disk I/O error") {
			t.Errorf("Expected log to contain error message, got: %s", logOutput)
		}
	})
}

func TestCloseQuietly(t *testing.T) {
	t.Run("nil closer does not panic", func(t *testing.T) {
		closeQuietly(nil)
	})

	t.Run("error during close is ignored", func(t *testing.T) {
		closer := &mockCloser{err: errors.New("close failed")}
		closeQuietly(closer)

		if !closer.closed {
			t.Error("Expected closer to be closed even with error")
		}
	})

	t.Run("works with io.NopCloser", func(t *testing.T) {
		closeQuietly(io.NopCloser(strings.NewReader("test data")))
	})
}

func BenchmarkCloseQuietly(b *testing.B) {
	closer := &mockCloser{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		closer.closed = false
		closeQuietly(closer)
	}
}
