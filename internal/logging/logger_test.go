// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
	if cfg.Service != "salonkeeper" {
		t.Errorf("expected default service 'salonkeeper', got '%s'", cfg.Service)
	}
}

func TestInit_ServiceField(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "info", Output: &buf, Service: "salonkeeper"})
	defer Init(DefaultConfig())

	Warn().Msg("restore pending")
	if !strings.Contains(buf.String(), `"app":"salonkeeper"`) {
		t.Errorf("expected app field, got: %s", buf.String())
	}

	buf.Reset()
	Init(Config{Level: "info", Output: &buf})
	Warn().Msg("restore pending")
	if strings.Contains(buf.String(), `"app"`) {
		t.Errorf("empty Service must omit the field, got: %s", buf.String())
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:     "debug",
		Format:    "json",
		Timestamp: true,
		Output:    &buf,
	})
	defer Init(DefaultConfig())

	Info().Str("path", "/backups/salon-backup-2024-01-15_10-30-00").Msg("snapshot created")

	output := buf.String()
	if !strings.Contains(output, "snapshot created") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
	if !strings.Contains(output, `"path":"/backups/salon-backup-2024-01-15_10-30-00"`) {
		t.Errorf("expected output to contain path field, got: %s", output)
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "info", Format: "console", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("console line")

	output := buf.String()
	if strings.Contains(output, `"message"`) {
		t.Errorf("console output should not be JSON: %s", output)
	}
	if !strings.Contains(output, "console line") {
		t.Errorf("expected console output to contain message: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer Init(DefaultConfig())

	tests := []struct {
		name    string
		logFunc func()
		level   string
	}{
		{"Debug", func() { Debug().Msg("debug msg") }, "debug"},
		{"Info", func() { Info().Msg("info msg") }, "info"},
		{"Warn", func() { Warn().Msg("warn msg") }, "warn"},
		{"Error", func() { Error().Msg("error msg") }, "error"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.logFunc()
		if !strings.Contains(buf.String(), `"level":"`+tt.level+`"`) {
			t.Errorf("%s: expected level %q in output: %s", tt.name, tt.level, buf.String())
		}
	}
}
