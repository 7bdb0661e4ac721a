// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/salonkeeper/internal/config"
	"github.com/tomtom215/salonkeeper/internal/database"
	"github.com/tomtom215/salonkeeper/internal/models"
)

// testEnv holds a real live store in a temp directory
type testEnv struct {
	tempDir   string
	backupDir string
	dbCfg     *config.DatabaseConfig
	store     *database.DB
}

// newTestEnv creates a temp directory with an empty live store
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir := t.TempDir()
	env := &testEnv{
		tempDir:   tempDir,
		backupDir: filepath.Join(tempDir, "backups"),
		dbCfg: &config.DatabaseConfig{
			Path:        filepath.Join(tempDir, "data", "salon.db"),
			ImagesDir:   filepath.Join(tempDir, "data", "uploads"),
			BusyTimeout: time.Second,
		},
	}
	env.openStore(t)
	return env
}

// openStore (re)opens the live store, as a process restart would
func (e *testEnv) openStore(t *testing.T) *database.DB {
	t.Helper()
	store, err := database.New(e.dbCfg)
	if err != nil {
		t.Fatalf("failed to open live store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	e.store = store
	return store
}

// newTestConfig creates a default test configuration
func (e *testEnv) newTestConfig() *Config {
	return &Config{
		BackupDir: e.backupDir,
		Workers:   2,
		Location:  time.UTC,
		Schedule:  ScheduleConfig{Enabled: false, PreferredHour: -1},
		Retention: DefaultRetentionPolicy(),
	}
}

// newTestManager creates a manager over the current store
func (e *testEnv) newTestManager(t *testing.T) *Manager {
	t.Helper()
	return e.newTestManagerWithConfig(t, e.newTestConfig())
}

func (e *testEnv) newTestManagerWithConfig(t *testing.T, cfg *Config) *Manager {
	t.Helper()
	manager, err := NewManager(cfg, e.store)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager
}

// addCustomerWithPhoto inserts a customer, one treatment on date and one
// legacy-shaped photo stored flat in the images directory.
func (e *testEnv) addCustomerWithPhoto(t *testing.T, name, date, storedName, original string, content []byte) (customerID, treatmentID int64) {
	t.Helper()
	ctx := context.Background()

	customerID, err := e.store.InsertCustomer(ctx, &models.Customer{Name: name})
	if err != nil {
		t.Fatalf("InsertCustomer: %v", err)
	}
	treatmentID, err = e.store.InsertTreatment(ctx, &models.Treatment{
		CustomerID:    customerID,
		TreatmentDate: date,
		MenuName:      sql.NullString{String: "カット", Valid: true},
		Price:         sql.NullInt64{Int64: 4400, Valid: true},
	})
	if err != nil {
		t.Fatalf("InsertTreatment: %v", err)
	}

	if content != nil {
		writeTestFile(t, filepath.Join(e.dbCfg.ImagesDir, storedName), content)
	}
	if _, err := e.store.InsertTreatmentImage(ctx, &models.TreatmentImage{
		TreatmentID:      treatmentID,
		ImageURL:         "/uploads/" + storedName,
		OriginalFilename: sql.NullString{String: original, Valid: original != ""},
	}); err != nil {
		t.Fatalf("InsertTreatmentImage: %v", err)
	}
	return customerID, treatmentID
}

func (e *testEnv) addMaster(t *testing.T, table, name string) {
	t.Helper()
	if _, err := e.store.InsertMaster(context.Background(), table, &models.MasterRecord{Name: name, IsActive: true}); err != nil {
		t.Fatalf("InsertMaster(%s): %v", table, err)
	}
}

func writeTestFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

// fixedClock returns a now func pinned to t
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
