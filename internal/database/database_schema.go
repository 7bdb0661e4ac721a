// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
database_schema.go - Live Store Schema

Tables, in dependency order (later tables reference earlier ones):
  - customers: salon clients
  - treatments: one row per visit, references customers
  - treatment_images: photos per treatment, references treatments
  - staff, treatment_menus, retail_products, referral_sources,
    payment_methods, discount_types: master lookup tables

The order of Tables is relied upon by the restore table reload and by
snapshot metadata; do not reorder without updating both.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// Table names.
const (
	TableCustomers       = "customers"
	TableTreatments      = "treatments"
	TableTreatmentImages = "treatment_images"
	TableStaff           = "staff"
	TableTreatmentMenus  = "treatment_menus"
	TableRetailProducts  = "retail_products"
	TableReferralSources = "referral_sources"
	TablePaymentMethods  = "payment_methods"
	TableDiscountTypes   = "discount_types"
)

// Tables lists every table in dependency order.
var Tables = []string{
	TableCustomers,
	TableTreatments,
	TableTreatmentImages,
	TableStaff,
	TableTreatmentMenus,
	TableRetailProducts,
	TableReferralSources,
	TablePaymentMethods,
	TableDiscountTypes,
}

// MasterTables lists the six lookup tables.
var MasterTables = []string{
	TableStaff,
	TableTreatmentMenus,
	TableRetailProducts,
	TableReferralSources,
	TablePaymentMethods,
	TableDiscountTypes,
}

// IsMasterTable reports whether table is one of MasterTables.
func IsMasterTable(table string) bool {
	for _, t := range MasterTables {
		if t == table {
			return true
		}
	}
	return false
}

// IsKnownTable reports whether table is one of Tables. Table names are
// interpolated into SQL, so callers check this first.
func IsKnownTable(table string) bool {
	for _, t := range Tables {
		if t == table {
			return true
		}
	}
	return false
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		name_kana   TEXT,
		phone       TEXT,
		email       TEXT,
		birth_date  TEXT,
		address     TEXT,
		notes       TEXT,
		created_at  TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE IF NOT EXISTS treatments (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id     INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		treatment_date  TEXT NOT NULL,
		menu_name       TEXT,
		staff_name      TEXT,
		price           INTEGER,
		payment_method  TEXT,
		notes           TEXT,
		created_at      TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_treatments_customer ON treatments(customer_id, treatment_date)`,
	`CREATE TABLE IF NOT EXISTS treatment_images (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		treatment_id       INTEGER NOT NULL REFERENCES treatments(id) ON DELETE CASCADE,
		image_url          TEXT NOT NULL,
		original_filename  TEXT,
		created_at         TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_treatment_images_treatment ON treatment_images(treatment_id)`,
	`CREATE TABLE IF NOT EXISTS staff (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		role        TEXT,
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE IF NOT EXISTS treatment_menus (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		name              TEXT NOT NULL,
		category          TEXT,
		price             INTEGER,
		duration_minutes  INTEGER,
		is_active         INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS retail_products (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		category   TEXT,
		price      INTEGER,
		stock      INTEGER NOT NULL DEFAULT 0,
		is_active  INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS referral_sources (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		is_active  INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		is_active  INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS discount_types (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT NOT NULL,
		discount_kind  TEXT NOT NULL DEFAULT 'percent' CHECK (discount_kind IN ('percent', 'amount')),
		value          INTEGER NOT NULL DEFAULT 0,
		is_active      INTEGER NOT NULL DEFAULT 1
	)`,
}

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
