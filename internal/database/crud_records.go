// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/salonkeeper/internal/models"
)

// InsertCustomer inserts a customer and returns its id. CreatedAt and
// UpdatedAt fall back to the column defaults when empty.
func (db *DB) InsertCustomer(ctx context.Context, c *models.Customer) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO customers (name, name_kana, phone, email, birth_date, address, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(NULLIF(?, ''), datetime('now')), COALESCE(NULLIF(?, ''), datetime('now')))`,
		c.Name, c.NameKana, c.Phone, c.Email, c.BirthDate, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert customer %q: %w", c.Name, err)
	}
	return lastInsertID(res, "customer")
}

// InsertTreatment inserts a treatment and returns its id.
func (db *DB) InsertTreatment(ctx context.Context, t *models.Treatment) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO treatments (customer_id, treatment_date, menu_name, staff_name, price, payment_method, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(NULLIF(?, ''), datetime('now')))`,
		t.CustomerID, t.TreatmentDate, t.MenuName, t.StaffName, t.Price, t.PaymentMethod, t.Notes, t.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert treatment for customer %d: %w", t.CustomerID, err)
	}
	return lastInsertID(res, "treatment")
}

// InsertTreatmentImage inserts a treatment image row and returns its id.
// The file itself is not touched.
func (db *DB) InsertTreatmentImage(ctx context.Context, img *models.TreatmentImage) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO treatment_images (treatment_id, image_url, original_filename, created_at)
		VALUES (?, ?, ?, COALESCE(NULLIF(?, ''), datetime('now')))`,
		img.TreatmentID, img.ImageURL, img.OriginalFilename, img.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image for treatment %d: %w", img.TreatmentID, err)
	}
	return lastInsertID(res, "treatment image")
}

// InsertMaster inserts a lookup row into one of MasterTables. Fields are
// mapped the same way MasterExportRows reads them back.
func (db *DB) InsertMaster(ctx context.Context, table string, rec *models.MasterRecord) (int64, error) {
	if !IsMasterTable(table) {
		return 0, fmt.Errorf("%w: %q is not a master table", ErrUnknownTable, table)
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var (
		res sql.Result
		err error
	)
	switch table {
	case TableStaff:
		res, err = db.conn.ExecContext(ctx,
			`INSERT INTO staff (name, role, is_active) VALUES (?, ?, ?)`,
			rec.Name, rec.Category, rec.IsActive)
	case TableTreatmentMenus:
		res, err = db.conn.ExecContext(ctx,
			`INSERT INTO treatment_menus (name, category, price, duration_minutes, is_active) VALUES (?, ?, ?, CAST(? AS INTEGER), ?)`,
			rec.Name, rec.Category, rec.Amount, rec.Value, rec.IsActive)
	case TableRetailProducts:
		res, err = db.conn.ExecContext(ctx,
			`INSERT INTO retail_products (name, category, price, stock, is_active) VALUES (?, ?, ?, COALESCE(CAST(? AS INTEGER), 0), ?)`,
			rec.Name, rec.Category, rec.Amount, rec.Value, rec.IsActive)
	case TableDiscountTypes:
		kind := rec.Category.String
		if !rec.Category.Valid || kind == "" {
			kind = "percent"
		}
		res, err = db.conn.ExecContext(ctx,
			`INSERT INTO discount_types (name, discount_kind, value, is_active) VALUES (?, ?, COALESCE(CAST(? AS INTEGER), 0), ?)`,
			rec.Name, kind, rec.Value, rec.IsActive)
	default:
		res, err = db.conn.ExecContext(ctx,
			"INSERT INTO "+table+" (name, is_active) VALUES (?, ?)",
			rec.Name, rec.IsActive)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return lastInsertID(res, table)
}

// TreatmentImages lists every treatment_images row ordered by id.
func (db *DB) TreatmentImages(ctx context.Context) ([]models.TreatmentImage, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var images []models.TreatmentImage
	if err := db.conn.SelectContext(ctx, &images,
		`SELECT id, treatment_id, image_url, original_filename, created_at FROM treatment_images ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list treatment images: %w", err)
	}
	return images, nil
}

// Customers lists every customer ordered by id.
func (db *DB) Customers(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var customers []models.Customer
	if err := db.conn.SelectContext(ctx, &customers,
		`SELECT id, name, name_kana, phone, email, birth_date, address, notes, created_at, updated_at
		 FROM customers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func lastInsertID(res sql.Result, what string) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read %s id: %w", what, err)
	}
	return id, nil
}
