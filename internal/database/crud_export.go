// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/salonkeeper/internal/models"
)

// CountRows returns the number of rows in one of Tables.
func (db *DB) CountRows(ctx context.Context, table string) (int64, error) {
	if !IsKnownTable(table) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// RowCounts counts every table in Tables.
func (db *DB) RowCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		n, err := db.CountRows(ctx, table)
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

const imageRecordsQuery = `
	SELECT
		ti.id                 AS image_id,
		ti.image_url          AS image_url,
		ti.original_filename  AS original_filename,
		t.id                  AS treatment_id,
		t.treatment_date      AS treatment_date,
		c.id                  AS customer_id,
		c.name                AS customer_name
	FROM treatment_images ti
	JOIN treatments t ON t.id = ti.treatment_id
	JOIN customers c ON c.id = t.customer_id
	ORDER BY c.id, t.treatment_date, ti.id`

// ImageRecords returns every treatment image joined to its treatment and
// customer. Images whose treatment or customer is gone are not returned.
func (db *DB) ImageRecords(ctx context.Context) ([]models.ImageRecord, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var records []models.ImageRecord
	if err := db.conn.SelectContext(ctx, &records, imageRecordsQuery); err != nil {
		return nil, fmt.Errorf("failed to query image records: %w", err)
	}
	return records, nil
}

const customerExportQuery = `
	SELECT
		c.id              AS customer_id,
		c.name            AS customer_name,
		c.name_kana       AS name_kana,
		c.phone           AS phone,
		c.email           AS email,
		c.birth_date      AS birth_date,
		c.address         AS address,
		c.notes           AS customer_notes,
		t.id              AS treatment_id,
		t.treatment_date  AS treatment_date,
		t.menu_name       AS menu_name,
		t.staff_name      AS staff_name,
		t.price           AS price,
		t.payment_method  AS payment_method,
		t.notes           AS treatment_notes
	FROM customers c
	LEFT JOIN treatments t ON t.customer_id = c.id
	ORDER BY c.id, t.treatment_date, t.id`

// CustomerExportRows returns one row per (customer, treatment) pair, plus
// one row with NULL treatment columns for each customer without treatments.
func (db *DB) CustomerExportRows(ctx context.Context) ([]models.CustomerExportRow, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var rows []models.CustomerExportRow
	if err := db.conn.SelectContext(ctx, &rows, customerExportQuery); err != nil {
		return nil, fmt.Errorf("failed to query customer export: %w", err)
	}
	return rows, nil
}

// masterExportQueries project each lookup table onto models.MasterRecord.
var masterExportQueries = map[string]string{
	TableStaff: `SELECT 'staff' AS table_name, id, name, role AS category,
		NULL AS amount, NULL AS value, is_active FROM staff ORDER BY id`,
	TableTreatmentMenus: `SELECT 'treatment_menus' AS table_name, id, name, category,
		price AS amount, CAST(duration_minutes AS TEXT) AS value, is_active FROM treatment_menus ORDER BY id`,
	TableRetailProducts: `SELECT 'retail_products' AS table_name, id, name, category,
		price AS amount, CAST(stock AS TEXT) AS value, is_active FROM retail_products ORDER BY id`,
	TableReferralSources: `SELECT 'referral_sources' AS table_name, id, name, NULL AS category,
		NULL AS amount, NULL AS value, is_active FROM referral_sources ORDER BY id`,
	TablePaymentMethods: `SELECT 'payment_methods' AS table_name, id, name, NULL AS category,
		NULL AS amount, NULL AS value, is_active FROM payment_methods ORDER BY id`,
	TableDiscountTypes: `SELECT 'discount_types' AS table_name, id, name, discount_kind AS category,
		NULL AS amount, CAST(value AS TEXT) AS value, is_active FROM discount_types ORDER BY id`,
}

// MasterExportRows returns the rows of all six lookup tables in
// MasterTables order, each tagged with its table name.
func (db *DB) MasterExportRows(ctx context.Context) ([]models.MasterExportRow, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var all []models.MasterExportRow
	for _, table := range MasterTables {
		var rows []models.MasterExportRow
		if err := db.conn.SelectContext(ctx, &rows, masterExportQueries[table]); err != nil {
			return nil, fmt.Errorf("failed to query %s export: %w", table, err)
		}
		all = append(all, rows...)
	}
	return all, nil
}
