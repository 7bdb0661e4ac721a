// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package models

import "database/sql"

// ImageRecord is a treatment image joined with its treatment and customer,
// everything needed to place the file in the canonical snapshot layout.
type ImageRecord struct {
	ImageID          int64          `db:"image_id"`
	ImageURL         string         `db:"image_url"`
	OriginalFilename sql.NullString `db:"original_filename"`
	TreatmentID      int64          `db:"treatment_id"`
	TreatmentDate    string         `db:"treatment_date"`
	CustomerID       int64          `db:"customer_id"`
	CustomerName     string         `db:"customer_name"`
}

// CustomerExportRow is one (customer, treatment) pair of the customer
// export. Treatment columns are NULL for customers without treatments.
type CustomerExportRow struct {
	CustomerID     int64          `db:"customer_id"`
	CustomerName   string         `db:"customer_name"`
	NameKana       sql.NullString `db:"name_kana"`
	Phone          sql.NullString `db:"phone"`
	Email          sql.NullString `db:"email"`
	BirthDate      sql.NullString `db:"birth_date"`
	Address        sql.NullString `db:"address"`
	CustomerNotes  sql.NullString `db:"customer_notes"`
	TreatmentID    sql.NullInt64  `db:"treatment_id"`
	TreatmentDate  sql.NullString `db:"treatment_date"`
	MenuName       sql.NullString `db:"menu_name"`
	StaffName      sql.NullString `db:"staff_name"`
	Price          sql.NullInt64  `db:"price"`
	PaymentMethod  sql.NullString `db:"payment_method"`
	TreatmentNotes sql.NullString `db:"treatment_notes"`
}

// MasterExportRow is a lookup table row tagged with the table it came from.
type MasterExportRow struct {
	Table string `db:"table_name"`
	MasterRecord
}
