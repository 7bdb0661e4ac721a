// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package models

import "database/sql"

// Customer is a salon client.
type Customer struct {
	ID        int64          `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	NameKana  sql.NullString `db:"name_kana" json:"name_kana"`
	Phone     sql.NullString `db:"phone" json:"phone"`
	Email     sql.NullString `db:"email" json:"email"`
	BirthDate sql.NullString `db:"birth_date" json:"birth_date"`
	Address   sql.NullString `db:"address" json:"address"`
	Notes     sql.NullString `db:"notes" json:"notes"`
	CreatedAt string         `db:"created_at" json:"created_at"`
	UpdatedAt string         `db:"updated_at" json:"updated_at"`
}

// Treatment is one visit of a customer. TreatmentDate is stored as text,
// either a calendar date (2006-01-02) or a timestamp.
type Treatment struct {
	ID            int64          `db:"id" json:"id"`
	CustomerID    int64          `db:"customer_id" json:"customer_id"`
	TreatmentDate string         `db:"treatment_date" json:"treatment_date"`
	MenuName      sql.NullString `db:"menu_name" json:"menu_name"`
	StaffName     sql.NullString `db:"staff_name" json:"staff_name"`
	Price         sql.NullInt64  `db:"price" json:"price"`
	PaymentMethod sql.NullString `db:"payment_method" json:"payment_method"`
	Notes         sql.NullString `db:"notes" json:"notes"`
	CreatedAt     string         `db:"created_at" json:"created_at"`
}

// TreatmentImage is a photo attached to a treatment. ImageURL is relative to
// the images directory, optionally prefixed with /uploads/.
type TreatmentImage struct {
	ID               int64          `db:"id" json:"id"`
	TreatmentID      int64          `db:"treatment_id" json:"treatment_id"`
	ImageURL         string         `db:"image_url" json:"image_url"`
	OriginalFilename sql.NullString `db:"original_filename" json:"original_filename"`
	CreatedAt        string         `db:"created_at" json:"created_at"`
}

// MasterRecord is the common shape of the six lookup tables. Columns a
// table does not have stay NULL.
type MasterRecord struct {
	ID       int64          `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	Category sql.NullString `db:"category" json:"category,omitempty"`
	Amount   sql.NullInt64  `db:"amount" json:"amount,omitempty"`
	Value    sql.NullString `db:"value" json:"value,omitempty"`
	IsActive bool           `db:"is_active" json:"is_active"`
}
