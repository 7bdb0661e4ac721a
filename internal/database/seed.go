// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/models"
)

// placeholderJPEG is the smallest byte sequence image viewers accept as a JPEG header.
var placeholderJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

// SeedDemoData fills an empty live store with demo customers, treatments
// and placeholder photos. Intended for demos and manual testing of the
// snapshot tooling; it refuses to run against a store that has customers.
func (db *DB) SeedDemoData(ctx context.Context) error {
	existing, err := db.CountRows(ctx, TableCustomers)
	if err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("refusing to seed: store already has %d customers", existing)
	}

	logging.Info().Msg("Seeding live store with demo data...")

	const (
		daysOfHistory         = 90
		treatmentsPerCustomer = 3
	)

	customers := []struct {
		name, kana, phone string
	}{
		{"田中花子", "タナカハナコ", "090-1111-2222"},
		{"佐藤美咲", "サトウミサキ", "080-3333-4444"},
		{"鈴木さくら", "スズキサクラ", "070-5555-6666"},
		{"高橋由美", "タカハシユミ", "090-7777-8888"},
		{"伊藤愛", "イトウアイ", "080-9999-0000"},
	}
	menus := []struct {
		name     string
		category string
		price    int64
		minutes  string
	}{
		{"カット", "cut", 4400, "45"},
		{"カラー", "color", 7700, "90"},
		{"パーマ", "perm", 9900, "120"},
		{"トリートメント", "care", 3300, "30"},
	}
	staff := []string{"山本", "中村", "小林"}
	payments := []string{"現金", "クレジットカード", "電子マネー"}

	for _, m := range menus {
		if _, err := db.InsertMaster(ctx, TableTreatmentMenus, &models.MasterRecord{
			Name:     m.name,
			Category: sql.NullString{String: m.category, Valid: true},
			Amount:   sql.NullInt64{Int64: m.price, Valid: true},
			Value:    sql.NullString{String: m.minutes, Valid: true},
			IsActive: true,
		}); err != nil {
			return err
		}
	}
	for _, s := range staff {
		if _, err := db.InsertMaster(ctx, TableStaff, &models.MasterRecord{
			Name: s, Category: sql.NullString{String: "stylist", Valid: true}, IsActive: true,
		}); err != nil {
			return err
		}
	}
	for _, p := range payments {
		if _, err := db.InsertMaster(ctx, TablePaymentMethods, &models.MasterRecord{Name: p, IsActive: true}); err != nil {
			return err
		}
	}
	for _, r := range []string{"紹介", "ホットペッパー", "Instagram"} {
		if _, err := db.InsertMaster(ctx, TableReferralSources, &models.MasterRecord{Name: r, IsActive: true}); err != nil {
			return err
		}
	}
	if _, err := db.InsertMaster(ctx, TableDiscountTypes, &models.MasterRecord{
		Name:     "初回割引",
		Category: sql.NullString{String: "percent", Valid: true},
		Value:    sql.NullString{String: "20", Valid: true},
		IsActive: true,
	}); err != nil {
		return err
	}
	if _, err := db.InsertMaster(ctx, TableRetailProducts, &models.MasterRecord{
		Name:     "ヘアオイル",
		Category: sql.NullString{String: "care", Valid: true},
		Amount:   sql.NullInt64{Int64: 2750, Valid: true},
		Value:    sql.NullString{String: "12", Valid: true},
		IsActive: true,
	}); err != nil {
		return err
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if err := os.MkdirAll(db.ImagesDir(), 0o750); err != nil {
		return fmt.Errorf("failed to create images directory: %w", err)
	}

	start := time.Now().AddDate(0, 0, -daysOfHistory)
	var treatments, images int
	for _, c := range customers {
		customerID, err := db.InsertCustomer(ctx, &models.Customer{
			Name:     c.name,
			NameKana: sql.NullString{String: c.kana, Valid: true},
			Phone:    sql.NullString{String: c.phone, Valid: true},
		})
		if err != nil {
			return err
		}

		for i := 0; i < treatmentsPerCustomer; i++ {
			menu := menus[rand.IntN(len(menus))]
			date := start.AddDate(0, 0, rand.IntN(daysOfHistory)).Format("2006-01-02")

			treatmentID, err := db.InsertTreatment(ctx, &models.Treatment{
				CustomerID:    customerID,
				TreatmentDate: date,
				MenuName:      sql.NullString{String: menu.name, Valid: true},
				StaffName:     sql.NullString{String: staff[rand.IntN(len(staff))], Valid: true},
				Price:         sql.NullInt64{Int64: menu.price, Valid: true},
				PaymentMethod: sql.NullString{String: payments[rand.IntN(len(payments))], Valid: true},
			})
			if err != nil {
				return err
			}
			treatments++

			// Flat upload layout: <uuid>.jpg at the images root.
			name := uuid.New().String() + ".jpg"
			//nolint:gosec // G306: demo photos are not sensitive
			if err := os.WriteFile(filepath.Join(db.ImagesDir(), name), placeholderJPEG, 0o644); err != nil {
				return fmt.Errorf("failed to write demo image: %w", err)
			}
			if _, err := db.InsertTreatmentImage(ctx, &models.TreatmentImage{
				TreatmentID:      treatmentID,
				ImageURL:         "/uploads/" + name,
				OriginalFilename: sql.NullString{String: fmt.Sprintf("photo_%d.jpg", i+1), Valid: true},
			}); err != nil {
				return err
			}
			images++
		}
	}

	logging.Info().
		Int("customers", len(customers)).
		Int("treatments", treatments).
		Int("images", images).
		Int("days", daysOfHistory).
		Msg("Demo data seeded successfully")

	return nil
}
