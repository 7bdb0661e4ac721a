// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/salonkeeper/internal/models"
)

func TestWriteCustomersCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "customers.csv")
	rows := []models.CustomerExportRow{
		{
			CustomerID:    1,
			CustomerName:  `田中 "ハナ" 花子`,
			NameKana:      sql.NullString{String: "タナカハナコ", Valid: true},
			Address:       sql.NullString{String: "東京都, 渋谷区", Valid: true},
			TreatmentID:   sql.NullInt64{Int64: 10, Valid: true},
			TreatmentDate: sql.NullString{String: "2024-01-15", Valid: true},
			MenuName:      sql.NullString{String: "カット", Valid: true},
			Price:         sql.NullInt64{Int64: 4400, Valid: true},
		},
		{CustomerID: 2, CustomerName: "佐藤美咲"},
	}

	if err := writeCustomersCSV(path, rows, time.UTC); err != nil {
		t.Fatalf("writeCustomersCSV() error = %v", err)
	}
	raw := readTestFile(t, path)

	if !bytes.HasPrefix(raw, utf8BOM) {
		t.Fatal("file must start with the UTF-8 BOM")
	}
	body := string(raw[len(utf8BOM):])
	if strings.Count(body, "\r\n") != 3 {
		t.Errorf("expected 3 CRLF-terminated lines, got %q", body)
	}

	lines := strings.Split(body, "\r\n")
	if !strings.HasPrefix(lines[0], `"顧客ID","顧客名","フリガナ"`) {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `1,"田中 ""ハナ"" 花子","タナカハナコ"`) {
		t.Errorf("numbers must be bare and text quoted with doubled quotes: %q", lines[1])
	}
	if !strings.Contains(lines[1], `,10,"2024-01-15","カット","",4400,`) {
		t.Errorf("treatment columns = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], `2,"佐藤美咲"`) || !strings.Contains(lines[2], `"",,""`) {
		t.Errorf("customer without treatment = %q", lines[2])
	}

	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("export must parse as CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, rec := range records {
		if len(rec) != len(customersHeader) {
			t.Errorf("record %d has %d fields, want %d", i, len(rec), len(customersHeader))
		}
	}
	if records[1][1] != `田中 "ハナ" 花子` || records[1][6] != "東京都, 渋谷区" {
		t.Errorf("round trip = %v", records[1])
	}
}

func TestWriteCustomersCSV_TreatmentDay(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}

	tests := []struct {
		name   string
		stored sql.NullString
		loc    *time.Location
		want   string
	}{
		{"timestamp in zone", sql.NullString{String: "2024-01-15T10:30:00+09:00", Valid: true}, tokyo, "2024-01-15"},
		{"UTC instant crosses midnight", sql.NullString{String: "2024-01-15T20:00:00Z", Valid: true}, tokyo, "2024-01-16"},
		{"plain day", sql.NullString{String: "2024-01-15", Valid: true}, tokyo, "2024-01-15"},
		{"unparseable kept as stored", sql.NullString{String: "先週", Valid: true}, tokyo, "先週"},
		{"no treatment", sql.NullString{}, tokyo, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "customers.csv")
			rows := []models.CustomerExportRow{{
				CustomerID:    1,
				CustomerName:  "田中花子",
				TreatmentDate: tt.stored,
			}}
			if err := writeCustomersCSV(path, rows, tt.loc); err != nil {
				t.Fatalf("writeCustomersCSV() error = %v", err)
			}
			raw := readTestFile(t, path)
			records, err := csv.NewReader(bytes.NewReader(raw[len(utf8BOM):])).ReadAll()
			if err != nil {
				t.Fatalf("export must parse as CSV: %v", err)
			}
			dayCol := -1
			for i, h := range records[0] {
				if h == "施術日" {
					dayCol = i
				}
			}
			if dayCol < 0 {
				t.Fatalf("header has no 施術日 column: %v", records[0])
			}
			if got := records[1][dayCol]; got != tt.want {
				t.Errorf("施術日 = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteMastersCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "masters.csv")
	rows := []models.MasterExportRow{
		{Table: "staff", MasterRecord: models.MasterRecord{ID: 1, Name: "山本", Category: sql.NullString{String: "stylist", Valid: true}, IsActive: true}},
		{Table: "treatment_menus", MasterRecord: models.MasterRecord{ID: 2, Name: "カラー", Amount: sql.NullInt64{Int64: 7700, Valid: true}, Value: sql.NullString{String: "90", Valid: true}}},
	}

	if err := writeMastersCSV(path, rows); err != nil {
		t.Fatalf("writeMastersCSV() error = %v", err)
	}
	body := string(readTestFile(t, path)[len(utf8BOM):])
	lines := strings.Split(body, "\r\n")

	if lines[0] != `"マスタ種別","ID","名称","区分","金額","数値","有効"` {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"staff",1,"山本","stylist",,"",1` {
		t.Errorf("staff row = %q", lines[1])
	}
	if lines[2] != `"treatment_menus",2,"カラー","",7700,"90",0` {
		t.Errorf("menu row = %q", lines[2])
	}
}
