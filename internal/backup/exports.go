// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
exports.go - Spreadsheet Exports

Renders the human-readable CSV exports of a snapshot. The files target
spreadsheet software on Windows, so:

  - the file starts with a UTF-8 byte order mark
  - text fields are always quoted, with embedded quotes doubled
  - numeric fields are written bare
  - lines end with CRLF

NULL columns are written as an empty quoted field (text) or nothing
(numeric). Treatment dates are written as the calendar day in the
snapshot's zone, the same day that names the photo folder.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/salonkeeper/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var customersHeader = []string{
	"顧客ID", "顧客名", "フリガナ", "電話番号", "メールアドレス", "生年月日", "住所", "顧客メモ",
	"施術ID", "施術日", "施術メニュー", "担当スタッフ", "金額", "支払方法", "施術メモ",
}

var mastersHeader = []string{"マスタ種別", "ID", "名称", "区分", "金額", "数値", "有効"}

// csvWriter writes the export dialect described above. The first write
// error is sticky and reported by flush.
type csvWriter struct {
	w   *bufio.Writer
	err error
}

func newCSVWriter(f *os.File) *csvWriter {
	cw := &csvWriter{w: bufio.NewWriter(f)}
	_, cw.err = cw.w.Write(utf8BOM)
	return cw
}

// field is one rendered CSV cell.
type field string

func text(s string) field {
	return field(`"` + strings.ReplaceAll(s, `"`, `""`) + `"`)
}

func nullText(s sql.NullString) field {
	return text(s.String)
}

// treatmentDay renders a stored treatment date as YYYY-MM-DD in loc. A
// value that does not parse is written as stored.
func treatmentDay(s sql.NullString, loc *time.Location) field {
	if t, ok := parseTreatmentDate(s.String, loc); ok {
		return text(t.Format("2006-01-02"))
	}
	return nullText(s)
}

func number(n int64) field {
	return field(strconv.FormatInt(n, 10))
}

func nullNumber(n sql.NullInt64) field {
	if !n.Valid {
		return ""
	}
	return number(n.Int64)
}

func (cw *csvWriter) header(names []string) {
	row := make([]field, len(names))
	for i, n := range names {
		row[i] = text(n)
	}
	cw.row(row...)
}

func (cw *csvWriter) row(fields ...field) {
	if cw.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			if cw.err = cw.w.WriteByte(','); cw.err != nil {
				return
			}
		}
		if _, cw.err = cw.w.WriteString(string(f)); cw.err != nil {
			return
		}
	}
	_, cw.err = cw.w.WriteString("\r\n")
}

func (cw *csvWriter) flush() error {
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}

// writeCSVFile creates path and hands a writer to render.
//
//nolint:gosec // G304: path is built beneath the snapshot root
func writeCSVFile(path string, render func(cw *csvWriter)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	cw := newCSVWriter(f)
	render(cw)
	if err := cw.flush(); err != nil {
		f.Close() //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close() //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	return f.Close()
}

// writeCustomersCSV writes one line per customer × treatment pair.
func writeCustomersCSV(path string, rows []models.CustomerExportRow, loc *time.Location) error {
	return writeCSVFile(path, func(cw *csvWriter) {
		cw.header(customersHeader)
		for i := range rows {
			r := &rows[i]
			cw.row(
				number(r.CustomerID),
				text(r.CustomerName),
				nullText(r.NameKana),
				nullText(r.Phone),
				nullText(r.Email),
				nullText(r.BirthDate),
				nullText(r.Address),
				nullText(r.CustomerNotes),
				nullNumber(r.TreatmentID),
				treatmentDay(r.TreatmentDate, loc),
				nullText(r.MenuName),
				nullText(r.StaffName),
				nullNumber(r.Price),
				nullText(r.PaymentMethod),
				nullText(r.TreatmentNotes),
			)
		}
	})
}

// writeMastersCSV writes every lookup table row tagged with its table.
func writeMastersCSV(path string, rows []models.MasterExportRow) error {
	return writeCSVFile(path, func(cw *csvWriter) {
		cw.header(mastersHeader)
		for i := range rows {
			r := &rows[i]
			active := int64(0)
			if r.IsActive {
				active = 1
			}
			cw.row(
				text(r.Table),
				number(r.ID),
				text(r.Name),
				nullText(r.Category),
				nullNumber(r.Amount),
				nullText(r.Value),
				number(active),
			)
		}
	})
}
