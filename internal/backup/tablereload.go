// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
tablereload.go - Row-Level Table Reload

Replaces the contents of live tables with the rows of the same tables in
another SQLite file:

 1. Open the live file read-write and the source file immutable
 2. PRAGMA foreign_keys=OFF on the live connection
 3. One transaction: per table, DELETE then INSERT every source row with
    every column, primary keys included
 4. Commit, PRAGMA foreign_keys=ON

Tables are processed in database.Tables order regardless of the order
given. Any error rolls the whole transaction back, leaving the live tables
as they were.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/salonkeeper/internal/database"
	"github.com/tomtom215/salonkeeper/internal/logging"
)

// reloadBusyTimeout bounds lock waits on the live file during a reload.
const reloadBusyTimeout = 5 * time.Second

// reloadResult reports a committed reload.
type reloadResult struct {
	Tables []string
	Rows   int64
}

// reloadTables copies the named tables from sourcePath into livePath.
func reloadTables(ctx context.Context, livePath, sourcePath string, tables []string) (*reloadResult, error) {
	ordered, err := orderTables(tables)
	if err != nil {
		return nil, err
	}

	live, err := database.Open(livePath, database.OpenOptions{BusyTimeout: reloadBusyTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open live database: %w", err)
	}
	defer closeDB(live, "live reload connection")

	source, err := database.Open(sourcePath, database.OpenOptions{Immutable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open reload source: %w", err)
	}
	defer closeDB(source, "reload source connection")

	// foreign_keys cannot change inside a transaction.
	if _, err := live.ExecContext(ctx, "PRAGMA foreign_keys=OFF"); err != nil {
		return nil, fmt.Errorf("failed to disable foreign keys: %w", err)
	}
	defer func() {
		if _, err := live.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys=ON"); err != nil {
			logging.Warn().Err(err).Msg("Failed to re-enable foreign keys after reload")
		}
	}()

	tx, err := live.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reload transaction: %w", err)
	}

	result := &reloadResult{}
	for _, table := range ordered {
		n, err := reloadTable(ctx, tx, source, table)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Warn().Err(rbErr).Str("table", table).Msg("Failed to roll back table reload")
			}
			return nil, fmt.Errorf("failed to reload table %s: %w", table, err)
		}
		result.Tables = append(result.Tables, table)
		result.Rows += n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table reload: %w", err)
	}
	return result, nil
}

// reloadTable replaces one table inside tx. Returns the number of rows inserted.
func reloadTable(ctx context.Context, tx *sqlx.Tx, source *sqlx.DB, table string) (int64, error) {
	rows, err := source.QueryxContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return 0, fmt.Errorf("failed to read source rows: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Best effort cleanup

	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(table)); err != nil {
		return 0, fmt.Errorf("failed to clear table: %w", err)
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	//nolint:gosec // G202: identifiers come from a fixed table list and the source schema, quoted
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(quoted, ", "), placeholders)

	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // Best effort cleanup

	var count int64
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return count, fmt.Errorf("failed to scan source row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return count, fmt.Errorf("failed to insert row: %w", err)
		}
		count++
	}
	return count, rows.Err()
}

// orderTables validates names and returns them in database.Tables order.
func orderTables(tables []string) ([]string, error) {
	want := make(map[string]bool, len(tables))
	for _, t := range tables {
		if !database.IsKnownTable(t) {
			return nil, fmt.Errorf("%w: %q", database.ErrUnknownTable, t)
		}
		want[t] = true
	}
	ordered := make([]string, 0, len(want))
	for _, t := range database.Tables {
		if want[t] {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func closeDB(db *sqlx.DB, resourceType string) {
	if err := db.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
