// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package backup

import (
	"fmt"
	"os"
	"strings"
	"text/template"
)

var readmeTemplate = template.Must(template.New("readme").Parse(`Salonkeeper backup
==================

Created:  {{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}
Version:  {{.Version}}
Timezone: {{.Timezone}}

Contents
--------
database/{{.DatabaseFile}}
    Complete copy of the salon database (SQLite).
images/customers/<customer name>/<treatment date>/
    Treatment photos, one folder per customer and day.
    Copied: {{.ImagesCopied}}  Missing at backup time: {{.ImagesSkipped}}
exports/customers.csv
    Customers and their treatments, one line per treatment.
exports/masters.csv
    Staff, menus, products, referral sources, payment methods, discounts.
metadata.json
    Row counts and tables at backup time. Used by validation.

Row counts
----------
{{range .Tables}}{{.}}
{{end}}
Restoring
---------
1. Open the backup screen and enter this folder's name or full path.
2. Run "Validate" and check that the backup is reported as valid.
3. Choose a restore mode:
     full  - the current photo folder is moved aside and replaced.
     merge - photos from the backup are added; existing photos are kept.
4. Run "Restore". The current database is kept next to the live file as
   <db>.before-restore-<timestamp>.
5. The application restarts on its own. Reload the page after a moment.

The CSV files open directly in Excel and Numbers.
`))

type readmeData struct {
	*Metadata
	Tables []string
}

// writeReadme writes the operator-facing README.txt for a snapshot.
func writeReadme(path string, meta *Metadata) error {
	lines := make([]string, 0, len(meta.Tables))
	for _, table := range meta.Tables {
		key := table
		if renamed, ok := metadataCountKeys[table]; ok {
			key = renamed
		}
		lines = append(lines, fmt.Sprintf("%-18s %d", table, meta.RowCounts[key]))
	}

	var b strings.Builder
	if err := readmeTemplate.Execute(&b, readmeData{Metadata: meta, Tables: lines}); err != nil {
		return fmt.Errorf("failed to render readme: %w", err)
	}
	//nolint:gosec // G306: snapshot files are readable by the operator group
	if err := os.WriteFile(path, []byte(b.String()), 0o640); err != nil {
		return fmt.Errorf("failed to write readme: %w", err)
	}
	return nil
}
