// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
relocate.go - Image Relocator

Copies treatment photos from the live upload directory into the canonical
snapshot layout:

	images/customers/<customer>/<YYYY-MM-DD>/<file>

Two stored URL shapes exist in the live data:

  - new: the URL already encodes customers/<name>/<date>/<file>, optionally
    behind /uploads/. The file lives at <images-dir>/<stored path> and its
    trailing segment is kept as the canonical filename.
  - legacy: the URL is a flat file name, optionally behind /uploads/. The
    file lives at <images-dir>/<name> and the canonical filename becomes
    treatment_<id>_<original filename>.

The directory part is always recomputed from the record, so a renamed
customer or a corrected treatment date lands in the right folder.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/models"
)

// UndatedBucket is the date folder used when a treatment date cannot be parsed.
const UndatedBucket = "undated"

// ErrUnsafeImagePath is returned when a stored image URL escapes the images directory.
var ErrUnsafeImagePath = errors.New("image path escapes images directory")

var nameReplacer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// SanitizeName replaces each character that is invalid in a file or folder
// name on common file systems with an underscore.
func SanitizeName(name string) string {
	return nameReplacer.Replace(name)
}

// folderName sanitizes a customer name for use as one path segment.
func folderName(name string) string {
	name = SanitizeName(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

// ImagePlacement carries everything needed to place one photo.
type ImagePlacement struct {
	ImageID          int64
	CustomerID       int64
	CustomerName     string
	TreatmentID      int64
	TreatmentDate    string
	OriginalFilename string
	StoredURL        string
}

// PlacementFromRecord converts a joined image row into a placement.
func PlacementFromRecord(rec *models.ImageRecord) ImagePlacement {
	return ImagePlacement{
		ImageID:          rec.ImageID,
		CustomerID:       rec.CustomerID,
		CustomerName:     rec.CustomerName,
		TreatmentID:      rec.TreatmentID,
		TreatmentDate:    rec.TreatmentDate,
		OriginalFilename: rec.OriginalFilename.String,
		StoredURL:        rec.ImageURL,
	}
}

// RelocateOutcome is the result of relocating one photo.
type RelocateOutcome struct {
	// Copied is false when the source file was absent.
	Copied bool

	// RelPath is the path used under the images root, with forward slashes.
	RelPath string

	// Source is the live file that was (or would have been) copied.
	Source string
}

// Skipped reports whether the photo was left out of the snapshot.
func (o RelocateOutcome) Skipped() bool {
	return !o.Copied
}

// RelocateStats summarizes a RelocateAll run.
type RelocateStats struct {
	Copied  int
	Skipped int
}

// Relocator places live photos into a snapshot's images directory.
type Relocator struct {
	imagesDir string
	loc       *time.Location
	workers   int
}

// NewRelocator creates a relocator reading from imagesDir. Treatment dates
// are bucketed in loc; nil means time.Local.
func NewRelocator(imagesDir string, loc *time.Location, workers int) *Relocator {
	if loc == nil {
		loc = time.Local
	}
	if workers < 1 {
		workers = 1
	}
	return &Relocator{imagesDir: imagesDir, loc: loc, workers: workers}
}

// storedPath strips the public /uploads/ prefix from a stored URL.
func storedPath(url string) string {
	p := strings.TrimSpace(url)
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimPrefix(p, "uploads/")
	return strings.TrimPrefix(p, "/")
}

// Plan computes the source file and canonical relative destination of a
// placement without touching the file system.
func (r *Relocator) Plan(p ImagePlacement) (source, relPath string, err error) {
	stored := path.Clean(storedPath(p.StoredURL))
	if stored == "." || stored == "" {
		return "", "", fmt.Errorf("image %d has an empty url", p.ImageID)
	}
	if stored == ".." || strings.HasPrefix(stored, "../") || path.IsAbs(stored) {
		return "", "", fmt.Errorf("%w: %q", ErrUnsafeImagePath, p.StoredURL)
	}

	var fileName string
	if strings.HasPrefix(stored, CustomersDir+"/") {
		source = filepath.Join(r.imagesDir, filepath.FromSlash(stored))
		fileName = path.Base(stored)
	} else {
		base := path.Base(stored)
		source = filepath.Join(r.imagesDir, base)
		original := p.OriginalFilename
		if strings.TrimSpace(original) == "" {
			original = base
		}
		fileName = fmt.Sprintf("treatment_%d_%s", p.TreatmentID, SanitizeName(path.Base(original)))
	}

	relPath = path.Join(CustomersDir, folderName(p.CustomerName), r.dateBucket(p.TreatmentDate), fileName)
	return source, relPath, nil
}

// Relocate copies one photo into destRoot (the snapshot's images
// directory). A missing source yields a skipped outcome and no error.
func (r *Relocator) Relocate(p ImagePlacement, destRoot string) (RelocateOutcome, error) {
	source, relPath, err := r.Plan(p)
	if err != nil {
		return RelocateOutcome{}, err
	}
	return r.copyPlanned(source, relPath, destRoot)
}

func (r *Relocator) copyPlanned(source, relPath, destRoot string) (RelocateOutcome, error) {
	out := RelocateOutcome{RelPath: relPath, Source: source}

	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("failed to stat %s: %w", source, err)
	}
	if info.IsDir() {
		return out, nil
	}

	if err := copyFile(source, filepath.Join(destRoot, filepath.FromSlash(relPath))); err != nil {
		return out, fmt.Errorf("failed to copy %s: %w", source, err)
	}
	out.Copied = true
	return out, nil
}

// RelocateAll relocates every record with a bounded worker pool. Per-image
// failures are logged and counted as skipped; only context cancellation
// aborts the run. Two records that map to the same destination keep both
// files: the later one gets its image id appended to the file name.
func (r *Relocator) RelocateAll(ctx context.Context, records []models.ImageRecord, destRoot string) (RelocateStats, error) {
	logger := logging.Ctx(ctx)

	type job struct {
		id      int64
		source  string
		relPath string
	}
	jobs := make([]job, 0, len(records))
	var skipped atomic.Int64

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		p := PlacementFromRecord(&records[i])
		source, relPath, err := r.Plan(p)
		if err != nil {
			logger.Warn().Err(err).Int64("image_id", p.ImageID).Str("url", p.StoredURL).
				Msg("Skipping image with unusable path")
			skipped.Add(1)
			continue
		}
		if _, dup := seen[relPath]; dup {
			ext := path.Ext(relPath)
			relPath = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(relPath, ext), p.ImageID, ext)
		}
		seen[relPath] = struct{}{}
		jobs = append(jobs, job{id: p.ImageID, source: source, relPath: relPath})
	}

	var copied atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.copyPlanned(j.source, j.relPath, destRoot)
			switch {
			case err != nil:
				logger.Warn().Err(err).Int64("image_id", j.id).Str("path", j.source).Msg("Failed to copy image")
				skipped.Add(1)
			case out.Skipped():
				logger.Debug().Int64("image_id", j.id).Str("path", j.source).Msg("Image source missing, skipped")
				skipped.Add(1)
			default:
				copied.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return RelocateStats{Copied: int(copied.Load()), Skipped: int(skipped.Load())}, err
}

// naiveLayouts carry no offset and are interpreted in the relocator's zone.
var naiveLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// offsetLayouts carry an offset and are converted into the relocator's zone.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// dateBucket formats a treatment date as the calendar day in the
// relocator's zone.
func (r *Relocator) dateBucket(raw string) string {
	t, ok := parseTreatmentDate(raw, r.loc)
	if !ok {
		return UndatedBucket
	}
	return t.Format("2006-01-02")
}

func parseTreatmentDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	if len(raw) >= 10 {
		if t, err := time.ParseInLocation("2006-01-02", raw[:10], loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
