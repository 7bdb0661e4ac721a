// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
archive.go - Archive Packager

Delivers a finished snapshot either as a zip download or as a directory
reference.

Zip Delivery:
 1. Write <snapshot>.zip next to the snapshot directory
 2. Add every file under the snapshot root, names relative to the root
 3. Deflate at maximum compression (klauspost/compress flate)
 4. Read the archive into memory
 5. Remove the archive file and the snapshot directory

The snapshot directory and the partial archive are removed on failure as
well, so a failed download never leaves a stray snapshot behind.

Directory Delivery:
Locate reports the snapshot path and its total size; nothing is removed.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"

	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/metrics"
)

// Packager turns snapshot directories into deliverables.
type Packager struct {
	level int
}

// NewPackager creates a packager that deflates at maximum compression.
func NewPackager() *Packager {
	return &Packager{level: flate.BestCompression}
}

// Pack zips snapshotRoot, returns the archive bytes and removes both the
// archive file and the snapshot directory.
func (p *Packager) Pack(ctx context.Context, snapshotRoot string) ([]byte, error) {
	snapshotRoot = filepath.Clean(snapshotRoot)
	if !dirExists(snapshotRoot) {
		return nil, ErrSnapshotNotFound
	}
	archivePath := snapshotRoot + ".zip"

	defer func() {
		if err := os.RemoveAll(snapshotRoot); err != nil {
			logging.Warn().Err(err).Str("path", snapshotRoot).Msg("Failed to remove packed snapshot directory")
		}
		if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("path", archivePath).Msg("Failed to remove archive file")
		}
	}()

	if err := p.writeArchive(ctx, snapshotRoot, archivePath); err != nil {
		return nil, err
	}

	//nolint:gosec // G304: archivePath is derived from the snapshot root
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	metrics.SnapshotSizeBytes.Set(float64(len(data)))
	return data, nil
}

// Locate returns the snapshot directory and its total file size.
func (p *Packager) Locate(snapshotRoot string) (*Location, error) {
	if !dirExists(snapshotRoot) {
		return nil, ErrSnapshotNotFound
	}
	size, err := dirSize(snapshotRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to measure snapshot: %w", err)
	}
	metrics.SnapshotSizeBytes.Set(float64(size))
	return &Location{Path: snapshotRoot, SizeBytes: size}, nil
}

// writeArchive writes the zip file. The output file is closed on every path.
//
//nolint:gosec // G304: archivePath is derived from the snapshot root
func (p *Packager) writeArchive(ctx context.Context, root, archivePath string) (err error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close archive: %w", closeErr)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, p.level)
	})

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return addZipEntry(zw, path, filepath.ToSlash(rel), d)
	})
	if walkErr != nil {
		zw.Close() //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to compress snapshot: %w", walkErr)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return out.Sync()
}

//nolint:gosec // G304: path comes from walking the snapshot root
func addZipEntry(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // Best effort cleanup
	_, err = io.Copy(w, f)
	return err
}
