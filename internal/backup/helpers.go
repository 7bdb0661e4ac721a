// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
helpers.go - File System Helpers

Byte-level copy primitives shared by the snapshot builder, the image
relocator and the restore engine.

  - copyFile(): copy one file, creating parent directories, fsync before close
  - copyTree(): copy a directory tree with a bounded worker pool
  - dirSize(): recursive sum of regular file sizes
  - fileExists()/dirExists(): stat helpers

Copies never move or delete their source.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// copyFile copies a file from src to dst
//
//nolint:gosec // G304: paths are validated by caller
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close() //nolint:errcheck // Best effort cleanup

	// Ensure destination directory exists
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	return copyAndCloseDestFile(destFile, sourceFile)
}

// copyAndCloseDestFile copies data from source to destination file and ensures proper cleanup
func copyAndCloseDestFile(destFile *os.File, sourceFile io.Reader) error {
	_, err := io.Copy(destFile, sourceFile)
	if err != nil {
		destFile.Close() //nolint:errcheck // Best effort cleanup on error
		return err
	}

	if err := destFile.Sync(); err != nil {
		destFile.Close() //nolint:errcheck // Best effort cleanup on error
		return err
	}

	return destFile.Close()
}

// copyTree copies every regular file under src into dst, preserving the
// relative layout and overwriting same-named files. Files already in dst
// that have no counterpart in src are left alone. Returns the number of
// files copied; on error the count covers the files finished before it.
func copyTree(ctx context.Context, src, dst string, workers int) (int, error) {
	var files []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", src, err)
	}

	if workers < 1 {
		workers = 1
	}
	var copied atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rel := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := copyFile(filepath.Join(src, rel), filepath.Join(dst, rel)); err != nil {
				return fmt.Errorf("failed to copy %s: %w", rel, err)
			}
			copied.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(copied.Load()), err
	}
	return int(copied.Load()), ctx.Err()
}

// dirSize sums the sizes of all regular files under root.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
