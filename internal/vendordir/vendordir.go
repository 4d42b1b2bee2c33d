// Package vendordir maintains the vendoring destination directory.
//
// The rewriter mutates files in place with no transaction boundary: a
// fatal error mid-walk leaves earlier files rewritten. This package makes
// that boundary explicit for the orchestrator — Snapshot copies the tree
// before rewriting starts, Restore swaps the copy back on failure, and
// Discard drops it on success. The rewriting core itself stays free of
// atomicity concerns.
package vendordir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Clean removes every top-level entry of the destination except the names
// listed in keep. This resets the destination before a fresh download
// while preserving files that live inside it but are not vendored content
// (typically the requirements file).
//
// A missing destination is not an error; the download step creates it.
func Clean(destination string, keep []string) error {
	entries, err := os.ReadDir(destination)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to scan destination %s: %w", destination, err)
	}

	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}

	for _, entry := range entries {
		if kept[entry.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(destination, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Snapshot copies the destination tree into a temporary sibling directory
// and returns its path. Symbolic links are skipped to keep the copy
// behavior predictable.
func Snapshot(destination string) (string, error) {
	snap, err := os.MkdirTemp(filepath.Dir(destination), ".vendorize-snapshot-")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := copyTree(destination, snap); err != nil {
		_ = os.RemoveAll(snap)
		return "", fmt.Errorf("failed to snapshot %s: %w", destination, err)
	}
	return snap, nil
}

// Restore replaces the destination with the snapshot, recovering the
// pre-transform tree after a fatal rewrite error.
func Restore(snapshot, destination string) error {
	if err := os.RemoveAll(destination); err != nil {
		return fmt.Errorf("failed to remove partially rewritten %s: %w", destination, err)
	}
	if err := os.Rename(snapshot, destination); err != nil {
		return fmt.Errorf("failed to restore snapshot into %s: %w", destination, err)
	}
	return nil
}

// Discard deletes a snapshot after a successful run.
func Discard(snapshot string) error {
	return os.RemoveAll(snapshot)
}

// Stats walks the destination and returns its file count and total size in
// bytes, for the post-run summary.
func Stats(destination string) (files int, bytes int64, err error) {
	err = filepath.Walk(destination, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.Mode().IsRegular() {
			files++
			bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to measure %s: %w", destination, err)
	}
	return files, bytes, nil
}

// copyTree recursively copies srcDir into dstDir, preserving file modes
// and skipping symbolic links.
func copyTree(srcDir, dstDir string) error {
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error walking %s: %w", path, walkErr)
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dstDir, relPath)

		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		if info.IsDir() {
			if err := os.MkdirAll(dstPath, info.Mode()); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}

		return copyFile(path, dstPath, info.Mode())
	})
}

// copyFile copies a single file from src to dst, preserving the file mode.
// io.Copy streams the contents so large wheels never load fully into memory.
func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}
