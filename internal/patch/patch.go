// Package patch applies git-style unified diff files to the vendored tree.
//
// Patches are the escape hatch for imports the rewriter refuses (the
// `import dotted.name` form) and for any other source-level fixup a
// vendored library needs before relocation. Application happens after the
// download step and before import rewriting.
//
// We apply diffs in-process with github.com/bluekeyes/go-gitdiff instead
// of shelling out to `git apply`, which removes the git-binary requirement
// and the whitespace workarounds that `git apply` needs on Windows.
package patch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/mmr-tortoise/vendorize/internal/model"
)

// ApplyDir applies every *.patch file in patchesDir, in lexical order,
// against paths resolved relative to baseDir.
//
// Returns the list of applied patch file paths. Any failure aborts with a
// CLIError carrying ExitPatchFailed and the offending patch filename; a
// broken patch set is a structural problem the user must fix, not a
// condition to retry.
func ApplyDir(patchesDir, baseDir string) ([]string, error) {
	// filepath.Glob returns matches in lexical order, which fixes the
	// application order across runs.
	patches, err := filepath.Glob(filepath.Join(patchesDir, "*.patch"))
	if err != nil {
		return nil, fmt.Errorf("failed to list patches in %s: %w", patchesDir, err)
	}

	for _, patchPath := range patches {
		if err := applyOne(patchPath, baseDir); err != nil {
			return nil, model.WrapCLIError(
				model.ExitPatchFailed,
				fmt.Sprintf("failed to apply patch %s", patchPath),
				err,
			)
		}
	}
	return patches, nil
}

// applyOne parses a single patch file and applies each file diff it
// contains.
func applyOne(patchPath, baseDir string) error {
	f, err := os.Open(patchPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	files, _, err := gitdiff.Parse(f)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	for _, fileDiff := range files {
		if err := applyFileDiff(fileDiff, baseDir); err != nil {
			return err
		}
	}
	return nil
}

// applyFileDiff applies one file's hunks. go-gitdiff strips the standard
// a/ and b/ prefixes during parsing, so OldName/NewName are repo-relative
// paths joined directly under baseDir.
func applyFileDiff(fileDiff *gitdiff.File, baseDir string) error {
	oldPath := filepath.Join(baseDir, fileDiff.OldName)
	newPath := filepath.Join(baseDir, fileDiff.NewName)

	// Deletions need no hunk application; remove the target and move on.
	if fileDiff.IsDelete {
		if err := os.Remove(oldPath); err != nil {
			return fmt.Errorf("delete %s: %w", fileDiff.OldName, err)
		}
		return nil
	}

	// Source content: empty for newly created files, current on-disk
	// content otherwise.
	var src []byte
	if !fileDiff.IsNew {
		var err error
		src, err = os.ReadFile(oldPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", fileDiff.OldName, err)
		}
	}

	var patched bytes.Buffer
	if err := gitdiff.Apply(&patched, bytes.NewReader(src), fileDiff); err != nil {
		return fmt.Errorf("apply hunks to %s: %w", fileDiff.OldName, err)
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", fileDiff.NewName, err)
	}
	if err := os.WriteFile(newPath, patched.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fileDiff.NewName, err)
	}

	// A rename leaves the old path behind; clean it up after the new
	// content is safely written.
	if fileDiff.OldName != "" && fileDiff.OldName != fileDiff.NewName && !fileDiff.IsNew {
		if err := os.Remove(oldPath); err != nil {
			return fmt.Errorf("remove renamed %s: %w", fileDiff.OldName, err)
		}
	}
	return nil
}
