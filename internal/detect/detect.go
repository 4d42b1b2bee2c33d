package detect

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// SourceExt is the file extension that marks a top-level file as a
// single-file Python module. Top-level files without it cannot be mapped
// to an importable name.
const SourceExt = ".py"

// Libraries scans the direct children of the destination directory and
// returns the set of vendored library names.
//
// Classification rules:
//   - A directory is a library named after the directory itself
//     (a Python package).
//   - A file ending in .py is a library named after the file stem
//     (a single-file module).
//   - Any other file cannot be imported and is returned in skipped for
//     the caller to report; detection continues.
//
// The returned library list is sorted so that downstream processing order
// (and therefore any fatal-error line numbers) is reproducible across runs.
func Libraries(destination string) (libs []string, skipped []string, err error) {
	entries, err := os.ReadDir(destination)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan destination %s: %w", destination, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			libs = append(libs, entry.Name())
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, SourceExt) {
			// Not an importable module; report and skip (recoverable).
			skipped = append(skipped, name)
			continue
		}
		libs = append(libs, strings.TrimSuffix(name, SourceExt))
	}

	// os.ReadDir already sorts by filename, but directory names and file
	// stems interleave differently once extensions are stripped, so sort
	// the final name set explicitly.
	sort.Strings(libs)

	return libs, skipped, nil
}
