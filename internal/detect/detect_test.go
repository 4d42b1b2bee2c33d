package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile is a small fixture helper that creates a file with dummy content.
func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("# placeholder\n"), 0o644))
}

// TestLibraries_DirsAndModules verifies the core classification: package
// directories keep their name, single-file modules lose their extension,
// and the result is sorted.
func TestLibraries_DirsAndModules(t *testing.T) {
	dest := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(dest, "pkgB"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dest, "pkgA"), 0o755))
	writeFile(t, filepath.Join(dest, "six.py"))

	libs, skipped, err := Libraries(dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"pkgA", "pkgB", "six"}, libs,
		"directories and file stems should be detected and sorted")
	assert.Empty(t, skipped, "no entries should be skipped")
}

// TestLibraries_SkipsNonSourceFiles verifies that top-level files without
// the .py extension are reported via skipped but do not fail detection and
// do not appear as libraries.
func TestLibraries_SkipsNonSourceFiles(t *testing.T) {
	dest := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(dest, "requests"), 0o755))
	writeFile(t, filepath.Join(dest, "README.md"))
	writeFile(t, filepath.Join(dest, "requirements.txt"))

	libs, skipped, err := Libraries(dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"requests"}, libs)
	assert.Equal(t, []string{"README.md", "requirements.txt"}, skipped,
		"non-source top-level files should be reported, not silently dropped")
}

// TestLibraries_NonRecursive verifies that nested entries are never
// classified as libraries, only direct children of the destination.
func TestLibraries_NonRecursive(t *testing.T) {
	dest := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dest, "pkgA", "vendorinner"), 0o755))
	writeFile(t, filepath.Join(dest, "pkgA", "util.py"))

	libs, skipped, err := Libraries(dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"pkgA"}, libs,
		"nested packages and modules are internals, not libraries")
	assert.Empty(t, skipped)
}

// TestLibraries_MissingDestination verifies the error path when the
// destination directory does not exist.
func TestLibraries_MissingDestination(t *testing.T) {
	_, _, err := Libraries(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan destination")
}
