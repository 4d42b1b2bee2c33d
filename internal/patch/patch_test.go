package patch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/vendorize/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

// TestApplyDir_ModifiesFile verifies the central use case: a patch that
// reshapes a dotted import into a form the rewriter accepts.
func TestApplyDir_ModifiesFile(t *testing.T) {
	base := t.TempDir()
	patches := t.TempDir()

	writeFile(t, base, "pkgA/util.py", "import os\nimport pkgA.compat\nVALUE = 1\n")
	writeFile(t, patches, "01-fix-dotted-import.patch", `diff --git a/pkgA/util.py b/pkgA/util.py
--- a/pkgA/util.py
+++ b/pkgA/util.py
@@ -1,3 +1,3 @@
 import os
-import pkgA.compat
+from pkgA import compat
 VALUE = 1
`)

	applied, err := ApplyDir(patches, base)
	require.NoError(t, err)
	require.Len(t, applied, 1)

	assert.Equal(t, "import os\nfrom pkgA import compat\nVALUE = 1\n",
		readFile(t, base, "pkgA/util.py"))
}

// TestApplyDir_CreatesAndDeletesFiles verifies new-file and deleted-file
// diffs are handled, including parent directory creation.
func TestApplyDir_CreatesAndDeletesFiles(t *testing.T) {
	base := t.TempDir()
	patches := t.TempDir()

	writeFile(t, base, "pkgA/old.py", "GONE = True\n")
	writeFile(t, patches, "01-add-shim.patch", `diff --git a/pkgA/shims/extra.py b/pkgA/shims/extra.py
new file mode 100644
--- /dev/null
+++ b/pkgA/shims/extra.py
@@ -0,0 +1 @@
+NEW = True
`)
	writeFile(t, patches, "02-drop-old.patch", `diff --git a/pkgA/old.py b/pkgA/old.py
deleted file mode 100644
--- a/pkgA/old.py
+++ /dev/null
@@ -1 +0,0 @@
-GONE = True
`)

	applied, err := ApplyDir(patches, base)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	assert.Equal(t, "NEW = True\n", readFile(t, base, "pkgA/shims/extra.py"))
	assert.NoFileExists(t, filepath.Join(base, "pkgA/old.py"))
}

// TestApplyDir_LexicalOrder verifies patches apply in filename order; the
// second patch edits a line introduced by the first.
func TestApplyDir_LexicalOrder(t *testing.T) {
	base := t.TempDir()
	patches := t.TempDir()

	writeFile(t, base, "mod.py", "A = 1\n")
	writeFile(t, patches, "01-first.patch", `diff --git a/mod.py b/mod.py
--- a/mod.py
+++ b/mod.py
@@ -1 +1,2 @@
 A = 1
+B = 2
`)
	writeFile(t, patches, "02-second.patch", `diff --git a/mod.py b/mod.py
--- a/mod.py
+++ b/mod.py
@@ -1,2 +1,2 @@
 A = 1
-B = 2
+B = 3
`)

	_, err := ApplyDir(patches, base)
	require.NoError(t, err)
	assert.Equal(t, "A = 1\nB = 3\n", readFile(t, base, "mod.py"))
}

// TestApplyDir_HunkMismatch verifies a patch that no longer matches the
// target aborts with ExitPatchFailed and names the patch file.
func TestApplyDir_HunkMismatch(t *testing.T) {
	base := t.TempDir()
	patches := t.TempDir()

	writeFile(t, base, "mod.py", "COMPLETELY = 'different'\n")
	writeFile(t, patches, "01-stale.patch", `diff --git a/mod.py b/mod.py
--- a/mod.py
+++ b/mod.py
@@ -1 +1 @@
-A = 1
+A = 2
`)

	_, err := ApplyDir(patches, base)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitPatchFailed, cliErr.Code)
	assert.Contains(t, cliErr.Message, "01-stale.patch")
}

// TestApplyDir_NoPatches verifies an empty patches directory is a no-op.
func TestApplyDir_NoPatches(t *testing.T) {
	applied, err := ApplyDir(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, applied)
}
