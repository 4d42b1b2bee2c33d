package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/vendorize/internal/model"
)

// writeProject lays out a minimal project: a vendorize.jsonc and a
// populated destination tree. Returns the config path.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	configPath := filepath.Join(root, "vendorize.jsonc")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		// Vendoring policy for the test project.
		"destination": "_vendor",
		"namespace": "host._vendor",
		"substitutions": [
			{"match": "'pkgA\\.", "replace": "'host._vendor.pkgA."},
		],
	}`), 0o644))

	for rel, content := range files {
		path := filepath.Join(root, "_vendor", rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return configPath
}

func readVendored(t *testing.T, configPath, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(configPath), "_vendor", rel))
	require.NoError(t, err)
	return string(data)
}

// TestRunRewrite_EndToEnd drives the rewrite command through config
// loading, detection, substitution, and namespacing against a real tree.
func TestRunRewrite_EndToEnd(t *testing.T) {
	configPath := writeProject(t, map[string]string{
		"pkgA/__init__.py": "import pkgA.util as u\nNAME = 'pkgA.plugins'\n",
		"pkgA/util.py":     "import six\n",
		"six.py":           "import operator\n",
	})

	err := runRewrite("", &rewriteFlags{config: configPath})
	require.NoError(t, err)

	assert.Equal(t,
		"import host._vendor.pkgA.util as u\nNAME = 'host._vendor.pkgA.plugins'\n",
		readVendored(t, configPath, "pkgA/__init__.py"),
		"aliased dotted import and string literal should both be namespaced")
	assert.Equal(t, "from host._vendor import six\n",
		readVendored(t, configPath, "pkgA/util.py"),
		"library-internal sibling imports should be rewritten")
	assert.Equal(t, "import operator\n", readVendored(t, configPath, "six.py"),
		"non-vendored imports are untouched")
}

// TestRunRewrite_NamespaceOverride verifies the --namespace flag wins over
// the configured namespace.
func TestRunRewrite_NamespaceOverride(t *testing.T) {
	configPath := writeProject(t, map[string]string{
		"six.py": "VALUE = 1\n",
		"app.py": "import six\n",
	})

	err := runRewrite("", &rewriteFlags{config: configPath, namespace: "other.ns"})
	require.NoError(t, err)

	assert.Equal(t, "from other.ns import six\n", readVendored(t, configPath, "app.py"))
}

// TestRunRewrite_FatalRestoresDestination verifies the snapshot guard: an
// unrewritable import aborts with ExitUnrewritableImport and the
// destination comes back byte-identical to its pre-rewrite state, even
// though another file had already been rewritten during the walk.
func TestRunRewrite_FatalRestoresDestination(t *testing.T) {
	configPath := writeProject(t, map[string]string{
		"a_first.py":       "import pkgA\n",
		"pkgA/__init__.py": "",
		"z_bad.py":         "import pkgA.util\n",
	})

	err := runRewrite("", &rewriteFlags{config: configPath})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitUnrewritableImport, cliErr.Code)

	var rewriteErr *model.RewriteError
	require.True(t, errors.As(err, &rewriteErr), "the refusal should carry its location")
	assert.Equal(t, 1, rewriteErr.Line)

	assert.Equal(t, "import pkgA\n", readVendored(t, configPath, "a_first.py"),
		"the file rewritten before the failure must be restored")
	assert.Equal(t, "import pkgA.util\n", readVendored(t, configPath, "z_bad.py"))
}

// TestRunRewrite_MissingDestination verifies the documented exit code when
// the destination tree does not exist yet.
func TestRunRewrite_MissingDestination(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, "vendorize.jsonc")
	require.NoError(t, os.WriteFile(configPath,
		[]byte(`{"destination": "_vendor", "namespace": "host._vendor"}`), 0o644))

	err := runRewrite("", &rewriteFlags{config: configPath})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitDestinationNotFound, cliErr.Code)
}
