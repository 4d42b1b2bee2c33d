package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- RewriteError tests ---

// TestRewriteError_Message verifies that the fatal-error message carries all
// three pieces of location context: file path, 1-based line number, and the
// literal offending import line. These are the user's only lead for writing
// the patch that unblocks the run.
func TestRewriteError_Message(t *testing.T) {
	err := &RewriteError{
		File: "dest/pkgA/util.py",
		Line: 14,
		Text: "import pkgA.compat",
	}

	msg := err.Error()
	assert.Contains(t, msg, `"dest/pkgA/util.py"`, "message should quote the file path")
	assert.Contains(t, msg, "line 14", "message should include the 1-based line number")
	assert.Contains(t, msg, "import pkgA.compat", "message should include the offending line")
	assert.Contains(t, msg, "patch", "message should instruct the user that a patch is required")
}

// --- CLIError tests ---

// TestCLIError_Error verifies message formatting with and without an
// underlying error.
func TestCLIError_Error(t *testing.T) {
	plain := NewCLIError(ExitFetchFailed, "pip download failed")
	assert.Equal(t, "pip download failed", plain.Error())

	wrapped := WrapCLIError(ExitPatchFailed, "failed to apply patch", fmt.Errorf("hunk mismatch"))
	assert.Equal(t, "failed to apply patch: hunk mismatch", wrapped.Error())
}

// TestCLIError_Unwrap verifies that errors.Is/errors.As can see through a
// CLIError to the underlying cause. The CLI layer relies on this to detect
// a RewriteError inside a wrapped pipeline error.
func TestCLIError_Unwrap(t *testing.T) {
	cause := &RewriteError{File: "x.py", Line: 1, Text: "import a.b"}
	wrapped := WrapCLIError(ExitUnrewritableImport, "rewrite failed", cause)

	var rewriteErr *RewriteError
	require.True(t, errors.As(wrapped, &rewriteErr),
		"errors.As should unwrap CLIError down to the RewriteError")
	assert.Equal(t, 1, rewriteErr.Line)
}

// TestExitCodes verifies the exit code values stay stable; scripts depend
// on these numbers.
func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitCode(0), ExitSuccess)
	assert.Equal(t, ExitCode(1), ExitGeneralError)
	assert.Equal(t, ExitCode(2), ExitConfigNotFound)
	assert.Equal(t, ExitCode(3), ExitFetchFailed)
	assert.Equal(t, ExitCode(4), ExitPatchFailed)
	assert.Equal(t, ExitCode(5), ExitUnrewritableImport)
	assert.Equal(t, ExitCode(6), ExitDestinationNotFound)
}
