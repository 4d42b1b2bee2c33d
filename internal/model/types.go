package model

import (
	"fmt"
)

// SubstitutionRule is one caller-supplied textual fixup, applied globally
// over each file's full text before any import rewriting happens.
//
// Match is a regular expression; Replace may reference captured groups
// using the ${n} syntax of regexp.ReplaceAllString. Rules run in the order
// they appear in the configuration, and later rules see the output of
// earlier ones.
type SubstitutionRule struct {
	// Match is the regular expression applied to the whole file text.
	Match string `json:"match" yaml:"match"`

	// Replace is the replacement template, expanded per match.
	Replace string `json:"replace" yaml:"replace"`
}

// RewriteError is the fatal refusal raised when a source file contains an
// unaliased dotted import of a vendored library (e.g. `import pkgA.util`).
//
// Such an import binds the top-level name in the caller's scope, so no
// purely textual rewrite through a namespace preserves its runtime
// semantics. The rewriter refuses rather than guesses; resolution requires
// a source patch that reshapes the offending import.
type RewriteError struct {
	// File is the path of the file containing the offending import.
	File string

	// Line is the 1-based line number of the offending import, counted
	// in the file's current (possibly already partially rewritten) text.
	Line int

	// Text is the literal offending import statement.
	Text string
}

// Error satisfies the error interface. The message carries everything the
// user needs to write a patch: file, line, and the offending statement.
func (e *RewriteError) Error() string {
	return fmt.Sprintf(
		"encountered an import that cannot be transformed for a namespace\n"+
			"  File %q, line %d\n"+
			"    %s\n"+
			"add a patch that reshapes this code to avoid the `import dotted.name` form; "+
			"dotted imports cannot be rewritten to go through a namespace",
		e.File, e.Line, e.Text,
	)
}

// ExitCode defines the CLI exit codes. These codes let scripts and CI
// systems determine the outcome of a command programmatically.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigNotFound indicates no vendorize configuration file was
	// found in the expected locations.
	ExitConfigNotFound ExitCode = 2

	// ExitFetchFailed indicates the package-manager download step failed.
	ExitFetchFailed ExitCode = 3

	// ExitPatchFailed indicates a patch file could not be applied.
	ExitPatchFailed ExitCode = 4

	// ExitUnrewritableImport indicates the rewriter refused a dotted
	// import it cannot safely transform (see RewriteError).
	ExitUnrewritableImport ExitCode = 5

	// ExitDestinationNotFound indicates the configured destination
	// directory does not exist.
	ExitDestinationNotFound ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
