// Package fetch downloads the vendored libraries into the destination
// directory by invoking pip.
//
// Design decisions:
//   - We shell out to `pip` (via `python3 -m pip`) rather than fetching
//     wheels ourselves because pip owns resolution, hash verification, and
//     wheel unpacking; reimplementing any of that would change which bytes
//     land in the destination.
//   - The install flags pin a secure, reproducible fetch: hashes required,
//     wheels only, no dependency resolution (the requirements file is the
//     complete closure).
//   - Output is streamed line-by-line to the logger so long downloads show
//     progress instead of going silent.
package fetch

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/vendorize/internal/model"
)

// DefaultPython is the interpreter used to reach pip when none is
// configured.
const DefaultPython = "python3"

// Fetcher downloads vendored libraries with pip.
//
// It is stateless apart from the interpreter path; the struct exists as a
// receiver so a custom interpreter (virtualenv, pinned toolchain) can be
// injected.
type Fetcher struct {
	// Python is the interpreter used to invoke pip.
	Python string

	// Logger receives the streamed pip output. Defaults to log.Default().
	Logger *log.Logger
}

// NewFetcher creates a Fetcher using the default interpreter and logger.
func NewFetcher() *Fetcher {
	return &Fetcher{Python: DefaultPython, Logger: log.Default()}
}

// pipArgs builds the pip command line for a secure, reproducible install
// into the destination directory:
//
//	python3 -m pip install -t <dest> --no-cache-dir --implementation py
//	  --no-deps --require-hashes --only-binary :all: -r <requirements>
func pipArgs(destination, requirements string) []string {
	return []string{
		"-m", "pip", "install",
		"-t", destination,
		"--no-cache-dir",
		"--implementation", "py",
		"--no-deps",
		"--require-hashes",
		"--only-binary", ":all:",
		"-r", requirements,
	}
}

// Download runs pip and streams its combined output to the logger.
// A non-zero pip exit is returned as a CLIError with ExitFetchFailed.
func (f *Fetcher) Download(ctx context.Context, destination, requirements string) error {
	logger := f.Logger
	if logger == nil {
		logger = log.Default()
	}

	args := pipArgs(destination, requirements)
	logger.Debug("running pip", "python", f.Python, "args", strings.Join(args, " "))

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, f.Python, args...)

	// Merge stderr into stdout: pip interleaves progress and warnings
	// across both, and the combined stream reads naturally in order.
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open pip output pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return model.WrapCLIError(model.ExitFetchFailed, "failed to start pip", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), " \t"); line != "" {
			logger.Info(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		return model.WrapCLIError(
			model.ExitFetchFailed,
			fmt.Sprintf("pip install -r %s failed", requirements),
			err,
		)
	}
	return nil
}
