// Package cli — common.go holds helpers shared by the sync, rewrite, and
// libs commands: configuration resolution, library detection with skip
// reporting, and the snapshot-guarded rewrite step.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mmr-tortoise/vendorize/internal/config"
	"github.com/mmr-tortoise/vendorize/internal/detect"
	"github.com/mmr-tortoise/vendorize/internal/model"
	"github.com/mmr-tortoise/vendorize/internal/rewrite"
	"github.com/mmr-tortoise/vendorize/internal/vendordir"
)

// loadConfig resolves the configuration: an explicit --config path wins,
// otherwise the current directory is searched for the standard filenames.
func loadConfig(configPath string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", cwdErr)
		}
		cfg, err = config.Find(cwd)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}
	return cfg, nil
}

// detectLibraries runs library detection against the destination, logging
// a warning for every top-level entry that cannot be mapped to an
// importable name (reported, not fatal, per the detection contract).
func detectLibraries(destination string) ([]string, error) {
	if _, err := os.Stat(destination); err != nil {
		return nil, model.WrapCLIError(
			model.ExitDestinationNotFound,
			fmt.Sprintf("destination directory does not exist: %s", destination),
			err,
		)
	}

	libs, skipped, err := detect.Libraries(destination)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "library detection failed", err)
	}
	for _, name := range skipped {
		logger.Warn("skipping unexpected non-Python top-level file", "file", name)
	}
	logger.Debug("detected vendored libraries", "count", len(libs), "libs", libs)
	return libs, nil
}

// rewriteDestination runs the substitution and import-rewriting pipeline
// over the destination behind a snapshot: on any failure the pre-transform
// tree is swapped back, so the destination is never left half-rewritten.
//
// The fatal unrewritable-import refusal is translated to a CLIError with
// ExitUnrewritableImport; its message carries the file, 1-based line, and
// offending import text, plus the instruction that a patch is required.
func rewriteDestination(destination, namespace string, libs []string, rules []rewrite.CompiledRule) error {
	snapshot, err := vendordir.Snapshot(destination)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to snapshot destination", err)
	}
	logger.Debug("snapshotted destination", "snapshot", snapshot)

	if err := rewrite.Tree(destination, namespace, libs, rules); err != nil {
		if restoreErr := vendordir.Restore(snapshot, destination); restoreErr != nil {
			logger.Error("failed to restore destination from snapshot",
				"snapshot", snapshot, "err", restoreErr)
		} else {
			logger.Info("restored destination to its pre-rewrite state")
		}

		var rewriteErr *model.RewriteError
		if errors.As(err, &rewriteErr) {
			return model.WrapCLIError(model.ExitUnrewritableImport,
				"import rewriting refused", rewriteErr)
		}
		return model.WrapCLIError(model.ExitGeneralError, "import rewriting failed", err)
	}

	if err := vendordir.Discard(snapshot); err != nil {
		// The rewrite itself succeeded; a leftover snapshot directory is
		// only clutter, so report it and carry on.
		logger.Warn("failed to remove snapshot directory", "snapshot", snapshot, "err", err)
	}
	return nil
}
