// Package cli — sync.go implements the "vendorize sync" command.
//
// sync is the primary user-facing operation. It runs the full vendoring
// pipeline against the configured destination:
//
//  1. Load and validate the configuration, compile substitution rules
//  2. Clean the destination (preserving the requirements file)
//  3. Download the vendored libraries with pip
//  4. Detect which libraries got vendored
//  5. Apply project patch files
//  6. Rewrite imports through the namespace (snapshot-guarded)
//  7. Output a summary (text or JSON)
package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/vendorize/internal/fetch"
	"github.com/mmr-tortoise/vendorize/internal/model"
	"github.com/mmr-tortoise/vendorize/internal/patch"
	"github.com/mmr-tortoise/vendorize/internal/rewrite"
	"github.com/mmr-tortoise/vendorize/internal/vendordir"
)

// syncFlags holds the flag values for the sync command.
// These are bound to cobra flags in NewSyncCommand.
type syncFlags struct {
	config  string // --config: explicit configuration file path
	noFetch bool   // --no-fetch: reuse the already-downloaded destination
	python  string // --python: interpreter used to invoke pip
}

// syncSummary is the machine-readable result of a sync run, emitted when
// --json is set.
type syncSummary struct {
	Destination    string   `json:"destination"`
	Namespace      string   `json:"namespace"`
	Libraries      []string `json:"libraries"`
	PatchesApplied []string `json:"patchesApplied,omitempty"`
	Files          int      `json:"files"`
	SizeBytes      int64    `json:"sizeBytes"`
}

// NewSyncCommand creates the "sync" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSyncCommand() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download, patch, and namespace the vendored libraries",
		Long: `Run the full vendoring pipeline: reset the destination, download the
libraries pinned in the requirements file, apply project patches, and
rewrite every import of a vendored library through the configured
namespace.

The rewrite step is snapshot-guarded: if any file contains an import that
cannot be rewritten safely, the destination is restored to its
pre-rewrite state and the offending file and line are reported.

Examples:
  vendorize sync
  vendorize sync --config tools/vendorize.jsonc
  vendorize sync --no-fetch
  vendorize sync --python .venv/bin/python`,

		// No positional arguments: everything comes from the configuration.
		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "", "Configuration file path (default: search current directory)")
	cmd.Flags().BoolVar(&flags.noFetch, "no-fetch", false, "Skip the clean and download steps, reuse the existing destination")
	cmd.Flags().StringVar(&flags.python, "python", fetch.DefaultPython, "Python interpreter used to invoke pip")

	return cmd
}

// runSync is the main orchestration function for the sync command.
func runSync(cmd *cobra.Command, flags *syncFlags) error {
	// Step 1: Configuration and substitution rules.
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	rules, err := rewrite.CompileRules(cfg.Substitutions)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid substitution rules", err)
	}
	destination := cfg.DestinationPath()
	logger.Debug("configuration loaded", "destination", destination, "namespace", cfg.Namespace)

	// Step 2 + 3: Clean and download, unless the caller wants to operate
	// on an already-populated destination.
	if !flags.noFetch {
		requirements := cfg.RequirementsPath()
		if requirements == "" {
			return model.NewCLIError(model.ExitGeneralError,
				"configuration has no requirements file; use --no-fetch to rewrite an existing destination")
		}

		// Preserve the requirements file across the reset when it lives
		// inside the destination directory.
		var keep []string
		if filepath.Dir(requirements) == filepath.Clean(destination) {
			keep = append(keep, filepath.Base(requirements))
		}
		logger.Info("cleaning destination", "destination", destination)
		if err := vendordir.Clean(destination, keep); err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to clean destination", err)
		}

		logger.Info("downloading vendored libraries", "requirements", requirements)
		fetcher := &fetch.Fetcher{Python: flags.python, Logger: logger}
		if err := fetcher.Download(cmd.Context(), destination, requirements); err != nil {
			return err
		}
	}

	// Step 4: Detect what got vendored. The library set is fixed from this
	// point on; patches may reshape imports but never add libraries.
	libs, err := detectLibraries(destination)
	if err != nil {
		return err
	}

	// Step 5: Apply project patches, if configured.
	var applied []string
	if patchesDir := cfg.PatchesPath(); patchesDir != "" {
		logger.Info("applying patches", "dir", patchesDir)
		applied, err = patch.ApplyDir(patchesDir, cfg.BaseDir())
		if err != nil {
			return err
		}
		for _, p := range applied {
			logger.Debug("applied patch", "patch", p)
		}
	}

	// Step 6: Rewrite imports through the namespace, snapshot-guarded.
	logger.Info("rewriting imports", "namespace", cfg.Namespace, "libraries", len(libs))
	if err := rewriteDestination(destination, cfg.Namespace, libs, rules); err != nil {
		return err
	}

	// Step 7: Summary.
	files, size, err := vendordir.Stats(destination)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to measure destination", err)
	}

	summary := &syncSummary{
		Destination:    destination,
		Namespace:      cfg.Namespace,
		Libraries:      libs,
		PatchesApplied: applied,
		Files:          files,
		SizeBytes:      size,
	}
	return printSyncSummary(cmd, summary)
}

// printSyncSummary writes the run summary to stdout in the format selected
// by the --json flag.
func printSyncSummary(cmd *cobra.Command, summary *syncSummary) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Vendored %d libraries into %s (%s files, %s)\n",
		len(summary.Libraries), summary.Destination,
		humanize.Comma(int64(summary.Files)), humanize.IBytes(uint64(summary.SizeBytes)))
	if summary.Namespace != "" {
		cmd.Printf("Namespace: %s\n", summary.Namespace)
	} else {
		cmd.Println("Namespace: (none — import rewriting disabled)")
	}
	if len(summary.Libraries) > 0 {
		cmd.Printf("Libraries: %s\n", strings.Join(summary.Libraries, ", "))
	}
	if len(summary.PatchesApplied) > 0 {
		cmd.Printf("Patches applied: %d\n", len(summary.PatchesApplied))
	}
	return nil
}
