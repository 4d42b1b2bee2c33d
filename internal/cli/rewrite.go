// Package cli — rewrite.go implements the "vendorize rewrite" command.
//
// rewrite runs library detection, substitutions, and import rewriting
// against an already-populated destination tree, skipping the clean,
// download, and patch steps. It exists for iterating on substitution
// rules and namespaces without re-downloading anything.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/vendorize/internal/model"
	"github.com/mmr-tortoise/vendorize/internal/rewrite"
)

// rewriteFlags holds the flag values for the rewrite command.
type rewriteFlags struct {
	config    string // --config: explicit configuration file path
	namespace string // --namespace: override the configured namespace
}

// NewRewriteCommand creates the "rewrite" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRewriteCommand() *cobra.Command {
	flags := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "rewrite [destination]",
		Short: "Rewrite imports in an existing destination tree",
		Long: `Detect the vendored libraries in a destination directory, apply the
configured substitutions, and rewrite imports through the namespace —
without downloading or patching anything.

The destination defaults to the one in the configuration file; an
explicit positional argument overrides it. An empty namespace disables
import rewriting, leaving only the substitutions.

Examples:
  vendorize rewrite
  vendorize rewrite src/host/_vendor
  vendorize rewrite --namespace host._vendor src/host/_vendor`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			destination := ""
			if len(args) == 1 {
				destination = args[0]
			}
			return runRewrite(destination, flags)
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "", "Configuration file path (default: search current directory)")
	cmd.Flags().StringVar(&flags.namespace, "namespace", "", "Namespace override (default: from configuration)")

	return cmd
}

// runRewrite is the main logic function for the rewrite command.
func runRewrite(destination string, flags *rewriteFlags) error {
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}

	if destination == "" {
		destination = cfg.DestinationPath()
	}
	namespace := cfg.Namespace
	if flags.namespace != "" {
		namespace = flags.namespace
	}

	rules, err := rewrite.CompileRules(cfg.Substitutions)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid substitution rules", err)
	}

	libs, err := detectLibraries(destination)
	if err != nil {
		return err
	}

	logger.Info("rewriting imports", "destination", destination,
		"namespace", namespace, "libraries", len(libs))
	return rewriteDestination(destination, namespace, libs, rules)
}
