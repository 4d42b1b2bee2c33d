// Package cli — libs.go implements the "vendorize libs" command.
//
// libs runs the library detector against the destination and prints the
// resulting name set, which is exactly the set of names the rewriter will
// match imports for. Top-level entries that cannot be mapped to an
// importable name are reported as warnings and excluded.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// libsFlags holds the flag values for the libs command.
type libsFlags struct {
	config string // --config: explicit configuration file path
}

// NewLibsCommand creates the "libs" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewLibsCommand() *cobra.Command {
	flags := &libsFlags{}

	cmd := &cobra.Command{
		Use:   "libs [destination]",
		Short: "List the detected vendored libraries",
		Long: `Scan the destination directory's direct children and list the vendored
library names: package directories by name, single-file modules by stem.

Examples:
  vendorize libs
  vendorize libs src/host/_vendor
  vendorize libs --json`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			destination := ""
			if len(args) == 1 {
				destination = args[0]
			}
			return runLibs(cmd, destination, flags)
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "", "Configuration file path (default: search current directory)")

	return cmd
}

// runLibs is the main logic function for the libs command.
func runLibs(cmd *cobra.Command, destination string, flags *libsFlags) error {
	// The positional destination makes the configuration optional; only
	// resolve it when the destination has to come from it.
	if destination == "" {
		cfg, err := loadConfig(flags.config)
		if err != nil {
			return err
		}
		destination = cfg.DestinationPath()
	}

	libs, err := detectLibraries(destination)
	if err != nil {
		return err
	}

	cmd.Print(formatLibs(libs, destination, IsJSONOutput()))
	return nil
}

// formatLibs renders the library list for stdout, one name per line in
// text mode or a JSON document in JSON mode. Split out for testability.
func formatLibs(libs []string, destination string, asJSON bool) string {
	if asJSON {
		doc := map[string]interface{}{
			"destination": destination,
			"libraries":   libs,
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			// Marshaling a map of strings cannot realistically fail; keep
			// the signature simple and surface the problem in the output.
			return fmt.Sprintf(`{"error": %q}`, err.Error())
		}
		return string(data) + "\n"
	}

	if len(libs) == 0 {
		return fmt.Sprintf("No vendored libraries in %s\n", destination)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d vendored libraries in %s:\n", len(libs), destination)
	for _, lib := range libs {
		fmt.Fprintf(&b, "  %s\n", lib)
	}
	return b.String()
}
