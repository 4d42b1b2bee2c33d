// Package config handles loading and validation of the vendorize
// configuration file.
//
// The configuration may be written as JSONC (JSON with Comments, parsed
// via github.com/tidwall/jsonc) or as YAML (gopkg.in/yaml.v3); the format
// is chosen by file extension. JSONC is the primary format so that a
// project's vendoring policy can carry inline commentary about why each
// substitution and patch exists.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/vendorize/internal/model"
)

// searchNames lists the configuration filenames probed by Find, in
// preference order.
var searchNames = []string{
	"vendorize.jsonc",
	"vendorize.json",
	"vendorize.yaml",
	"vendorize.yml",
}

// Config describes one vendoring operation. Paths are interpreted relative
// to the directory containing the configuration file unless absolute.
type Config struct {
	// Destination is the directory the vendored libraries live in. The
	// library detector scans its direct children; the rewriter walks it
	// recursively.
	Destination string `json:"destination" yaml:"destination"`

	// Namespace is the dotted package path the vendored libraries are
	// re-exposed under (e.g. "host._vendor"). An empty namespace disables
	// import rewriting entirely; substitutions still run.
	Namespace string `json:"namespace" yaml:"namespace"`

	// Requirements is the pip requirements file driving the download step.
	Requirements string `json:"requirements" yaml:"requirements"`

	// Patches is an optional directory of .patch files applied after the
	// download and before import rewriting.
	Patches string `json:"patches,omitempty" yaml:"patches,omitempty"`

	// Substitutions are textual fixups applied per file before the import
	// rules, in the order listed.
	Substitutions []model.SubstitutionRule `json:"substitutions,omitempty" yaml:"substitutions,omitempty"`

	// baseDir is the directory the config file was loaded from; used to
	// resolve relative paths.
	baseDir string
}

// Load reads and parses a configuration file. The parser is selected by
// extension: .yaml/.yml use the YAML parser, everything else is treated as
// JSONC (which also accepts plain JSON).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitConfigNotFound,
				fmt.Sprintf("configuration file not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML configuration %s: %w", path, err)
		}
	default:
		// Strip JSONC comments and trailing commas before handing the
		// bytes to encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
		}
	}

	cfg.baseDir = filepath.Dir(path)
	return cfg, nil
}

// Find searches dir for a configuration file using the standard filename
// order and loads the first one found.
//
// Returns a CLIError with ExitConfigNotFound when none of the candidate
// names exist.
func Find(dir string) (*Config, error) {
	for _, name := range searchNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}
	return nil, model.NewCLIError(
		model.ExitConfigNotFound,
		fmt.Sprintf("no vendorize configuration found in %s (looked for %s)",
			dir, strings.Join(searchNames, ", ")),
	)
}

// Validate checks the configuration for structural problems. A missing
// destination is an error; an empty namespace is allowed (it means
// "substitutions only"). Substitution patterns are not compiled here —
// that happens in rewrite.CompileRules, which the CLI invokes right after
// validation so a malformed pattern still fails before any file is touched.
func (c *Config) Validate() error {
	if c.Destination == "" {
		return fmt.Errorf("configuration is missing required field %q", "destination")
	}
	for i, sub := range c.Substitutions {
		if sub.Match == "" {
			return fmt.Errorf("substitution %d is missing its match pattern", i)
		}
	}
	return nil
}

// DestinationPath returns the destination directory resolved against the
// configuration file's own directory.
func (c *Config) DestinationPath() string {
	return c.resolve(c.Destination)
}

// RequirementsPath returns the resolved requirements file path, or the
// empty string when no requirements file is configured.
func (c *Config) RequirementsPath() string {
	if c.Requirements == "" {
		return ""
	}
	return c.resolve(c.Requirements)
}

// PatchesPath returns the resolved patches directory, or the empty string
// when patching is not configured.
func (c *Config) PatchesPath() string {
	if c.Patches == "" {
		return ""
	}
	return c.resolve(c.Patches)
}

// BaseDir returns the directory the configuration file was loaded from.
// Patch paths inside .patch files are resolved against it, matching how
// the patches were generated (relative to the project root holding the
// configuration).
func (c *Config) BaseDir() string {
	return c.baseDir
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}
