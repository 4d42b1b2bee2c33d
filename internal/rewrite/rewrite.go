package rewrite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mmr-tortoise/vendorize/internal/detect"
	"github.com/mmr-tortoise/vendorize/internal/model"
)

// CompiledRule is a substitution rule whose match pattern has been
// compiled. Compiling happens once at configuration load, so a malformed
// pattern fails the run before any file is touched.
type CompiledRule struct {
	pattern *regexp.Regexp
	replace string
}

// CompileRules compiles the substitution rules in caller order.
// Returns an error naming the offending pattern if one does not compile.
func CompileRules(rules []model.SubstitutionRule) ([]CompiledRule, error) {
	compiled := make([]CompiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Match)
		if err != nil {
			return nil, fmt.Errorf("invalid substitution pattern %q: %w", rule.Match, err)
		}
		compiled = append(compiled, CompiledRule{pattern: re, replace: rule.Replace})
	}
	return compiled, nil
}

// Substitute applies every rule in order as a global replace over the whole
// text. Later rules see the output of earlier rules. Replacement templates
// may reference captured groups with ${n}.
func Substitute(text string, rules []CompiledRule) string {
	for _, rule := range rules {
		text = rule.pattern.ReplaceAllString(text, rule.replace)
	}
	return text
}

// libPatterns holds the four import patterns for a single vendored library,
// compiled once per tree walk rather than once per file.
type libPatterns struct {
	lib string

	// plainImport matches `import L` as a whole token: `^(\s*)import L(\s|$)`.
	// The trailing (\s|$) is what keeps `import Labc` from matching.
	plainImport *regexp.Regexp

	// aliasedDotted matches `import L.sub as alias`. RE2 has no lookahead,
	// so the `\s+as` run is captured and restored in the replacement
	// instead of being asserted with (?=...); the matched set and the
	// output are identical.
	aliasedDotted *regexp.Regexp

	// dottedImport matches any remaining `import L.sub` after the aliased
	// form has been consumed. A hit here is fatal.
	dottedImport *regexp.Regexp

	// fromImport matches both `from L import x` and `from L.sub import x`.
	fromImport *regexp.Regexp
}

// compilePatterns builds the per-library pattern set for the given library
// names, in sorted order. Sorting fixes the processing order across
// libraries so that fatal-error line numbers are reproducible across runs.
func compilePatterns(libraries []string) []libPatterns {
	libs := make([]string, len(libraries))
	copy(libs, libraries)
	sort.Strings(libs)

	patterns := make([]libPatterns, 0, len(libs))
	for _, lib := range libs {
		q := regexp.QuoteMeta(lib)
		patterns = append(patterns, libPatterns{
			lib:           lib,
			plainImport:   regexp.MustCompile(`(?m)^(\s*)import ` + q + `(\s|$)`),
			aliasedDotted: regexp.MustCompile(`(?m)^(\s*)import ` + q + `(\.\S+)(\s+as)`),
			dottedImport:  regexp.MustCompile(`(?m)^\s*(import ` + q + `\.\S+)`),
			fromImport:    regexp.MustCompile(`(?m)^(\s*)from ` + q + `(\.|\s)`),
		})
	}
	return patterns
}

// applyImportRules runs the four rules for every library against the text,
// in the fixed order 1→4 per library. The path parameter is only used for
// error reporting.
//
// Rule 3 (the fatal check) deliberately runs after rule 2 has already
// consumed and rewritten the aliased form, so `import L.sub as alias` is
// never mistakenly rejected. The reported line number is counted in the
// current, possibly already partially rewritten text of this file.
func applyImportRules(text, path, namespace string, patterns []libPatterns) (string, error) {
	for _, p := range patterns {
		// Rule 1: `import L` → `from N import L`, indentation and trailing
		// content preserved.
		text = p.plainImport.ReplaceAllString(text,
			"${1}from "+namespace+" import "+p.lib+"${2}")

		// Rule 2: `import L.sub as alias` → `import N.L.sub as alias`.
		// Only the L prefix is namespaced; the suffix is restored verbatim.
		text = p.aliasedDotted.ReplaceAllString(text,
			"${1}import "+namespace+"."+p.lib+"${2}${3}")

		// Rule 3: any `import L.sub` still present cannot be transformed.
		if loc := p.dottedImport.FindStringSubmatchIndex(text); loc != nil {
			return "", &model.RewriteError{
				File: path,
				Line: strings.Count(text[:loc[0]], "\n") + 1,
				Text: text[loc[2]:loc[3]],
			}
		}

		// Rule 4: `from L ...` → `from N.L ...`, covering both
		// `from L import x` and `from L.sub import x`.
		text = p.fromImport.ReplaceAllString(text,
			"${1}from "+namespace+"."+p.lib+"${2}")
	}
	return text, nil
}

// rewriteFile rewrites a single source file in place: read, substitute,
// apply the import rules (skipped entirely when namespace is empty), write
// back with the original file mode.
func rewriteFile(path, namespace string, patterns []libPatterns, rules []CompiledRule) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := Substitute(string(data), rules)

	// An empty namespace disables import rewriting; substitutions still apply.
	if namespace != "" {
		text, err = applyImportRules(text, path, namespace, patterns)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, []byte(text), info.Mode()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Tree rewrites every source file under root, recursively. Library-internal
// files are processed with the same fixed library set as top-level files,
// so a library's self-imports of its own submodules are namespaced too.
//
// The walk is lexical, visiting each file exactly once; the first fatal
// error halts it immediately. Files written before the failure stay
// rewritten — callers needing atomicity snapshot the tree up front (see
// the vendordir package).
func Tree(root, namespace string, libraries []string, rules []CompiledRule) error {
	patterns := compilePatterns(libraries)

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error walking destination at %s: %w", path, walkErr)
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), detect.SourceExt) {
			return nil
		}
		return rewriteFile(path, namespace, patterns, rules)
	})
}
