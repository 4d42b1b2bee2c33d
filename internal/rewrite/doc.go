// Package rewrite implements the import-rewriting engine that relocates
// vendored Python libraries under a private namespace.
//
// The engine is a static, regex-driven source transformer. It never parses
// Python into a syntax tree; it recognizes a small, well-defined subset of
// import syntax line-by-line, which keeps every transformation auditable.
// For each detected library L and namespace N, four rules run in a fixed
// order per file:
//
//  1. `import L`          → `from N import L`
//  2. `import L.sub as a` → `import N.L.sub as a`
//  3. `import L.sub`      → fatal: no textual rewrite preserves the
//     binding of the name L in the caller's scope, so the engine refuses
//     rather than silently corrupting runtime semantics.
//  4. `from L ...`        → `from N.L ...`
//
// Caller-supplied substitution rules run before the import rules, so a
// substitution that changes a library name changes which import rule (if
// any) subsequently matches. Relative imports (`from . import x`) are left
// untouched; they already resolve correctly once a package moves as a unit.
package rewrite
