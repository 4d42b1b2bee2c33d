// Package detect classifies the top-level entries of a vendoring
// destination directory into importable library names.
//
// Detection is deliberately non-recursive: only direct children of the
// destination are libraries. Deeper entries are internals of those
// libraries and are handled by the rewriter's tree walk, not here.
package detect
