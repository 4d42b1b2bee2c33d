// Package model defines the domain types for the vendorize CLI.
//
// All entities here are transient: a vendoring run computes the library
// set once, transforms files, and exits. Nothing is persisted beyond the
// rewritten destination tree itself.
package model
