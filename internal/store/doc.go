// Package store implements the on-disk commit-directory layout of the
// content-addressed dependency store: one directory per (library, commit),
// holding a platform-agnostic _shared subdirectory plus zero or more
// platform subdirectories.
//
// Every operation here is a pure filesystem computation; nothing in this
// package consults or mutates the registry. Callers combine store
// operations with registry updates under the caller's own lock discipline.
package store
