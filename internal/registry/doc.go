// Package registry holds the in-memory graph of projects, libraries, and
// per-platform store entries that tracks who references what in the
// content-addressed store, and persists that graph as a single JSON
// document.
//
// Mutators act only on the in-memory copy; callers must call Save to
// persist. Load and Save each run under the per-file lock (see
// internal/lock); the mutators take no lock, so callers are responsible
// for holding the appropriate lock around their own read-modify-write
// section.
package registry
