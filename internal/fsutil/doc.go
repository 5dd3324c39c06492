// Package fsutil holds small filesystem helpers shared by the linker and
// absorber packages: a symlink-preserving recursive copy that materializes
// a directory tree onto a destination one entry at a time.
package fsutil
