// Package absorber moves a freshly-downloaded or pre-existing local
// dependency directory into the content store, splitting its entries
// between per-platform subdirectories and the commit's shared content.
//
// Every move is attempted as a single rename and falls back to a
// recursive copy-then-remove when the rename crosses a filesystem
// boundary. Destination conflicts are skipped, never overwritten, and
// every completed move is recorded so a mid-operation failure can be
// undone on a best-effort basis.
package absorber
