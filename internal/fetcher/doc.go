// Package fetcher adapts the external VCS-fetcher executable: a separate
// program invoked as a child process to install a dependency into a named
// target directory, or to answer a diagnostic version query.
package fetcher
