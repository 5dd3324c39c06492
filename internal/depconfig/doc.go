// Package depconfig parses a project's dependency configuration file
// (codepac-dep.json): the read-only, project-owned document declaring
// which libraries a project depends on, at which commits, and with which
// sparse-checkout filters.
package depconfig
