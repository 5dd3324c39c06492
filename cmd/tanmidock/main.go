package main

import (
	"log/slog"
	"os"

	"github.com/tanmika/tanmidock/internal"
	"github.com/tanmika/tanmidock/internal/cli"
)

// Runs the tanmidock CLI.
//
// Logging is installed by the internal/cli package at init time; main only
// emits a pre-parse debug line before handing off to Execute.
func main() {
	slog.Debug("build", "version", internal.VersionString())
	slog.Debug("tanmidock is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return wd
}
