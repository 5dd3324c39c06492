// Package internal carries tanmidock's build identity and the
// process-wide verbosity flags every command consults before the
// logger is configured.
package internal

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
)

// Name is the CLI binary name, used for kong's usage banner and as the
// slog group every log line is nested under.
const Name = "tanmidock"

const (
	undefinedValue = "(undefined)"
	localBuildTag  = "(local)"
	mainBranch     = "main"
)

// version, stage and gitCommit are baked in via linker flags at release
// time; a dev build leaves them empty.
var (
	version   = ""
	stage     = ""
	gitCommit = ""

	rawDebug   = "false"
	rawQuiet   = "false"
	rawVerbose = "false"
)

var (
	debugMode   atomic.Bool
	quietMode   atomic.Bool
	verboseMode atomic.Bool
)

// init parses the ldflags-supplied raw*  strings into the atomic flags
// IsDebug/IsQuiet/IsVerbose read; a malformed or absent value leaves the
// flag false.
func init() {
	if v, err := strconv.ParseBool(rawDebug); err == nil {
		debugMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawQuiet); err == nil {
		quietMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawVerbose); err == nil {
		verboseMode.Store(v)
	}
}

// IsDebug reports the build-time debug default; CLI flags may still
// override it for one invocation.
func IsDebug() bool { return debugMode.Load() }

// IsQuiet reports the build-time quiet default.
func IsQuiet() bool { return quietMode.Load() }

// IsVerbose reports the build-time verbose default.
func IsVerbose() bool { return verboseMode.Load() }

// isLocalBuild reports whether any of the three release identifiers is
// missing, meaning this binary was built outside the release pipeline.
func isLocalBuild() bool {
	return strings.TrimSpace(version) == "" ||
		strings.TrimSpace(gitCommit) == "" ||
		strings.TrimSpace(stage) == ""
}

func normalizedVersion() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return undefinedValue
	}
	return strings.TrimPrefix(v, "v")
}

func normalizedStage() string {
	s := strings.ToLower(strings.TrimSpace(stage))
	if s == "" {
		return undefinedValue
	}
	return s
}

func normalizedCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return undefinedValue
	}
	return c
}

// VersionString renders the build identity as
// "<version>+<stage> <commit> [<arch>]", dropping the +stage suffix for
// a main-branch build and collapsing to "(local)" outside the release
// pipeline.
func VersionString() string {
	if isLocalBuild() {
		return localBuildTag
	}

	s := normalizedStage()
	if s == mainBranch {
		s = ""
	} else {
		s = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s]", normalizedVersion(), s, normalizedCommit(), runtime.GOARCH)
}
