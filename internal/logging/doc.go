// Package logging configures the process-wide slog logger.
//
// A [Handler] wraps a [PrettyFormatter] that renders level-tagged,
// color-aware lines to a terminal, or plain lines when the destination is
// not a TTY. CLI flags (quiet/verbose/debug) adjust the handler's level and
// the formatter's verbosity after kong has parsed arguments, mirroring how
// the core's own components only log through the standard slog call sites
// (slog.Info, slog.Debug, ...) and never hold a reference to the handler
// directly.
package logging
