package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/tanmika/tanmidock/internal"
	"github.com/tanmika/tanmidock/internal/logging"
)

// Represents the root command for the tanmidock CLI.
var RootCmd struct {
	Quiet   bool `short:"q" help:"Suppress informational output."`
	Verbose bool `short:"v" help:"Enable verbose output."`
	Debug   bool `short:"d" help:"Enable debug output."`

	Init        InitCmd        `cmd:"" help:"Write a fresh config.json naming the given store root."`
	Link        LinkCmd        `cmd:"" help:"Link a project's declared dependencies from the store."`
	Unlink      UnlinkCmd      `cmd:"" help:"Restore a project's dependencies to ordinary directories."`
	Clean       CleanCmd       `cmd:"" help:"Evict store entries under the configured strategy."`
	Repair      RepairCmd      `cmd:"" help:"Reconcile the registry against what is actually on disk."`
	Diagnostics DiagnosticsCmd `cmd:"" help:"Report store size, reference counts, and lock state."`
	Version     VersionCmd     `cmd:"" help:"Show version information."`
}

// handler is the process-wide logging handler installed as slog's default
// at package init. configureLogger adjusts it once flags are parsed.
var handler = logging.NewHandler(os.Stderr, logging.NewPrettyFormatter(isatty(os.Stderr)), slog.LevelInfo)

func init() {
	slog.SetDefault(slog.New(handler.WithGroup(internal.Name)))
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Content-addressed, deduplicating dependency store for polyglot native builds."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	formatter := logging.NewPrettyFormatter(isatty(os.Stderr))
	formatter.SetVerbose(verbose)

	switch {
	case debug:
		handler.SetLevel(slog.LevelDebug)
	case quiet:
		handler.SetLevel(slog.LevelWarn)
	default:
		handler.SetLevel(slog.LevelInfo)
	}

	handler.SetFormatter(formatter)
	handler.SetStream(os.Stderr)
	handler.Flush()
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
