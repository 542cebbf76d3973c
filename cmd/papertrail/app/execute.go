package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/internal/cmd/hints"
	"github.com/agentstation/papertrail/pkg/logging"
)

// Execute runs the papertrail CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	defer func() { _ = a.Shutdown(context.Background()) }()
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "papertrail",
		Short:   "Follow arXiv authors and their papers",
		Version: a.version,
		Long: `Papertrail keeps a local database of arXiv papers written by the
authors you follow.

Follow an author once, then run update to fetch their latest papers and
show to read what appeared recently. Everything is stored in a single
SQLite file, so show, search and info work offline.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	// Flags are read in setupCommand rather than bound to the config, so
	// their defaults never clobber values loaded from env or file
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.papertrail.yaml)")
	flags.BoolP("verbose", "v", false, "verbose logging (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal logging (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("papertrail {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	// An explicit config file replaces what was loaded at startup
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// ExitOnError prints err on one line and exits with status 1. Hints for
// known failures follow, and a pointer to the log when it is a file.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error, logFile string) {
	if err == nil {
		return
	}
	logging.Error().Err(err).Msg("Command failed")

	//nolint:errcheck // Ignoring write error since we're exiting anyway
	_, _ = os.Stderr.WriteString("Error: " + summarize(err) + "\n")
	_, _ = os.Stderr.WriteString(hints.Format(hints.For(err)))
	switch logFile {
	case "", "stderr", "stdout", "discard", "none":
	default:
		_, _ = os.Stderr.WriteString("See " + logFile + " for details.\n")
	}
	os.Exit(1)
}

// summarize reduces err to one line. Joined errors are counted and only the
// first is shown; the full text goes to the log.
func summarize(err error) string {
	msg := err.Error()
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 1 {
			msg = fmt.Sprintf("%d failures, first: %s", len(errs), errs[0])
		}
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i] + " (more in the log)"
	}
	return msg
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
