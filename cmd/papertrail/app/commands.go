package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/papertrail/cmd/export"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/follow"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/info"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/seed"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/search"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/show"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/triage"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/update"
	"github.com/agentstation/papertrail/cmd/papertrail/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(show.NewCommand(a))
	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(follow.NewFollowCommand(a))
	rootCmd.AddCommand(follow.NewUnfollowCommand(a))

	// Management commands
	rootCmd.AddCommand(info.NewCommand(a))
	rootCmd.AddCommand(export.NewExportCommand(a))
	rootCmd.AddCommand(export.NewImportCommand(a))
	rootCmd.AddCommand(triage.NewHideCommand(a))
	rootCmd.AddCommand(triage.NewUnhideCommand(a))
	rootCmd.AddCommand(seed.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
