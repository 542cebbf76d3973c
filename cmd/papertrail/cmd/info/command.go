// Package info provides the info command.
package info

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/internal/cmd/output"
	"github.com/agentstation/papertrail/internal/cmd/table"
)

// NewCommand creates the info command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		GroupID: "management",
		Short:   "Show database statistics",
		Long: `Info prints where the database lives, how many papers, authors and
followees it holds, and the most recently updated and created papers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			pt, err := app.Papertrail()
			if err != nil {
				return err
			}
			stats, err := pt.Info(cmd.Context())
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), format, stats, func() output.Data {
				return table.Stats(stats)
			})
		},
	}
}
