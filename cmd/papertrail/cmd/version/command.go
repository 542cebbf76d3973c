// Package version provides the version command.
package version

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/internal/cmd/output"
)

// Info is the version information printed in structured formats.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
	Go      string `json:"go" yaml:"go"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version: app.Version(),
				Commit:  app.Commit(),
				Date:    app.Date(),
				BuiltBy: app.BuiltBy(),
				Go:      runtime.Version(),
			}
			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}
			if !format.IsTable() {
				return output.Print(cmd.OutOrStdout(), format, info, nil)
			}
			cmd.Printf("papertrail %s\n", info.Version)
			cmd.Printf("  commit:   %s\n", info.Commit)
			cmd.Printf("  built:    %s\n", info.Date)
			cmd.Printf("  built by: %s\n", info.BuiltBy)
			cmd.Printf("  go:       %s\n", info.Go)
			return nil
		},
	}
}
