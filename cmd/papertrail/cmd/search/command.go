// Package search provides the search command.
package search

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/internal/cmd/output"
	"github.com/agentstation/papertrail/internal/cmd/table"
	"github.com/agentstation/papertrail/internal/sources/arxiv"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Flags holds the search command flags.
type Flags struct {
	Max    int
	Local  bool
	Papers bool
}

// NewCommand creates the search command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "search <author...>",
		GroupID: "core",
		Short:   "Find authors on arXiv or in the local database",
		Long: `Search looks up each named author on arXiv and lists the distinct
authors whose name fits, with the number of matching papers.

A name with initials such as "R. Munos" also finds the full name. Use the
exact name shown here with 'papertrail follow'.

With --local the database is searched instead, and with --papers the
arguments are matched against stored titles and abstracts.`,
		Example: `  papertrail search "Rémi Munos"
  papertrail search "Y. Bengio" --max 5
  papertrail search Munos --local
  papertrail search --papers "policy gradient"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, app, flags, args)
		},
	}

	cmd.Flags().IntVar(&flags.Max, "max", 10, "maximum authors listed per name")
	cmd.Flags().BoolVar(&flags.Local, "local", false, "search the local database instead of arXiv")
	cmd.Flags().BoolVar(&flags.Papers, "papers", false, "search stored paper titles and abstracts")
	cmd.MarkFlagsMutuallyExclusive("local", "papers")

	return cmd
}

// Run executes search with the parsed flags.
func Run(cmd *cobra.Command, app application.Application, flags *Flags, args []string) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	switch {
	case flags.Papers:
		var found []*papers.Paper
		for _, text := range args {
			ps, err := pt.SearchPapers(ctx, text, flags.Max)
			if err != nil {
				return err
			}
			found = append(found, ps...)
		}
		return output.Print(w, format, found, func() output.Data {
			return table.Papers(found, table.Columns{Wide: format == output.FormatWide})
		})

	case flags.Local:
		var found []papers.Author
		for _, name := range args {
			authors, err := pt.SearchLocal(ctx, name)
			if err != nil {
				return err
			}
			found = append(found, authors...)
		}
		found = papers.Unique(found)
		return output.Print(w, format, found, func() output.Data {
			return table.Authors(found)
		})

	default:
		var found []arxiv.Candidate
		for _, name := range args {
			candidates, err := pt.SearchRemote(ctx, name, flags.Max)
			if err != nil {
				return err
			}
			found = append(found, candidates...)
		}
		return output.Print(w, format, found, func() output.Data {
			return table.Candidates(found)
		})
	}
}
