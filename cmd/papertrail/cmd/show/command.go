// Package show provides the show command, which reads recent papers of
// followed authors from the local database.
package show

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail"
	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/internal/cmd/output"
	"github.com/agentstation/papertrail/internal/cmd/table"
)

// Flags holds the show command flags.
type Flags struct {
	ByAuthor  bool
	Num       int
	Coauthors bool
	URL       bool
	Since     string
	Until     string
	Hidden    bool
}

// NewCommand creates the show command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "show [author...]",
		GroupID: "core",
		Short:   "Show recent papers of followed authors",
		Long: `Show lists papers from the local database, most recently updated first.

Without arguments every followed author is included. Named authors are
looked up locally whether followed or not. Papers hidden with
'papertrail hide' are left out unless --hidden is given.

Nothing is fetched; run 'papertrail update' first to refresh.`,
		Example: `  papertrail show                     # Feed of the last year
  papertrail show -t 7d               # Papers updated in the last week
  papertrail show -a -n 3             # Three latest papers per followee
  papertrail show "Rémi Munos" -c -u  # Full author lists and links`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, app, flags, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.ByAuthor, "by-author", "a", false, "group papers by author")
	cmd.Flags().IntVarP(&flags.Num, "num", "n", 0, "maximum papers to show (per author with --by-author)")
	cmd.Flags().BoolVarP(&flags.Coauthors, "coauthors", "c", false, "list every author of each paper")
	cmd.Flags().BoolVarP(&flags.URL, "url", "u", false, "show links to the abstract pages")
	cmd.Flags().StringVarP(&flags.Since, "since", "t", "", "earliest update: a date (2006-01-02) or an age (36h, 7d, 2w)")
	cmd.Flags().StringVar(&flags.Until, "until", "", "latest update, in the same forms as --since")
	cmd.Flags().BoolVar(&flags.Hidden, "hidden", false, "include hidden papers")

	return cmd
}

// Run executes show with the parsed flags.
func Run(cmd *cobra.Command, app application.Application, flags *Flags, args []string) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}

	now := time.Now()
	since, err := cmdutil.ParseSince(flags.Since, now)
	if err != nil {
		return err
	}
	until, err := cmdutil.ParseSince(flags.Until, now)
	if err != nil {
		return err
	}

	filter := papertrail.Filter{
		Authors:       args,
		Since:         since,
		Until:         until,
		IncludeHidden: flags.Hidden,
	}
	if flags.ByAuthor {
		filter.Limit = flags.Num
	}

	pt, err := app.Papertrail()
	if err != nil {
		return err
	}
	listings, err := pt.Show(cmd.Context(), filter)
	if err != nil {
		return err
	}

	cols := table.Columns{Wide: format == output.FormatWide, Coauthors: flags.Coauthors, URL: flags.URL}
	w := cmd.OutOrStdout()

	if flags.ByAuthor {
		return output.Print(w, format, listings, func() output.Data {
			return table.Listings(listings, cols)
		})
	}

	feed := papertrail.Feed(listings, flags.Num)
	if len(feed) == 0 && format.IsTable() {
		return cmdutil.Alerts(cmd, app, format).Info("No papers in this window. Try a longer --since or run 'papertrail update'.")
	}
	return output.Print(w, format, feed, func() output.Data {
		return table.Papers(feed, cols)
	})
}
