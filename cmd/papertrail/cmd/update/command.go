// Package update provides the update command, which fetches the latest
// papers of followed authors from arXiv.
package update

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// Flags holds the update command flags.
type Flags struct {
	DryRun   bool
	FailFast bool
	Timeout  time.Duration
	Watch    bool

	Crawl     bool
	Start     int
	Stop      int
	StopAfter int
}

// NewCommand creates the update command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}
	crawl := psync.DefaultCrawlOptions()

	cmd := &cobra.Command{
		Use:     "update [author...]",
		GroupID: "core",
		Short:   "Fetch the latest papers of followed authors",
		Long: `Update fetches the most recent papers of every followed author from
arXiv and stores what is new or newer.

Each author is handled in its own transaction, one after another. When the
papers of an author cannot be fetched the failure is reported and the
remaining authors are still updated; --fail-fast stops at the first one.

With --crawl the newest papers of the tracked categories are walked page by
page instead, which also picks up authors that are not followed.

With --watch the update is repeated every update_interval until
interrupted, printing each new or updated paper.`,
		Example: `  papertrail update                    # Update every followee
  papertrail update "Rémi Munos"       # Update one followee
  papertrail update --dry              # Preview changes
  papertrail update --crawl --stop 2000
  papertrail update --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Crawl {
				crawl.Start, crawl.Stop, crawl.StopAfterUnchanged = flags.Start, flags.Stop, flags.StopAfter
				crawl.DryRun = flags.DryRun
				return RunCrawl(cmd, app, crawl)
			}
			if flags.Watch {
				return RunWatch(cmd, app, flags)
			}
			return Run(cmd, app, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry", false, "reconcile without saving anything")
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "stop at the first author that fails")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "abort the run after this long (0 for no limit)")
	cmd.Flags().BoolVar(&flags.Watch, "watch", false, "keep updating every update_interval")
	cmd.Flags().BoolVar(&flags.Crawl, "crawl", false, "walk the newest papers of the tracked categories")
	cmd.Flags().IntVar(&flags.Start, "start", crawl.Start, "first result index of a crawl")
	cmd.Flags().IntVar(&flags.Stop, "stop", crawl.Stop, "last result index of a crawl")
	cmd.Flags().IntVar(&flags.StopAfter, "stop-after", crawl.StopAfterUnchanged, "end a crawl after this many known papers")
	cmd.MarkFlagsMutuallyExclusive("crawl", "watch")
	cmd.MarkFlagsMutuallyExclusive("dry", "watch")

	return cmd
}

// options converts the flags to update options.
func (f *Flags) options(authors []string) []psync.Option {
	opts := []psync.Option{
		psync.WithDryRun(f.DryRun),
		psync.WithFailFast(f.FailFast),
		psync.WithTimeout(f.Timeout),
	}
	if len(authors) > 0 {
		opts = append(opts, psync.WithAuthors(authors...))
	}
	return opts
}
