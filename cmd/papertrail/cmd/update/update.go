package update

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail"
	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/internal/cmd/emoji"
	"github.com/agentstation/papertrail/internal/cmd/output"
	"github.com/agentstation/papertrail/internal/cmd/table"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// Run updates the followees, or the named ones, once.
func Run(cmd *cobra.Command, app application.Application, flags *Flags, authors []string) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}

	result, err := pt.Update(cmd.Context(), flags.options(authors)...)
	if result == nil {
		return err
	}
	if perr := printResult(cmd, app, format, result); perr != nil {
		return perr
	}
	return err
}

// RunCrawl walks the newest papers of the tracked categories.
func RunCrawl(cmd *cobra.Command, app application.Application, opts psync.CrawlOptions) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}

	result, err := pt.Crawl(cmd.Context(), opts)
	if result == nil {
		return err
	}
	if perr := printResult(cmd, app, format, result); perr != nil {
		return perr
	}
	return err
}

// RunWatch updates right away, then on every scheduled tick until the
// command context ends. Committed changes are printed as they happen.
func RunWatch(cmd *cobra.Command, app application.Application, flags *Flags) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}
	out := cmdutil.Alerts(cmd, app, format)
	printEvents(cmd.OutOrStdout(), pt)

	ctx := cmd.Context()
	if _, err := pt.Update(ctx, flags.options(nil)...); err != nil && !errors.Is(err, errors.ErrCanceled) {
		// A failed author must not end the watch
		app.Logger().Warn().Err(err).Msg("Update finished with errors")
	}

	if err := pt.AutoUpdatesOn(); err != nil {
		return err
	}
	if err := out.Info("Watching for new papers every %s, press Ctrl+C to stop", app.UpdateInterval()); err != nil {
		return err
	}

	<-ctx.Done()
	if err := pt.AutoUpdatesOff(); err != nil {
		return err
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// printEvents prints one line per committed paper change.
func printEvents(w io.Writer, pt papertrail.Hooks) {
	line := func(mark string, p *papers.Paper, note string) {
		_, _ = fmt.Fprintf(w, "%s %s v%d %s%s\n", mark, p.ID, p.Version(), table.Truncate(p.Title(), 72, false), note)
	}
	pt.OnPaperAdded(func(p *papers.Paper) {
		line(emoji.New, p, "")
	})
	pt.OnPaperUpdated(func(old, p *papers.Paper) {
		line(emoji.Updated, p, fmt.Sprintf(" (was v%d)", old.Version()))
	})
	pt.OnPaperRejected(func(p *papers.Paper, err error) {
		line(emoji.Rejected, p, ": "+err.Error())
	})
}

// printResult prints the per-author table followed by the totals. Structured
// formats get the result itself.
func printResult(cmd *cobra.Command, app application.Application, format output.Format, result *psync.Result) error {
	if !format.IsTable() {
		return output.Print(cmd.OutOrStdout(), format, result, nil)
	}
	if len(result.Authors) > 0 {
		if err := output.Print(cmd.OutOrStdout(), format, result, func() output.Data {
			return table.Result(result)
		}); err != nil {
			return err
		}
	}

	out := cmdutil.Alerts(cmd, app, format)
	if result.Failed > 0 {
		return out.Warning("%s", result.Summary())
	}
	return out.Success("%s", result.Summary())
}
