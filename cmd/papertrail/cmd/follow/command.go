// Package follow provides the follow and unfollow commands.
package follow

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/pkg/errors"
)

// NewFollowCommand creates the follow command.
func NewFollowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "follow <author...>",
		GroupID: "core",
		Short:   "Start tracking the papers of an author",
		Long: `Follow looks each author up on arXiv and starts tracking them. The
papers found during the lookup are stored right away.

The name must denote exactly one author. When several authors fit, the
candidates are listed; repeat with one of them, e.g. the full given name
instead of an initial.`,
		Example: `  papertrail follow "Rémi Munos"
  papertrail follow "Yann LeCun" "Yoshua Bengio"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Follow(cmd, app, args)
		},
	}
}

// NewUnfollowCommand creates the unfollow command.
func NewUnfollowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "unfollow <author...>",
		GroupID: "core",
		Short:   "Stop tracking an author",
		Long: `Unfollow stops tracking followed authors. Their papers stay in the
database and remain visible through 'papertrail show <author>'.`,
		Example: `  papertrail unfollow "Rémi Munos"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Unfollow(cmd, app, args)
		},
	}
}

// Follow follows every named author. An author that is already followed
// only produces a warning; other failures are collected and returned once
// every name has been tried.
func Follow(cmd *cobra.Command, app application.Application, names []string) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}
	out := cmdutil.Alerts(cmd, app, format)

	var errs []error
	for _, name := range names {
		author, err := pt.Follow(cmd.Context(), name)
		switch {
		case errors.Is(err, errors.ErrAlreadyFollowed):
			if werr := out.Warning("Already following %s", name); werr != nil {
				return werr
			}
		case err != nil:
			errs = append(errs, err)
		default:
			if werr := out.Success("Following %s (%s)", author, author.ID()); werr != nil {
				return werr
			}
		}
	}
	return errors.Join(errs...)
}

// Unfollow unfollows every named author, collecting failures.
func Unfollow(cmd *cobra.Command, app application.Application, names []string) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}
	out := cmdutil.Alerts(cmd, app, format)

	var errs []error
	for _, name := range names {
		author, err := pt.Unfollow(cmd.Context(), name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := out.Success("Unfollowed %s", author); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}
