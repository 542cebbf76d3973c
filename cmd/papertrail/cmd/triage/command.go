// Package triage provides the hide and unhide commands.
package triage

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/internal/sources/arxiv"
	"github.com/agentstation/papertrail/pkg/errors"
)

// NewHideCommand creates the hide command.
func NewHideCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "hide <paper-id...>",
		GroupID: "management",
		Short:   "Hide papers from show",
		Long: `Hide marks papers as read or uninteresting so that 'papertrail show'
leaves them out. Hidden papers stay hidden when a newer version arrives.
A version suffix on the id is ignored.`,
		Example: `  papertrail hide 2101.00001 2101.00002v3`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return SetVisible(cmd, app, args, false)
		},
	}
}

// NewUnhideCommand creates the unhide command.
func NewUnhideCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "unhide <paper-id...>",
		GroupID: "management",
		Short:   "Show hidden papers again",
		Example: `  papertrail unhide 2101.00001`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return SetVisible(cmd, app, args, true)
		},
	}
}

// SetVisible sets the visibility of every listed paper, collecting failures.
func SetVisible(cmd *cobra.Command, app application.Application, ids []string, visible bool) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}
	out := cmdutil.Alerts(cmd, app, format)

	verb := "Hid"
	if visible {
		verb = "Unhid"
	}

	var errs []error
	for _, raw := range ids {
		id, _, err := arxiv.SplitVersion(raw)
		if err != nil {
			id = raw
		}
		if err := pt.SetVisible(cmd.Context(), id, visible); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := out.Success("%s %s", verb, id); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}
