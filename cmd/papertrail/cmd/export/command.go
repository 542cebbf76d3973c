// Package export provides the export and import commands, which move the
// list of followed authors between databases.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail"
	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
)

// NewExportCommand creates the export command.
func NewExportCommand(app application.Application) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:     "export [path]",
		GroupID: "management",
		Short:   "Write the followed authors to a file",
		Long: `Export writes the followed authors with their identities, so they can
be followed again with 'papertrail import'.

CSV rows are id,family,given,suffix without a header. Without a path the
list goes to standard output. The format follows the file extension unless
--as is given, and defaults to CSV.`,
		Example: `  papertrail export followees.csv
  papertrail export --as yaml > followees.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return Export(cmd, app, path, as)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "encoding: csv, json or yaml")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(app application.Application) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:     "import <path>",
		GroupID: "management",
		Short:   "Follow the authors listed in an exported file",
		Long: `Import follows every author listed in a file written by
'papertrail export'. Authors already followed are skipped. Use - to read
standard input.

Nothing is fetched; run 'papertrail update' afterwards.`,
		Example: `  papertrail import followees.csv
  cat followees.json | papertrail import - --as json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Import(cmd, app, args[0], as)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "encoding: csv, json or yaml")
	return cmd
}

// Export writes the followees to path, or to the command output when path
// is empty.
func Export(cmd *cobra.Command, app application.Application, path, as string) error {
	format, err := resolveFormat(path, as)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}

	if path == "" {
		return pt.Export(cmd.Context(), cmd.OutOrStdout(), format)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := pt.Export(cmd.Context(), f, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}

	outFormat, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	return cmdutil.Alerts(cmd, app, outFormat).Success("Exported followees to %s", path)
}

// Import follows the authors listed at path, "-" meaning the command input.
func Import(cmd *cobra.Command, app application.Application, path, as string) error {
	format, err := resolveFormat(strings.TrimPrefix(path, "-"), as)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.WrapIO("open", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	added, err := pt.Import(cmd.Context(), r, format)
	if err != nil {
		return err
	}

	outFormat, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	return cmdutil.Alerts(cmd, app, outFormat).Success("Now following %d more authors", added)
}

// resolveFormat picks the encoding from --as, then the file extension,
// then CSV.
func resolveFormat(path, as string) (papertrail.Format, error) {
	if as != "" {
		return papertrail.ParseFormat(as)
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		if f, err := papertrail.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return papertrail.FormatCSV, nil
}
