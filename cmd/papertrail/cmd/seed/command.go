// Package seed provides the seed command, which fills the database from the
// Kaggle arXiv metadata snapshot.
package seed

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/cmdutil"
	"github.com/agentstation/papertrail/pkg/errors"
)

// NewCommand creates the seed command.
func NewCommand(app application.Application) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "seed <snapshot.json>",
		GroupID: "management",
		Short:   "Load papers from the Kaggle arXiv snapshot",
		Long: `Seed reads the arXiv metadata snapshot published on Kaggle, one JSON
record per line, and stores the papers of the tracked categories together
with their authors.

The snapshot holds millions of records, so seeding takes a while; papers
are committed in batches and an interrupted seed keeps what was committed.
Malformed lines are skipped with a warning in the log. Use - to read
standard input.`,
		Example: `  papertrail seed arxiv-metadata-oai-snapshot.json
  unzip -p archive.zip | papertrail seed -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd, app, args[0], dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry", false, "read and reconcile without saving anything")
	return cmd
}

// Run seeds the database from path, "-" meaning the command input.
func Run(cmd *cobra.Command, app application.Application, path string, dryRun bool) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	pt, err := app.Papertrail()
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.WrapIO("open", path, err)
		}
		defer func() { _ = f.Close() }()
		r, name = f, path
	}

	result, err := pt.Seed(cmd.Context(), r, name, dryRun)
	if result != nil {
		if werr := cmdutil.Alerts(cmd, app, format).Success("Seeded from %s: %s", name, result.Summary()); werr != nil {
			return werr
		}
	}
	return err
}
