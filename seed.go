package papertrail

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/agentstation/papertrail/internal/sources/kaggle"
	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// Seed loads the Kaggle arXiv metadata snapshot read from r, keeping the
// papers of the tracked categories. Records are reconciled like fetched
// papers and committed in batches, so an interrupted seed keeps the batches
// already committed. Malformed records are logged and skipped. name labels
// the input in errors and logs.
func (p *papertrail) Seed(ctx context.Context, r io.Reader, name string, dryRun bool) (*psync.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx = logging.WithOperation(ctx, "seed")
	logger := logging.Ctx(ctx)

	reader := kaggle.NewReader(r, name, p.options.categories)
	result := &psync.Result{DryRun: dryRun}
	chunk := make([]*papers.Paper, 0, constants.SeedBatchSize)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		batch, err := p.reconcile(ctx, chunk, dryRun)
		if err != nil {
			return err
		}
		result.Counts.Add(batch.Counts)
		chunk = chunk[:0]

		logger.Info().
			Str("line", humanize.Comma(int64(reader.Line()))).
			Str("counts", result.Counts.String()).
			Msg("Seed progress")
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, errors.Join(errors.ErrCanceled, err)
		}

		paper, err := reader.Next()
		if err == io.EOF {
			break
		}
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn().Err(err).Msg("Skipping malformed record")
			continue
		}
		if err != nil {
			return result, err
		}

		chunk = append(chunk, paper)
		if len(chunk) == cap(chunk) {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := flush(); err != nil {
		return result, err
	}

	logger.Info().Str("summary", result.Summary()).Msg("Seed finished")
	return result, nil
}
