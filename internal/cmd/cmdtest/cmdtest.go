// Package cmdtest provides fixtures for command tests: an in-memory
// papertrail fed by a scripted source, and a runner capturing output.
package cmdtest

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail"
	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/sources/arxiv"
	"github.com/agentstation/papertrail/internal/store"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Source answers author queries from a map. Category crawls get nothing.
type Source struct {
	mu       sync.Mutex
	byAuthor map[string][]*papers.Paper
}

// NewSource returns an empty source.
func NewSource() *Source {
	return &Source{byAuthor: map[string][]*papers.Paper{}}
}

// Set scripts the papers returned for an author query.
func (s *Source) Set(author string, ps ...*papers.Paper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byAuthor[author] = ps
}

// Papers implements papertrail.Source.
func (s *Source) Papers(_ context.Context, q arxiv.Query, _ int) ([]*papers.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.byAuthor[q.Author]
	if len(ps) == 0 {
		return nil, arxiv.ErrEmptyPage
	}
	out := make([]*papers.Paper, len(ps))
	for i, p := range ps {
		c := *p
		out[i] = &c
	}
	return out, nil
}

// PageSize implements papertrail.Source.
func (s *Source) PageSize() int { return 100 }

// Papertrail opens an in-memory papertrail reading from src.
func Papertrail(t *testing.T, src *Source) papertrail.Papertrail {
	t.Helper()
	pt, err := papertrail.New(context.Background(),
		papertrail.WithDatabasePath(store.Memory),
		papertrail.WithSource(src),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pt.Close() })
	return pt
}

// App returns an application serving pt with the given output format.
func App(pt papertrail.Papertrail, format string) *application.Mock {
	return &application.Mock{
		PapertrailFunc:   func(...papertrail.Option) (papertrail.Papertrail, error) { return pt, nil },
		OutputFormatFunc: func() string { return format },
	}
}

// Run executes cmd with args and returns what it wrote.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// Author parses a display name.
func Author(t *testing.T, raw string) papers.Author {
	t.Helper()
	a, err := papers.ParseAuthor(raw)
	require.NoError(t, err)
	return a
}

// Paper builds a visible paper in cs.LG updated age ago.
func Paper(t *testing.T, id string, version int, age time.Duration, authors ...papers.Author) *papers.Paper {
	t.Helper()
	updated := time.Now().UTC().Add(-age)
	p, err := papers.NewPaper(id, updated.Add(-24*time.Hour), updated, papers.Meta{
		Title:      "Paper " + id,
		Abstract:   "Abstract of " + id,
		Authors:    authors,
		Version:    version,
		Categories: []string{"cs.LG"},
	})
	require.NoError(t, err)
	return p
}
