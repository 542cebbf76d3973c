package app

import (
	"fmt"
	"strings"
	"testing"

	"github.com/agentstation/papertrail/pkg/errors"
)

func TestSummarize(t *testing.T) {
	single := errors.NewSyncError("Ada Lovelace", errors.ErrFetchExhausted)
	if got := summarize(single); got != single.Error() {
		t.Errorf("Expected a single error unchanged, got %q", got)
	}

	joined := errors.Join(
		errors.NewSyncError("Ada Lovelace", errors.ErrFetchExhausted),
		errors.NewSyncError("Charles Babbage", errors.ErrSourceUnavailable),
		errors.NewSyncError("Mary Somerville", errors.ErrRateLimited),
	)
	got := summarize(joined)
	if strings.Contains(got, "\n") {
		t.Fatalf("Expected one line, got %q", got)
	}
	if !strings.HasPrefix(got, "3 failures, first: ") || !strings.Contains(got, "Ada Lovelace") {
		t.Errorf("Expected a counted summary naming the first failure, got %q", got)
	}

	wrapped := fmt.Errorf("update: %w", joined)
	got = summarize(wrapped)
	if strings.Contains(got, "\n") || !strings.HasSuffix(got, "(more in the log)") {
		t.Errorf("Expected a wrapped multi-line error cut to one line, got %q", got)
	}
}
