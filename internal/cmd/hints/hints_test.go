package hints

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/pkg/errors"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("%w on arXiv", errors.NewNotFoundError("author", "X")), "papertrail search"},
		{"not followed", fmt.Errorf("Munos: %w", errors.ErrNotFollowed), "papertrail show -a"},
		{"ambiguous", &errors.AmbiguousError{Query: "R. Munos", Candidates: []string{"Rémi Munos", "René Munos"}}, `papertrail follow "Rémi Munos"`},
		{"exhausted", errors.Join(errors.ErrFetchExhausted), "max_attempts"},
		{"config", errors.NewConfigError("page_size", "must be positive", nil), "PAPERTRAIL_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := For(tt.err)
			require.NotEmpty(t, hs)
			assert.Contains(t, Format(hs), tt.want)
		})
	}
}

func TestForUnknown(t *testing.T) {
	assert.Empty(t, For(nil))
	assert.Empty(t, For(errors.New("boom")))
	assert.Empty(t, Format(nil))
}
