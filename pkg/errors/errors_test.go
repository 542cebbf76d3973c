package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/papertrail/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "paper", ID: "2101.00001"}
		assert.Equal(t, "paper 2101.00001 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("author", "Rémi Munos")
		wrapped := fmt.Errorf("show: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	err := pkgerrors.NewAlreadyExistsError("paper", "2101.00001")
	assert.Contains(t, err.Error(), "2101.00001")
	assert.True(t, pkgerrors.IsAlreadyExists(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Field: "updated", Message: "must be YYYY-MM-DD HH:MM:SS"}
		assert.Equal(t, "validation failed for field updated: must be YYYY-MM-DD HH:MM:SS", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("", nil, "created after updated")
		assert.Equal(t, "validation failed: created after updated", err.Error())
	})
}

func TestIdentityMismatchError(t *testing.T) {
	err := &pkgerrors.IdentityMismatchError{Name: "Max van der Ven", Stored: "00000000000000ff", Computed: "0123456789abcdef"}
	assert.Contains(t, err.Error(), "Max van der Ven")
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		status      int
		rateLimited bool
		unavailable bool
	}{
		{status: 429, rateLimited: true},
		{status: 503, unavailable: true},
		{status: 400},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := pkgerrors.NewAPIError("arxiv", tt.status, "boom")
			assert.Contains(t, err.Error(), "arxiv")
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsSourceUnavailable(err))
		})
	}
}

func TestFetchError(t *testing.T) {
	base := errors.New("short page: got 12, want 100")
	err := &pkgerrors.FetchError{Query: "au:Munos", Attempts: 5, Err: base}
	assert.Contains(t, err.Error(), "5 attempts")
	assert.True(t, pkgerrors.IsFetchExhausted(err))
	assert.Equal(t, base, errors.Unwrap(err))
}

func TestVersionRegressionError(t *testing.T) {
	err := &pkgerrors.VersionRegressionError{PaperID: "2101.00001", Stored: 3, Fetched: 2}
	assert.Contains(t, err.Error(), "fetched version 2")
	assert.True(t, pkgerrors.IsVersionRegression(fmt.Errorf("reconcile: %w", err)))
}

func TestAmbiguousError(t *testing.T) {
	err := &pkgerrors.AmbiguousError{Query: "Munos", Candidates: []string{"Rémi Munos", "R. Munos"}}
	assert.Contains(t, err.Error(), "Rémi Munos, R. Munos")
	assert.True(t, errors.Is(err, pkgerrors.ErrAmbiguous))
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("save", "author", "ab12", pkgerrors.ErrAlreadyExists)
	resErr, ok := err.(*pkgerrors.ResourceError)
	require.True(t, ok)
	assert.Equal(t, "save", resErr.Operation)
	assert.True(t, pkgerrors.IsAlreadyExists(err))
	assert.Nil(t, pkgerrors.WrapResource("save", "author", "", nil))
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("id", errors.New("versioned"))
		assert.Contains(t, err.Error(), "id")
		assert.Nil(t, pkgerrors.WrapValidation("id", nil))
	})

	t.Run("WrapParse", func(t *testing.T) {
		err := pkgerrors.WrapParse("atom", "response", errors.New("EOF"))
		var parseErr *pkgerrors.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "atom", parseErr.Format)
	})

	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("write", "/tmp/followees.csv", errors.New("disk full"))
		assert.Contains(t, err.Error(), "/tmp/followees.csv")
		assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	})

	t.Run("WrapAPI", func(t *testing.T) {
		err := pkgerrors.WrapAPI("arxiv", 502, errors.New("bad gateway"))
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
	})
}
