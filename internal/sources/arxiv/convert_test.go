package arxiv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/pkg/errors"
)

func TestSplitVersion(t *testing.T) {
	tests := []struct {
		in      string
		id      string
		version int
	}{
		{"2101.00001v2", "2101.00001", 2},
		{"2101.00001v12", "2101.00001", 12},
		{"hep-th/9901001v1", "hep-th/9901001", 1},
		{"2101.00001", "2101.00001", 1},
	}
	for _, tt := range tests {
		id, v, err := SplitVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.id, id)
		assert.Equal(t, tt.version, v)
	}

	_, _, err := SplitVersion("")
	assert.True(t, errors.IsValidationError(err))
	_, _, err = SplitVersion("2101.00001v0")
	assert.True(t, errors.IsValidationError(err))
}

func testEntry(id string, updated time.Time, authors ...string) Entry {
	return Entry{
		ID:         id,
		Title:      "Title " + id,
		Summary:    "Summary",
		Published:  updated.Add(-24 * time.Hour),
		Updated:    updated,
		Authors:    authors,
		Categories: []string{"cs.LG"},
	}
}

func TestToPaper(t *testing.T) {
	updated := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	p, err := ToPaper(testEntry("2305.00001v3", updated, "Rémi Munos", "John Smith Jr."))
	require.NoError(t, err)

	assert.Equal(t, "2305.00001", p.ID)
	assert.Equal(t, 3, p.Version())
	assert.Equal(t, "2023-05-01 12:00:00", p.UpdatedString())
	assert.Equal(t, "2023-04-30 12:00:00", p.CreatedString())
	require.Len(t, p.Authors(), 2)
	assert.Equal(t, "Munos", p.Authors()[0].Family())
	assert.Equal(t, "Jr.", p.Authors()[1].Suffix())
	assert.True(t, p.Visible)
}

func TestToPaperRejectsInconsistentDates(t *testing.T) {
	e := testEntry("2305.00001v1", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))
	e.Published = e.Updated.Add(time.Hour)
	_, err := ToPaper(e)
	assert.True(t, errors.IsValidationError(err))
}

func TestConvertSorts(t *testing.T) {
	t1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)

	out, err := Convert([]Entry{
		testEntry("2301.00002v1", t2),
		testEntry("2301.00001v1", t1),
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "2301.00001", out[0].ID)
	assert.Equal(t, "2301.00002", out[1].ID)
}

func TestConvertFailsOnInvalidEntry(t *testing.T) {
	t1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bad := testEntry("2301.00003v1", t1)
	bad.Published = t1.Add(48 * time.Hour)

	out, err := Convert([]Entry{testEntry("2301.00001v1", t1), bad})
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "2301.00003v1")
}
