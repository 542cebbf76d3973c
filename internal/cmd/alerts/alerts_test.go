package alerts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/papertrail/internal/cmd/output"
	"github.com/agentstation/papertrail/pkg/errors"
)

func TestAlertString(t *testing.T) {
	a := NewError("Update failed").WithError(errors.ErrFetchExhausted)
	assert.Equal(t, "✗ Update failed: fetch attempts exhausted", a.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "unknown(9)", Level(9).String())
}

func TestWriterText(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, output.FormatTable, false)

	require.NoError(t, w.Write(NewWarning("2 authors failed").WithDetails("Ada Lovelace", "Charles Babbage")))
	assert.Equal(t, "! 2 authors failed\n   Ada Lovelace\n   Charles Babbage\n", buf.String())
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, output.FormatJSON, true).Success("Following %s", "Ada Lovelace"))
	assert.JSONEq(t, `{"level":"success","message":"Following Ada Lovelace"}`, buf.String())
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, output.FormatYAML, true).Info("Nothing to do"))
	assert.Equal(t, "---\nlevel: info\nmessage: Nothing to do\n", buf.String())
}
