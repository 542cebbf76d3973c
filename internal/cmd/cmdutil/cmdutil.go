// Package cmdutil provides helpers shared by papertrail commands.
package cmdutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/papertrail/cmd/application"
	"github.com/agentstation/papertrail/internal/cmd/alerts"
	"github.com/agentstation/papertrail/internal/cmd/output"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/papers"
)

// Format resolves the output format from --format, auto-detecting when unset.
func Format(app application.Application) (output.Format, error) {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return "", errors.NewValidationError("format", app.OutputFormat(), err.Error())
	}
	return output.DetectFormat(string(format)), nil
}

// Alerts returns an alert writer on the command's output.
func Alerts(cmd *cobra.Command, app application.Application, format output.Format) *alerts.Writer {
	return alerts.NewWriter(cmd.OutOrStdout(), format, app.NoColor())
}

// ParseSince accepts a date in papers.TimeLayout, a plain YYYY-MM-DD date,
// or an age such as "36h", "7d" or "2w" counted back from now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(papers.TimeLayout, s); err == nil {
		return t, nil
	}
	if age, err := parseAge(s); err == nil {
		return now.Add(-age), nil
	}
	return time.Time{}, errors.NewValidationError("since", s,
		"expected a date (2006-01-02) or an age (36h, 7d, 2w)")
}

func parseAge(s string) (time.Duration, error) {
	units := map[byte]time.Duration{'d': 24 * time.Hour, 'w': 7 * 24 * time.Hour}
	if unit, ok := units[s[len(s)-1]]; ok {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age %q", s)
		}
		return time.Duration(n) * unit, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	return d, nil
}
