// Package hints turns errors into actionable guidance for the user.
package hints

import (
	"fmt"
	"strings"

	"github.com/agentstation/papertrail/pkg/errors"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// NewCommand creates a new hint with a specific command.
func NewCommand(message, command string) *Hint {
	return &Hint{Message: message, Command: command}
}

// String returns the message, followed by the command on its own line.
func (h *Hint) String() string {
	if h.Command == "" {
		return h.Message
	}
	return fmt.Sprintf("%s\n  Run: %s", h.Message, h.Command)
}

// For returns the hints that apply to err, most specific first.
func For(err error) []*Hint {
	if err == nil {
		return nil
	}

	var out []*Hint
	var ambiguous *errors.AmbiguousError
	var config *errors.ConfigError
	switch {
	case errors.As(err, &ambiguous):
		name := ambiguous.Query
		if len(ambiguous.Candidates) > 0 {
			name = ambiguous.Candidates[0]
		}
		out = append(out, NewCommand("Several authors fit the name; repeat with one of them",
			fmt.Sprintf("papertrail follow %q", name)))
	case errors.Is(err, errors.ErrNotFollowed):
		out = append(out, NewCommand("Only followed authors can be updated or unfollowed", "papertrail show -a"))
	case errors.Is(err, errors.ErrNotFound):
		out = append(out, NewCommand("Check the spelling or look the author up first", "papertrail search <name>"))
	case errors.Is(err, errors.ErrFetchExhausted), errors.Is(err, errors.ErrSourceUnavailable):
		out = append(out, New("arXiv did not answer after several attempts; try again later or raise max_attempts"))
	case errors.Is(err, errors.ErrRateLimited):
		out = append(out, New("arXiv is rate limiting requests; wait a few minutes or raise retry_delay"))
	case errors.As(err, &config):
		out = append(out, New("Check the config file (~/.papertrail.yaml) and PAPERTRAIL_* variables"))
	}
	return out
}

// Format renders hints as indented lines, empty when there are none.
func Format(hs []*Hint) string {
	if len(hs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, h := range hs {
		b.WriteString("Hint: ")
		b.WriteString(h.String())
		b.WriteString("\n")
	}
	return b.String()
}
