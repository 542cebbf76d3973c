package alerts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/agentstation/papertrail/internal/cmd/output"
)

// Writer writes alerts in an output format.
type Writer struct {
	w        io.Writer
	format   output.Format
	useColor bool
}

// NewWriter creates a Writer for format. Colors are used only when w is a
// terminal and noColor is unset.
func NewWriter(w io.Writer, format output.Format, noColor bool) *Writer {
	return &Writer{
		w:        w,
		format:   format,
		useColor: !noColor && isTerminal(w),
	}
}

// alertData represents alert data for structured output.
type alertData struct {
	Level   string   `json:"level" yaml:"level"`
	Message string   `json:"message" yaml:"message"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Write writes an alert in the configured format.
func (fw *Writer) Write(alert *Alert) error {
	switch fw.format {
	case output.FormatJSON:
		return json.NewEncoder(fw.w).Encode(toData(alert))
	case output.FormatYAML:
		b, err := yaml.Marshal(toData(alert))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(fw.w, "---"); err != nil {
			return err
		}
		_, err = fw.w.Write(b)
		return err
	default:
		return fw.writeText(alert)
	}
}

// Success writes a success alert.
func (fw *Writer) Success(format string, args ...any) error {
	return fw.Write(NewSuccess(fmt.Sprintf(format, args...)))
}

// Warning writes a warning alert.
func (fw *Writer) Warning(format string, args ...any) error {
	return fw.Write(NewWarning(fmt.Sprintf(format, args...)))
}

// Info writes an info alert.
func (fw *Writer) Info(format string, args ...any) error {
	return fw.Write(NewInfo(fmt.Sprintf(format, args...)))
}

func toData(alert *Alert) alertData {
	data := alertData{
		Level:   alert.Level.String(),
		Message: alert.Message,
		Details: alert.Details,
	}
	if alert.Err != nil {
		data.Error = alert.Err.Error()
	}
	return data
}

func (fw *Writer) writeText(alert *Alert) error {
	message := alert.String()
	if fw.useColor {
		message = alert.Level.color() + message + reset
	}
	if _, err := fmt.Fprintln(fw.w, message); err != nil {
		return err
	}
	for _, detail := range alert.Details {
		if _, err := fmt.Fprintf(fw.w, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

// isTerminal checks if the writer is a terminal (for color support).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
