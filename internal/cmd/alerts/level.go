package alerts

import (
	"fmt"

	"github.com/agentstation/papertrail/internal/cmd/emoji"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure.
	LevelError Level = iota
	// LevelWarning indicates a non-fatal problem.
	LevelWarning
	// LevelInfo indicates general information.
	LevelInfo
	// LevelSuccess indicates a completed operation.
	LevelSuccess
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol printed before the message.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return emoji.Error
	case LevelWarning:
		return emoji.Warning
	case LevelSuccess:
		return emoji.Success
	default:
		return emoji.Info
	}
}

// color returns the ANSI color code for terminal output.
func (l Level) color() string {
	switch l {
	case LevelError:
		return "\033[31m"
	case LevelWarning:
		return "\033[33m"
	case LevelInfo:
		return "\033[36m"
	case LevelSuccess:
		return "\033[32m"
	default:
		return reset
	}
}

const reset = "\033[0m"
