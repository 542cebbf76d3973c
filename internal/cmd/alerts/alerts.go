// Package alerts provides status messages for commands, rendered to match
// the selected output format.
package alerts

import (
	"fmt"
	"time"
)

// Alert represents a status notification.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewError creates a new error alert.
func NewError(message string) *Alert { return New(LevelError, message) }

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert { return New(LevelWarning, message) }

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert { return New(LevelInfo, message) }

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert { return New(LevelSuccess, message) }

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds indented detail lines to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the icon and message, plus the error when set.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}
