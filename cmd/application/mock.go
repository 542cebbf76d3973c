package application

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/papertrail"
	"github.com/agentstation/papertrail/pkg/constants"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	PapertrailFunc     func(opts ...papertrail.Option) (papertrail.Papertrail, error)
	LoggerFunc         func() *zerolog.Logger
	OutputFormatFunc   func() string
	NoColorFunc        func() bool
	LogFileFunc        func() string
	UpdateIntervalFunc func() time.Duration
	VersionFunc        func() string
	CommitFunc         func() string
	DateFunc           func() string
	BuiltByFunc        func() string
}

// Papertrail returns a papertrail using the mock function or nil.
func (m *Mock) Papertrail(opts ...papertrail.Option) (papertrail.Papertrail, error) {
	if m.PapertrailFunc != nil {
		return m.PapertrailFunc(opts...)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// NoColor returns the mock function result or true.
func (m *Mock) NoColor() bool {
	if m.NoColorFunc != nil {
		return m.NoColorFunc()
	}
	return true
}

// LogFile returns the log path using the mock function or "papertrail.log".
func (m *Mock) LogFile() string {
	if m.LogFileFunc != nil {
		return m.LogFileFunc()
	}
	return constants.LogFile
}

// UpdateInterval returns the interval using the mock function or the default.
func (m *Mock) UpdateInterval() time.Duration {
	if m.UpdateIntervalFunc != nil {
		return m.UpdateIntervalFunc()
	}
	return constants.DefaultAutoUpdateInterval
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
