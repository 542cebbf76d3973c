// Package emoji provides the symbols used across CLI output.
package emoji

// Status symbols.
const (
	// Success marks completed operations and followed authors.
	Success = "✓"

	// Error marks failed operations and authors whose update failed.
	Error = "✗"

	// Warning marks skipped input and other non-fatal problems.
	Warning = "!"

	// Optional marks an unset flag, e.g. an author that is not followed.
	Optional = "-"

	// Info marks informational messages.
	Info = "i"
)

// Paper event symbols, printed by `update --watch`.
const (
	// New marks a paper seen for the first time.
	New = "+"

	// Updated marks a paper whose version advanced.
	Updated = "~"

	// Rejected marks a fetched paper that failed validation.
	Rejected = "×"
)
