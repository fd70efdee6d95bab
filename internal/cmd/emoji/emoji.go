// Package emoji provides the status symbols printed by CLI commands.
package emoji

const (
	// Success marks a passed check or a matched lookup.
	Success = "✓"

	// Error marks a failed check or a lookup below its threshold.
	Error = "✗"

	// Warning marks advice the user should act on, such as a threshold change.
	Warning = "!"

	// Info marks neutral progress messages.
	Info = "i"

	// Unknown marks a state that could not be determined.
	Unknown = "?"
)
