package outbound

// Console is the user-facing terminal output. Colors are cosmetic; an
// implementation writing plain text is equally valid.
type Console interface {
	// writes text verbatim, no newline appended
	Print(text string)

	// writes one informational line
	Infof(format string, args ...any)

	// writes one success line
	Successf(format string, args ...any)

	// writes one failure line
	Errorf(format string, args ...any)

	// clears the terminal
	ClearScreen()
}
