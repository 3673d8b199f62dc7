package outbound

// Journal is the user-facing, append-only activity log: one timestamped
// line per shell command and per watcher transition. Writes are
// best-effort; a failing journal must never break the control flow.
type Journal interface {
	// appends one timestamped line
	Record(message string)

	// appends one timestamped line built from a format string
	Recordf(format string, args ...any)
}
