package inbound

import "context"

// WatchService drives the watcher lifecycle and owns the shell's copy of
// the monitored file set. AddFile and RemoveFile mutate that copy only;
// a running watcher keeps working against the snapshot taken when it
// started, until the next Restart.
type WatchService interface {
	// validates the current set and starts a watcher run over a snapshot
	Start(ctx context.Context) error

	// sets the stop flag and blocks until the current run has exited
	Stop()

	// stops the current run, clears the flag, clears the screen and
	// starts a fresh run over the current file set
	Restart(ctx context.Context) error

	// validates and appends a path; rejects duplicates and an entry
	// beyond the maximum
	AddFile(path string) error

	// removes a monitored path
	RemoveFile(path string) error

	// returns a copy of the current monitored set
	Files() []string

	// reports whether a watcher run is active
	Running() bool
}
