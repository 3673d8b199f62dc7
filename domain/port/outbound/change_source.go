package outbound

import (
	"context"

	"github.com/ajkula/cppwatch/domain/model"
)

// ChangeSource detects fingerprint changes on a fixed snapshot of files.
// A source is single-use: it is created per watcher run, started once
// over the run's snapshot and stopped when the run ends.
type ChangeSource interface {
	// records initial fingerprints and begins detection; fails if any
	// path is missing, empty or not a regular file
	Start(ctx context.Context, paths []string) error

	// returns the channel of detected changes
	Events() <-chan model.FileChange

	// returns the channel of fatal detection errors (a vanished file
	// aborts the whole run, not just that file)
	Errors() <-chan error

	// re-stats a file, stores the observed fingerprint and returns it,
	// called after every compile attempt so the same state never
	// re-triggers (the caller uses the returned fingerprint to discard
	// events queued while the attempt ran)
	Refresh(path string) (model.Fingerprint, error)

	// stops detection and releases resources
	Stop() error
}

// ChangeSourceFactory builds a fresh ChangeSource for each watcher run.
type ChangeSourceFactory func() (ChangeSource, error)
