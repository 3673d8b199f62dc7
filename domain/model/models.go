package model

import "time"

// MaxWatchedFiles bounds the monitored set. The tool targets a single
// developer's edit-compile-run loop, not whole project trees.
const MaxWatchedFiles = 10

// Fingerprint is the cheap change-detection proxy for a file. A file is
// considered changed when either value differs from the last observation.
type Fingerprint struct {
	ModTime time.Time
	Size    int64
}

func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.ModTime.Equal(other.ModTime) && f.Size == other.Size
}

// WatchedFile is one entry of the monitored set together with the
// fingerprint recorded at the start of the current watcher run.
type WatchedFile struct {
	Path        string
	Fingerprint Fingerprint
}

// FileChange is emitted by a change source when a monitored file's
// fingerprint no longer matches the recorded one.
type FileChange struct {
	Path string
	Old  Fingerprint
	New  Fingerprint
}

// CompileResult captures the outcome of a single compiler invocation.
// A nonzero ExitCode is a normal, reportable outcome, not an error.
type CompileResult struct {
	Source      string
	Output      string
	ExitCode    int
	Diagnostics string
	Duration    time.Duration
}

// Succeeded reports whether the compiler produced an artifact.
func (r *CompileResult) Succeeded() bool {
	return r.ExitCode == 0
}
