package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoFiles          = errors.New("no files to monitor")
	ErrTooManyFiles     = errors.New("too many files to monitor")
	ErrInvalidFiles     = errors.New("missing or invalid file")
	ErrFileVanished     = errors.New("monitored file vanished")
	ErrAlreadyMonitored = errors.New("file is already monitored")
	ErrNotMonitored     = errors.New("file is not in the monitoring list")
	ErrWatcherRunning   = errors.New("watcher is already running")
)

// FileIssue describes why a single path failed validation.
type FileIssue struct {
	Path   string
	Reason string
}

func (i FileIssue) String() string {
	return fmt.Sprintf("%s (%s)", i.Path, i.Reason)
}

// ValidationError lists exactly the paths that failed validation.
// It unwraps to ErrInvalidFiles so callers can match on the sentinel.
type ValidationError struct {
	Issues []FileIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%v: %s", ErrInvalidFiles, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidFiles
}
