package filewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/outbound"
)

// FsnotifySource is the optional native-event engine. It keeps the same
// contract as the poll engine: fingerprints confirm every change (editors
// fire spurious events), a vanished file is fatal to the whole source,
// and Refresh re-records the fingerprint after each compile attempt.
//
// fsnotify watches directories, so parent directories are registered and
// events are filtered down to the monitored files.
type FsnotifySource struct {
	watcher *fsnotify.Watcher
	events  chan model.FileChange
	errors  chan error

	mu          sync.Mutex
	prints      map[string]model.Fingerprint // keyed by absolute path
	names       map[string]string            // absolute path -> path as given
	watchedDirs map[string]bool

	cancel  context.CancelFunc
	running bool
	closed  chan struct{}
}

func NewFsnotifySource() (outbound.ChangeSource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FsnotifySource{
		watcher:     watcher,
		events:      make(chan model.FileChange, model.MaxWatchedFiles),
		errors:      make(chan error, 1),
		prints:      make(map[string]model.Fingerprint),
		names:       make(map[string]string),
		watchedDirs: make(map[string]bool),
		closed:      make(chan struct{}),
	}, nil
}

func (f *FsnotifySource) Start(ctx context.Context, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return fmt.Errorf("fsnotify source already started")
	}

	for _, path := range paths {
		print, err := statFingerprint(path)
		if err != nil {
			return fmt.Errorf("initial fingerprint failed: %w", err)
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", path, err)
		}
		f.prints[abs] = print
		f.names[abs] = path

		dir := filepath.Dir(abs)
		if !f.watchedDirs[dir] {
			if err := f.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			f.watchedDirs[dir] = true
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.running = true

	go f.loop(loopCtx)
	return nil
}

func (f *FsnotifySource) Events() <-chan model.FileChange {
	return f.events
}

func (f *FsnotifySource) Errors() <-chan error {
	return f.errors
}

func (f *FsnotifySource) Refresh(path string) (model.Fingerprint, error) {
	print, err := statFingerprint(path)
	if err != nil {
		return model.Fingerprint{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return model.Fingerprint{}, fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	f.mu.Lock()
	f.prints[abs] = print
	f.mu.Unlock()
	return print, nil
}

func (f *FsnotifySource) Stop() error {
	f.mu.Lock()
	wasRunning := f.running
	f.running = false
	if f.cancel != nil {
		f.cancel()
	}
	f.mu.Unlock()

	// closed even when Start never ran, so a failed start leaks nothing
	if err := f.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close fsnotify watcher: %w", err)
	}

	if wasRunning {
		<-f.closed
	}
	return nil
}

func (f *FsnotifySource) loop(ctx context.Context) {
	defer close(f.closed)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if !f.handle(ctx, event) {
				return
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.sendError(ctx, fmt.Errorf("fsnotify error: %w", err))
			return
		}
	}
}

// handle filters one directory event down to the monitored files and
// confirms it against the recorded fingerprint. Returns false when the
// loop must exit.
func (f *FsnotifySource) handle(ctx context.Context, event fsnotify.Event) bool {
	f.mu.Lock()
	given, tracked := f.names[event.Name]
	f.mu.Unlock()
	if !tracked {
		return true
	}

	// Remove/Rename may be an editor saving via a temp file swap; only a
	// path that is really gone aborts the source.
	print, err := statFingerprint(given)
	if err != nil {
		f.sendError(ctx, err)
		return false
	}

	f.mu.Lock()
	last := f.prints[event.Name]
	changed := !print.Equal(last)
	if changed {
		f.prints[event.Name] = print
	}
	f.mu.Unlock()

	if changed {
		select {
		case f.events <- model.FileChange{Path: given, Old: last, New: print}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func (f *FsnotifySource) sendError(ctx context.Context, err error) {
	select {
	case f.errors <- err:
	case <-ctx.Done():
	}
}
