package filewatcher

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/outbound"
)

// PollSource is the default change-detection engine: a fixed-interval
// stat loop comparing each file's fingerprint against the last recorded
// one. Fingerprints are recorded at detection time and refreshed again
// after each compile attempt by the watch loop.
type PollSource struct {
	interval time.Duration
	events   chan model.FileChange
	errors   chan error

	mu     sync.Mutex
	prints map[string]model.Fingerprint
	paths  []string

	cancel  context.CancelFunc
	running bool
	closed  chan struct{}
}

func NewPollSource(interval time.Duration) outbound.ChangeSource {
	return &PollSource{
		interval: interval,
		events:   make(chan model.FileChange, model.MaxWatchedFiles),
		errors:   make(chan error, 1),
		prints:   make(map[string]model.Fingerprint),
		closed:   make(chan struct{}),
	}
}

func (p *PollSource) Start(ctx context.Context, paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("poll source already started")
	}

	for _, path := range paths {
		print, err := statFingerprint(path)
		if err != nil {
			return fmt.Errorf("initial fingerprint failed: %w", err)
		}
		p.prints[path] = print
	}
	p.paths = slices.Clone(paths)

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	go p.loop(loopCtx)
	return nil
}

func (p *PollSource) Events() <-chan model.FileChange {
	return p.events
}

func (p *PollSource) Errors() <-chan error {
	return p.errors
}

func (p *PollSource) Refresh(path string) (model.Fingerprint, error) {
	print, err := statFingerprint(path)
	if err != nil {
		return model.Fingerprint{}, err
	}
	p.mu.Lock()
	p.prints[path] = print
	p.mu.Unlock()
	return print, nil
}

func (p *PollSource) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.cancel()
	p.mu.Unlock()

	<-p.closed
	return nil
}

func (p *PollSource) loop(ctx context.Context) {
	defer close(p.closed)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if !p.scan(ctx) {
				return
			}
		}
	}
}

// scan stats every monitored path once. A missing file aborts the whole
// source, not just that file. Returns false when the loop must exit.
func (p *PollSource) scan(ctx context.Context) bool {
	for _, path := range p.paths {
		print, err := statFingerprint(path)
		if err != nil {
			p.sendError(ctx, err)
			return false
		}

		p.mu.Lock()
		last := p.prints[path]
		changed := !print.Equal(last)
		if changed {
			p.prints[path] = print
		}
		p.mu.Unlock()

		if changed {
			select {
			case p.events <- model.FileChange{Path: path, Old: last, New: print}:
			case <-ctx.Done():
				return false
			}
		}
	}
	return true
}

func (p *PollSource) sendError(ctx context.Context, err error) {
	select {
	case p.errors <- err:
	case <-ctx.Done():
	}
}
