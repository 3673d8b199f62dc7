package service

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/inbound"
	"github.com/ajkula/cppwatch/domain/port/outbound"
)

type watchService struct {
	newSource outbound.ChangeSourceFactory
	compiler  outbound.Compiler
	runner    outbound.Runner
	validator *FileValidator
	journal   outbound.Journal
	console   outbound.Console
	logger    outbound.Logger

	// how often a run observes the stop flag between changes
	flagInterval time.Duration

	// one flag per shell session, cleared before every restart
	stop *model.StopFlag

	mu      sync.Mutex
	files   []string
	running bool
	done    chan struct{}
}

func NewWatchService(
	files []string,
	newSource outbound.ChangeSourceFactory,
	compiler outbound.Compiler,
	runner outbound.Runner,
	validator *FileValidator,
	journal outbound.Journal,
	console outbound.Console,
	logger outbound.Logger,
	flagInterval time.Duration,
) inbound.WatchService {
	return &watchService{
		newSource:    newSource,
		compiler:     compiler,
		runner:       runner,
		validator:    validator,
		journal:      journal,
		console:      console,
		logger:       logger,
		flagInterval: flagInterval,
		stop:         &model.StopFlag{},
		files:        slices.Clone(files),
	}
}

// Start validates the current set, takes a snapshot of it and spawns a
// watcher run over that snapshot. Later AddFile/RemoveFile calls do not
// affect the run until the next Restart.
func (s *watchService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return model.ErrWatcherRunning
	}
	snapshot := slices.Clone(s.files)
	s.mu.Unlock()

	if len(snapshot) == 0 {
		return model.ErrNoFiles
	}
	if err := s.validator.Validate(snapshot); err != nil {
		return err
	}

	source, err := s.newSource()
	if err != nil {
		s.logger.Error("failed to create change source", "error", err)
		return fmt.Errorf("failed to create change source: %w", err)
	}
	if err := source.Start(ctx, snapshot); err != nil {
		source.Stop()
		s.journal.Recordf("watcher failed to start: %v", err)
		return err
	}

	runID := uuid.New().String()
	done := make(chan struct{})

	s.mu.Lock()
	s.running = true
	s.done = done
	s.mu.Unlock()

	s.journal.Recordf("watcher started over %d file(s)", len(snapshot))
	s.logger.Info("watcher started", "run_id", runID, "files", len(snapshot))

	go s.run(ctx, source, done, runID)
	return nil
}

// Stop sets the stop flag and joins the current run, if any. The flag is
// observed cooperatively: an in-flight compile or child binary finishes
// before the run exits.
func (s *watchService) Stop() {
	s.stop.Set()

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *watchService) Restart(ctx context.Context) error {
	s.journal.Record("restart requested")
	s.Stop()
	s.stop.Clear()
	s.console.ClearScreen()
	return s.Start(ctx)
}

func (s *watchService) AddFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.files, path) {
		s.journal.Recordf("add of %s rejected: already monitored", path)
		return model.ErrAlreadyMonitored
	}
	if len(s.files) >= model.MaxWatchedFiles {
		s.journal.Recordf("add of %s rejected: list is full", path)
		return model.ErrTooManyFiles
	}
	if err := s.validator.ValidateOne(path); err != nil {
		return err
	}

	s.files = append(s.files, path)
	s.journal.Recordf("added %s to the monitoring list", path)
	return nil
}

func (s *watchService) RemoveFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.Index(s.files, path)
	if idx < 0 {
		s.journal.Recordf("remove of %s rejected: not in the monitoring list", path)
		return model.ErrNotMonitored
	}

	s.files = slices.Delete(s.files, idx, idx+1)
	s.journal.Recordf("removed %s from the monitoring list", path)
	return nil
}

func (s *watchService) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.files)
}

func (s *watchService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the watcher loop. It exits on the stop flag, on context
// cancellation, or on a fatal detection error (a vanished file aborts
// the whole run). Every exit path writes a final journal entry.
func (s *watchService) run(ctx context.Context, source outbound.ChangeSource, done chan struct{}, runID string) {
	defer close(done)
	defer func() {
		if err := source.Stop(); err != nil {
			s.logger.Warn("change source stop failed", "run_id", runID, "error", err)
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.flagInterval)
	defer ticker.Stop()

	// state already absorbed by the post-attempt refresh, per path;
	// events queued while a compile ran are matched against it
	absorbed := make(map[string]model.Fingerprint)

	for {
		select {
		case <-ctx.Done():
			s.journal.Record("watcher stopped (interrupted)")
			s.logger.Info("watcher interrupted", "run_id", runID)
			return

		case <-ticker.C:
			if s.stop.IsSet() {
				s.journal.Record("watcher stopped")
				s.logger.Info("watcher stopped", "run_id", runID)
				return
			}

		case change, ok := <-source.Events():
			if !ok {
				return
			}
			// a change detected during the previous compile may describe
			// the exact state the refresh below already recorded; that
			// state was attempted, it must not compile twice
			if last, seen := absorbed[change.Path]; seen && change.New.Equal(last) {
				s.logger.Debug("discarding already-absorbed change", "run_id", runID, "path", change.Path)
				continue
			}
			s.compileAndRun(ctx, change, runID)
			// the fingerprint is refreshed after every attempt, success
			// or not, so an identical subsequent poll never re-triggers
			print, err := source.Refresh(change.Path)
			if err != nil {
				s.console.Errorf("watcher aborted: %v", err)
				s.journal.Recordf("watcher aborted: %v", err)
				s.logger.Error("fingerprint refresh failed", "run_id", runID, "path", change.Path, "error", err)
				return
			}
			absorbed[change.Path] = print

		case err, ok := <-source.Errors():
			if !ok {
				return
			}
			s.console.Errorf("watcher aborted: %v", err)
			s.journal.Recordf("watcher aborted: %v", err)
			s.logger.Error("watcher aborted", "run_id", runID, "error", err)
			return
		}
	}
}

// compileAndRun performs one synchronous compile-and-run cycle. The
// output name is the source path with its extension stripped. Compile
// failures are reported and never execute a binary; they do not end the
// run.
func (s *watchService) compileAndRun(ctx context.Context, change model.FileChange, runID string) {
	output := strings.TrimSuffix(change.Path, filepath.Ext(change.Path))

	s.console.Infof("change detected in %s, compiling...", change.Path)
	s.journal.Recordf("change detected in %s", change.Path)

	result, err := s.compiler.Compile(ctx, change.Path, output)
	if err != nil {
		s.console.Errorf("compiler could not be invoked: %v", err)
		s.journal.Recordf("compiler invocation failed for %s: %v", change.Path, err)
		s.logger.Error("compiler invocation failed", "run_id", runID, "source", change.Path, "error", err)
		return
	}

	if !result.Succeeded() {
		s.console.Errorf("compilation of %s failed (exit %d)", change.Path, result.ExitCode)
		if result.Diagnostics != "" {
			s.console.Print(result.Diagnostics)
		}
		s.journal.Recordf("compilation of %s failed (exit %d)", change.Path, result.ExitCode)
		s.logger.Warn("compilation failed", "run_id", runID, "source", change.Path, "exit_code", result.ExitCode)
		return
	}

	s.console.Successf("compiled %s in %s, running %s", change.Path, result.Duration.Round(time.Millisecond), output)
	s.journal.Recordf("compiled %s, running %s", change.Path, output)
	s.logger.Info("compilation succeeded", "run_id", runID, "source", change.Path, "output", output)

	if err := s.runner.Run(ctx, output); err != nil {
		s.console.Errorf("%s exited with error: %v", output, err)
		s.journal.Recordf("%s exited with error: %v", output, err)
		return
	}
	s.journal.Recordf("%s finished", output)
}
