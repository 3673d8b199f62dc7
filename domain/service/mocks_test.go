package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/outbound"
)

// Mock implementations for testing

type mockJournal struct {
	mu      sync.Mutex
	entries []string
}

func (m *mockJournal) Record(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, message)
}

func (m *mockJournal) Recordf(format string, args ...any) {
	m.Record(fmt.Sprintf(format, args...))
}

func (m *mockJournal) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}

type mockLogger struct{}

func (mockLogger) Error(msg string, args ...any) {}
func (mockLogger) Warn(msg string, args ...any)  {}
func (mockLogger) Info(msg string, args ...any)  {}
func (mockLogger) Debug(msg string, args ...any) {}

type mockConsole struct {
	mu    sync.Mutex
	lines []string
}

func (m *mockConsole) Print(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, text)
}

func (m *mockConsole) Infof(format string, args ...any)    { m.Print(fmt.Sprintf(format, args...)) }
func (m *mockConsole) Successf(format string, args ...any) { m.Print(fmt.Sprintf(format, args...)) }
func (m *mockConsole) Errorf(format string, args ...any)   { m.Print(fmt.Sprintf(format, args...)) }
func (m *mockConsole) ClearScreen()                        { m.Print("<clear>") }

type mockChangeSource struct {
	mu        sync.Mutex
	events    chan model.FileChange
	errors    chan error
	started   []string
	refreshed []string
	refreshFp model.Fingerprint
	stopped   bool
	startErr  error
}

func newMockChangeSource() *mockChangeSource {
	return &mockChangeSource{
		events: make(chan model.FileChange, model.MaxWatchedFiles),
		errors: make(chan error, 1),
	}
}

func (m *mockChangeSource) Start(ctx context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.started = append([]string(nil), paths...)
	return nil
}

func (m *mockChangeSource) Events() <-chan model.FileChange { return m.events }
func (m *mockChangeSource) Errors() <-chan error            { return m.errors }

func (m *mockChangeSource) Refresh(path string) (model.Fingerprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = append(m.refreshed, path)
	if m.refreshFp != (model.Fingerprint{}) {
		return m.refreshFp, nil
	}
	// unique per call, so unrelated events never look already absorbed
	return model.Fingerprint{ModTime: time.Now(), Size: int64(len(m.refreshed))}, nil
}

func (m *mockChangeSource) setRefreshFingerprint(print model.Fingerprint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshFp = print
}

func (m *mockChangeSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockChangeSource) startedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.started...)
}

func (m *mockChangeSource) refreshedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.refreshed...)
}

type mockCompiler struct {
	mu          sync.Mutex
	sources     []string
	exitCode    int
	diagnostics string
	invokeErr   error

	// when set, Compile signals entry on started and waits on gate,
	// simulating a slow compiler
	started chan struct{}
	gate    chan struct{}
}

func (m *mockCompiler) Compile(ctx context.Context, source, output string) (*model.CompileResult, error) {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.invokeErr != nil {
		return nil, m.invokeErr
	}
	m.sources = append(m.sources, source)
	return &model.CompileResult{
		Source:      source,
		Output:      output,
		ExitCode:    m.exitCode,
		Diagnostics: m.diagnostics,
	}, nil
}

func (m *mockCompiler) compiled() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sources...)
}

type mockRunner struct {
	mu       sync.Mutex
	binaries []string
	runErr   error
}

func (m *mockRunner) Run(ctx context.Context, binary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binaries = append(m.binaries, binary)
	return m.runErr
}

func (m *mockRunner) ran() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.binaries...)
}

var _ outbound.ChangeSource = (*mockChangeSource)(nil)
var _ outbound.Compiler = (*mockCompiler)(nil)
var _ outbound.Runner = (*mockRunner)(nil)
var _ outbound.Journal = (*mockJournal)(nil)
var _ outbound.Console = (*mockConsole)(nil)
var _ outbound.Logger = (mockLogger{})
