package toolchain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Error(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}

// writeScript creates a small executable standing in for a compiler or a
// produced binary, so the tests do not depend on a real C++ toolchain.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestExecCompiler_SuccessfulCompile(t *testing.T) {
	dir := t.TempDir()
	// accepts "-o <output> <source>" and fabricates the artifact
	fakeCompiler := writeScript(t, dir, "cc.sh", `touch "$2"`+"\n")

	compiler := NewExecCompiler(fakeCompiler, noopLogger{})

	source := filepath.Join(dir, "main.cpp")
	output := filepath.Join(dir, "main")

	result, err := compiler.Compile(context.Background(), source, output)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, source, result.Source)
	assert.Equal(t, output, result.Output)
	assert.Empty(t, result.Diagnostics)
	assert.FileExists(t, output)
}

func TestExecCompiler_CompileErrorIsAResultNotAnError(t *testing.T) {
	dir := t.TempDir()
	fakeCompiler := writeScript(t, dir, "cc.sh", `echo "main.cpp:3: error: expected ';'" >&2`+"\nexit 1\n")

	compiler := NewExecCompiler(fakeCompiler, noopLogger{})

	result, err := compiler.Compile(context.Background(), "main.cpp", "main")
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Diagnostics, "expected ';'")
}

func TestExecCompiler_MissingCompilerIsAnError(t *testing.T) {
	compiler := NewExecCompiler("/nonexistent/compiler", noopLogger{})

	result, err := compiler.Compile(context.Background(), "main.cpp", "main")
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestExecRunner_StreamsOutput(t *testing.T) {
	dir := t.TempDir()
	binary := writeScript(t, dir, "hello.sh", `echo "hello from the program"`+"\n")

	var stdout, stderr bytes.Buffer
	runner := NewExecRunner(&stdout, &stderr, noopLogger{})

	require.NoError(t, runner.Run(context.Background(), binary))
	assert.Contains(t, stdout.String(), "hello from the program")
}

func TestExecRunner_ReportsExitCode(t *testing.T) {
	dir := t.TempDir()
	binary := writeScript(t, dir, "crash.sh", "exit 3\n")

	var stdout, stderr bytes.Buffer
	runner := NewExecRunner(&stdout, &stderr, noopLogger{})

	err := runner.Run(context.Background(), binary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 3")
}

func TestExecRunner_BareNameRunsFromWorkingDirectory(t *testing.T) {
	// `cppwatch main.cpp` produces a binary named just "main"; running it
	// must not go through $PATH lookup
	dir := t.TempDir()
	writeScript(t, dir, "main", `echo "ran the local binary"`+"\n")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	var stdout, stderr bytes.Buffer
	runner := NewExecRunner(&stdout, &stderr, noopLogger{})

	require.NoError(t, runner.Run(context.Background(), "main"))
	assert.Contains(t, stdout.String(), "ran the local binary")
}

func TestExecRunner_MissingBinaryIsAnError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	runner := NewExecRunner(&stdout, &stderr, noopLogger{})

	err := runner.Run(context.Background(), "/nonexistent/binary")
	require.Error(t, err)
}
