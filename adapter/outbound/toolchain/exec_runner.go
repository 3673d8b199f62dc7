package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/ajkula/cppwatch/domain/port/outbound"
)

// ExecRunner executes a produced binary with no arguments, streaming its
// output to the configured writers. It blocks until the child exits and
// never kills it; a hung program hangs the watcher run by design.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
	logger outbound.Logger
}

func NewExecRunner(stdout, stderr io.Writer, logger outbound.Logger) outbound.Runner {
	return &ExecRunner{
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

func (r *ExecRunner) Run(ctx context.Context, binary string) error {
	// a bare name must run the freshly produced binary in the working
	// directory, never something resolved through $PATH
	if filepath.Base(binary) == binary {
		binary = "./" + binary
	}

	cmd := exec.Command(binary)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Debug("running binary", "path", binary)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("program exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %q: %w", binary, err)
	}
	return nil
}
