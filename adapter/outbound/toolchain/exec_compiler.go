package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/outbound"
)

// ExecCompiler invokes an external compiler as `<command> -o <output>
// <source>`, capturing stderr. The child is never killed on cancellation;
// a compile that has started runs to completion.
type ExecCompiler struct {
	command string
	logger  outbound.Logger
}

func NewExecCompiler(command string, logger outbound.Logger) outbound.Compiler {
	return &ExecCompiler{
		command: command,
		logger:  logger,
	}
}

func (c *ExecCompiler) Compile(ctx context.Context, source, output string) (*model.CompileResult, error) {
	var stderr bytes.Buffer

	// exec.Command rather than CommandContext: cancellation is "stop
	// watching", not "kill the compiler"
	cmd := exec.Command(c.command, "-o", output, source)
	cmd.Stderr = &stderr

	c.logger.Debug("invoking compiler", "command", c.command, "source", source, "output", output)

	start := time.Now()
	err := cmd.Run()

	result := &model.CompileResult{
		Source:      source,
		Output:      output,
		Diagnostics: stderr.String(),
		Duration:    time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return nil, fmt.Errorf("failed to invoke compiler %q: %w", c.command, err)
}
