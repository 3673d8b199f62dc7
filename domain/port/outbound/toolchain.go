package outbound

import (
	"context"

	"github.com/ajkula/cppwatch/domain/model"
)

// Compiler invokes the external compiler on a single source file.
// A nonzero compiler exit is reported through the result, not the
// error; the error is reserved for failing to run the compiler at all.
type Compiler interface {
	Compile(ctx context.Context, source, output string) (*model.CompileResult, error)
}

// Runner executes a produced binary with no arguments, its output
// streaming to the console. Run blocks until the child exits; the
// child is never forcibly killed on stop or restart.
type Runner interface {
	Run(ctx context.Context, binary string) error
}
