package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ajkula/cppwatch/domain/port/outbound"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
)

// AnsiConsole renders user-facing output with cosmetic colors. Both the
// shell and the watcher goroutine write through it, so writes are
// serialized.
type AnsiConsole struct {
	mu  sync.Mutex
	out io.Writer
}

func NewAnsiConsole(out io.Writer) outbound.Console {
	return &AnsiConsole{out: out}
}

func (c *AnsiConsole) Print(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, text)
}

func (c *AnsiConsole) Infof(format string, args ...any) {
	c.println(infoStyle.Render(fmt.Sprintf(format, args...)))
}

func (c *AnsiConsole) Successf(format string, args ...any) {
	c.println(successStyle.Render(fmt.Sprintf(format, args...)))
}

func (c *AnsiConsole) Errorf(format string, args ...any) {
	c.println(errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (c *AnsiConsole) ClearScreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, "\x1b[2J\x1b[H")
}

func (c *AnsiConsole) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}
