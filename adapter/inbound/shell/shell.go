package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/inbound"
	"github.com/ajkula/cppwatch/domain/port/outbound"
)

const prompt = "> "

const helpText = `commands:
  rs          restart the watcher over the current file list
  c           clear the screen
  q           quit
  h           show this help
  lf          list monitored files
  af <path>   add a file to the monitoring list (applied on next rs)
  rf <path>   remove a file from the monitoring list (applied on next rs)
`

// Shell is the foreground interactive command reader. It runs in the
// main goroutine and talks to the watcher only through the WatchService,
// which hides the shared stop flag.
type Shell struct {
	service inbound.WatchService
	console outbound.Console
	journal outbound.Journal
	logger  outbound.Logger
	in      io.Reader
}

func New(
	service inbound.WatchService,
	console outbound.Console,
	journal outbound.Journal,
	logger outbound.Logger,
	in io.Reader,
) *Shell {
	return &Shell{
		service: service,
		console: console,
		journal: journal,
		logger:  logger,
		in:      in,
	}
}

// Run reads line commands until q, closed input or context cancellation.
// On every exit path the watcher is stopped and joined first, so no run
// outlives the shell.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)

	for {
		s.console.Print(prompt)

		if !scanner.Scan() {
			s.journal.Record("input closed, quitting")
			s.service.Stop()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			s.service.Stop()
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		switch command {
		case "rs":
			s.handleRestart(ctx)
		case "c":
			s.console.ClearScreen()
			s.journal.Record("screen cleared")
		case "q":
			s.journal.Record("quit requested")
			s.service.Stop()
			s.journal.Record("quit")
			return nil
		case "h":
			s.console.Print(helpText)
			s.journal.Record("help shown")
		case "lf":
			s.handleList()
		case "af":
			s.handleAdd(args)
		case "rf":
			s.handleRemove(args)
		default:
			s.handleInvalid(line)
		}
	}
}

func (s *Shell) handleRestart(ctx context.Context) {
	if err := s.service.Restart(ctx); err != nil {
		s.console.Errorf("restart failed: %v", err)
		s.logger.Warn("restart failed", "error", err)
		return
	}
	s.console.Successf("watcher restarted over %d file(s)", len(s.service.Files()))
}

func (s *Shell) handleList() {
	files := s.service.Files()
	s.console.Infof("monitoring %d file(s):", len(files))
	for _, file := range files {
		s.console.Print("  " + file + "\n")
	}
	s.journal.Record("listed monitored files")
}

func (s *Shell) handleAdd(args []string) {
	if len(args) != 1 {
		s.handleInvalid("af")
		return
	}
	path := args[0]

	err := s.service.AddFile(path)
	switch {
	case err == nil:
		s.console.Successf("added %s, takes effect on next rs", path)
	case errors.Is(err, model.ErrAlreadyMonitored):
		s.console.Infof("%s is already monitored", path)
	case errors.Is(err, model.ErrTooManyFiles):
		s.console.Errorf("cannot monitor more than %d files", model.MaxWatchedFiles)
	default:
		s.console.Errorf("cannot add %s: %v", path, err)
	}
}

func (s *Shell) handleRemove(args []string) {
	if len(args) != 1 {
		s.handleInvalid("rf")
		return
	}
	path := args[0]

	err := s.service.RemoveFile(path)
	switch {
	case err == nil:
		s.console.Successf("removed %s, takes effect on next rs", path)
	case errors.Is(err, model.ErrNotMonitored):
		s.console.Errorf("%s is not in the monitoring list", path)
	default:
		s.console.Errorf("cannot remove %s: %v", path, err)
	}
}

func (s *Shell) handleInvalid(line string) {
	s.console.Errorf("invalid command %q, h for help", line)
	s.journal.Recordf("invalid command: %s", line)
}
