package journal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ajkula/cppwatch/domain/port/outbound"
)

// ctime(3)-style timestamps, e.g. "Sun Aug 23 14:07:01 2026"
const timestampLayout = "Mon Jan _2 15:04:05 2006"

// FileJournal appends timestamped lines to a fixed-path text file. The
// file is opened in append mode on every call; there is no rotation and
// no size bound. Write failures surface as an operational warning and
// never reach the caller.
type FileJournal struct {
	path   string
	logger outbound.Logger
	mu     sync.Mutex
}

func NewFileJournal(path string, logger outbound.Logger) outbound.Journal {
	return &FileJournal{
		path:   path,
		logger: logger,
	}
}

func (j *FileJournal) Record(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		j.logger.Warn("journal open failed", "path", j.path, "error", err)
		return
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s: %s\n", time.Now().Format(timestampLayout), message); err != nil {
		j.logger.Warn("journal write failed", "path", j.path, "error", err)
	}
}

func (j *FileJournal) Recordf(format string, args ...any) {
	j.Record(fmt.Sprintf(format, args...))
}
