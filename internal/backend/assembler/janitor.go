package assembler

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// Janitor removes transient files in the background
type Janitor struct {
	wg sync.WaitGroup
}

// NewJanitor creates a new janitor
func NewJanitor() *Janitor {
	return &Janitor{}
}

// Schedule deletes path asynchronously. A missing file is not an error;
// any other failure is logged and otherwise ignored.
func (j *Janitor) Schedule(path string) {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to remove temporary file", "path", path, "error", err)
			return
		}
		slog.Debug("temporary file removed", "path", path)
	}()
}

// Wait blocks until every scheduled deletion has finished
func (j *Janitor) Wait() {
	j.wg.Wait()
}
