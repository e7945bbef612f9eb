package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// FileLogger appends events to a text file, one "name,timestamp,action" line
// per event.
type FileLogger struct {
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewFileLogger opens path for appending, creating it and its parent directory
// if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	return &FileLogger{file: f, w: csv.NewWriter(f)}, nil
}

func (l *FileLogger) Log(_ context.Context, event domain.Event) error {
	event = complete(event)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.w.Write([]string{event.Name, event.FormattedTime(), string(event.Action)}); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("flush event log: %w", err)
	}
	return nil
}

func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.w.Flush()
	return l.file.Close()
}
