// Package accesslog provides the append-only request log. Logging is
// best-effort: a failure to write is reported on the operational logger and
// never surfaces to the client or fails the request.
package accesslog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/marmos91/staticd/internal/logger"
)

// Logger appends one line per completed request to a log file.
//
// Thread safety:
// Log may be called from any number of handler goroutines; appends are
// serialized under an internal mutex.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// New opens (or creates) the access log at path in append mode.
//
// An empty path disables access logging; the returned Logger is a no-op.
func New(path string) (*Logger, error) {
	if path == "" {
		return &Logger{}, nil
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open access log %s: %w", path, err)
	}

	return &Logger{file: file, path: path}, nil
}

// Log appends a single entry for a client request. Never fails the caller:
// write errors are reported on the operational logger only.
func (l *Logger) Log(clientIP, summary string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] %s - %s\n", timestamp, clientIP, summary)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Close may have released the file; the nil check belongs under the
	// same lock as the release.
	if l.file == nil {
		return
	}

	if _, err := l.file.WriteString(entry); err != nil {
		logger.Warn("Failed to write access log entry: %v", err)
	}
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil
	return err
}
