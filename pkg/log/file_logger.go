package log

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends hub events to a log file in compact CBOR.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	file     *os.File
	encoder  *cbor.Encoder
	mu       sync.Mutex
	closed   bool
	writeErr error
}

// NewFileLogger opens the event log at path for appending, creating
// it with permissions 0644 and any missing parent directories.
func NewFileLogger(path string) (*FileLogger, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Log writes an event to the log file.
// This method is safe for concurrent use.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Write errors must not disrupt the hub; the first one is held
	// back and reported by Close.
	if err := l.encoder.Encode(event); err != nil && l.writeErr == nil {
		l.writeErr = err
	}
}

// Close closes the log file and reports the first write failure, if
// any. It is safe to call Close multiple times. After Close is called,
// subsequent Log calls are silently ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	closeErr := l.file.Close()
	if l.writeErr != nil {
		return l.writeErr
	}
	return closeErr
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
