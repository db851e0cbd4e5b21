package logging

import (
	"io"
	"sync"
	"time"
)

// WriterLogger writes log lines synchronously to an io.Writer, typically
// stderr when --verbose is set.
type WriterLogger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewWriterLogger creates a logger that writes to w.
func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{w: w, now: time.Now}
}

// Log writes one line.
func (l *WriterLogger) Log(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, formatLine(l.now(), format, args...))
}

// IsEnabled returns true.
func (l *WriterLogger) IsEnabled() bool {
	return true
}

// Close does nothing; the writer belongs to the caller.
func (l *WriterLogger) Close() error {
	return nil
}

var _ Logger = (*WriterLogger)(nil)
