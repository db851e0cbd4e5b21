package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// FileLogger implements the Logger interface, writing logs asynchronously to a file.
type FileLogger struct {
	logChan chan string
	file    *os.File
	path    string
	waiter  sync.WaitGroup
	mu      sync.Mutex // Protects file handle during close
	dropped atomic.Int64
}

// NewFileLogger creates a new logger that writes to the specified file path.
// It creates the directory if it doesn't exist.
func NewFileLogger(filePath string) (*FileLogger, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}

	logger := &FileLogger{
		logChan: make(chan string, 100),
		file:    f,
		path:    filePath,
	}

	logger.waiter.Add(1)
	go logger.writer()

	return logger, nil
}

// Path returns the file the logger writes to.
func (l *FileLogger) Path() string {
	return l.path
}

// writer runs in a background goroutine, reading from logChan and writing to the file.
func (l *FileLogger) writer() {
	defer l.waiter.Done()
	for msg := range l.logChan {
		l.mu.Lock()
		if l.file != nil {
			_, _ = l.file.WriteString(msg)
		}
		l.mu.Unlock()
	}
}

// Log formats the message and queues it. Messages are dropped, and counted,
// when the buffer is full.
func (l *FileLogger) Log(format string, args ...interface{}) {
	select {
	case l.logChan <- formatLine(time.Now(), format, args...):
	default:
		l.dropped.Add(1)
	}
}

// Dropped returns how many messages were discarded because the buffer was full.
func (l *FileLogger) Dropped() int64 {
	return l.dropped.Load()
}

// IsEnabled returns true for FileLogger.
func (l *FileLogger) IsEnabled() bool {
	return true
}

// Close drains pending messages and closes the log file.
func (l *FileLogger) Close() error {
	close(l.logChan)
	l.waiter.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if n := l.dropped.Load(); n > 0 {
		_, _ = l.file.WriteString(formatLine(time.Now(), "%d log messages dropped", n))
	}
	err := l.file.Close()
	l.file = nil
	return err
}

var _ Logger = (*FileLogger)(nil)
