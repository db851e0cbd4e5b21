package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Logger defines the interface for logging messages.
type Logger interface {
	// Log formats and writes a log message.
	Log(format string, args ...interface{})
	// IsEnabled returns true if the logger is active (e.g., debug mode is on).
	IsEnabled() bool
	// Close cleans up any resources used by the logger (e.g., closes file handles).
	Close() error
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// formatLine renders one timestamped log line.
func formatLine(now time.Time, format string, args ...interface{}) string {
	return fmt.Sprintf("[%s] %s\n", now.Format(timestampLayout), fmt.Sprintf(format, args...))
}

// DefaultLogPath returns a timestamped log file path under the user cache
// directory, falling back to the current directory.
func DefaultLogPath(now time.Time) string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	logFile := fmt.Sprintf("apply-patch-%s.log", now.Format("20060102-150405"))
	return filepath.Join(cacheDir, "apply-patch-go", "logs", logFile)
}
