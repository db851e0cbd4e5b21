package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.log")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	assert.True(t, logger.IsEnabled())
	assert.Equal(t, path, logger.Path())

	logger.Log("applied %d files", 3)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "applied 3 files")
}

func TestFileLoggerCountsDroppedMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	f, err := os.Create(path)
	require.NoError(t, err)

	// No writer goroutine and no buffer, so every message is dropped
	logger := &FileLogger{logChan: make(chan string), file: f, path: path}
	logger.Log("one")
	logger.Log("two")
	assert.Equal(t, int64(2), logger.Dropped())

	require.NoError(t, logger.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2 log messages dropped")
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf)
	logger.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger.Log("fuzz=%d", 100)

	assert.Equal(t, "[2024-01-02T03:04:05.000Z] fuzz=100\n", buf.String())
	assert.NoError(t, logger.Close())
}

func TestNilLogger(t *testing.T) {
	logger := NilLogger{}
	logger.Log("ignored %s", "message")
	assert.False(t, logger.IsEnabled())
	assert.NoError(t, logger.Close())
	assert.False(t, Discard.IsEnabled())
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))
	assert.Equal(t, "apply-patch-20240506-070809.log", filepath.Base(path))
}
