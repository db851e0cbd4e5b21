// Package logging provides the small Logger interface used across
// apply-patch-go and its file, writer and no-op implementations.
package logging

// NilLogger discards everything. It is the default when debug logging is off.
type NilLogger struct{}

// Discard is a shared NilLogger.
var Discard Logger = NilLogger{}

func (NilLogger) Log(format string, args ...interface{}) {}

func (NilLogger) IsEnabled() bool { return false }

func (NilLogger) Close() error { return nil }

var _ Logger = NilLogger{}
