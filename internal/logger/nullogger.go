package logger

import "sync/atomic"

// NullLogger discards every line. It still counts Error and Fatal calls so
// tests can check that a failure was reported without parsing output.
type NullLogger struct {
	errors atomic.Int64
}

var _ Logger = (*NullLogger)(nil)

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Info(string, map[string]interface{})  {}
func (l *NullLogger) Debug(string, map[string]interface{}) {}
func (l *NullLogger) SetLevel(Level)                       {}

func (l *NullLogger) Error(error, map[string]interface{}) {
	l.errors.Add(1)
}

// Fatal never exits.
func (l *NullLogger) Fatal(error, map[string]interface{}) {
	l.errors.Add(1)
}

// ErrorCount returns how many Error and Fatal lines were dropped.
func (l *NullLogger) ErrorCount() int64 {
	return l.errors.Load()
}
