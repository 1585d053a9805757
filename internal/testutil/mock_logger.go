// Package testutil holds shared test doubles.
package testutil

import (
	"sync"

	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
)

// LogMessage records one logged entry.
type LogMessage struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// MockLogger records every log call for assertion in tests.
type MockLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewMockLogger returns an empty recording logger.
func NewMockLogger() *MockLogger { return &MockLogger{} }

func (m *MockLogger) record(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, LogMessage{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.record("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.record("fatal", msg, fields) }

func (m *MockLogger) With(...logging.Field) logging.Logger { return m }
func (m *MockLogger) Named(string) logging.Logger          { return m }
func (m *MockLogger) Sync() error                          { return nil }

// MessagesAt returns the recorded messages of one level.
func (m *MockLogger) MessagesAt(level string) []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogMessage
	for _, msg := range m.Messages {
		if msg.Level == level {
			out = append(out, msg)
		}
	}
	return out
}
