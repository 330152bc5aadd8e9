package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock of Logger for asserting what a session logs.
// Leveled methods record (msg, keysAndValues); With records its key-values
// spread out, so an expectation lists one argument per key and value.
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

// NewMockLogger returns a MockLogger without expectations.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Permissive stubs With to return m and accepts any Debug record, leaving
// only the Info, Warn and Error expectations to the test.
func (m *MockLogger) Permissive() *MockLogger {
	m.On("With", mock.Anything).Return(m).Maybe()
	for n := 2; n <= 8; n += 2 {
		args := make([]any, n)
		for i := range args {
			args[i] = mock.Anything
		}
		m.On("With", args...).Return(m).Maybe()
	}
	m.On("Debug", mock.Anything, mock.Anything).Maybe()

	return m
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) { m.Called(msg, keysAndValues) }
func (m *MockLogger) Info(msg string, keysAndValues ...any)  { m.Called(msg, keysAndValues) }
func (m *MockLogger) Warn(msg string, keysAndValues ...any)  { m.Called(msg, keysAndValues) }
func (m *MockLogger) Error(msg string, keysAndValues ...any) { m.Called(msg, keysAndValues) }
func (m *MockLogger) Fatal(msg string, keysAndValues ...any) { m.Called(msg, keysAndValues) }

func (m *MockLogger) SetLevel(level Level) {
	m.Called(level)
}

func (m *MockLogger) Level() Level {
	return m.Called().Get(0).(Level)
}

func (m *MockLogger) With(keyValues ...any) Logger {
	return m.Called(keyValues...).Get(0).(Logger)
}
