// mocklogger/mocklogger.go
package mocklogger

import (
	"errors"
	"time"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockLogger is a mock type for the Logger interface, embedding a *zap.Logger to satisfy the type requirement.
// Every logging call is recorded with testify/mock, so tests must register expectations
// (typically with mock.Anything for the field slice) for each method they exercise.
type MockLogger struct {
	mock.Mock
	*zap.Logger
	logLevel logger.LogLevel
}

// NewMockLogger creates a new instance of MockLogger with an embedded no-op *zap.Logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		Logger: zap.NewNop(),
	}
}

var _ logger.Logger = (*MockLogger)(nil)

// GetLogLevel returns the level last set with SetLevel.
func (m *MockLogger) GetLogLevel() logger.LogLevel {
	return m.logLevel
}

// SetLevel sets the logging level of the MockLogger. It is not recorded as a call.
func (m *MockLogger) SetLevel(level logger.LogLevel) {
	m.logLevel = level
}

// With records the call and returns the same mock so expectations keep applying.
func (m *MockLogger) With(fields ...zap.Field) logger.Logger {
	m.Called(fields)
	return m
}

func (m *MockLogger) Debug(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

// Error logs a message at the Error level and returns an error.
// When no return value is registered the message itself is returned as the error.
func (m *MockLogger) Error(msg string, fields ...zap.Field) error {
	args := m.Called(msg, fields)
	if len(args) > 0 {
		return args.Error(0)
	}
	return errors.New(msg)
}

func (m *MockLogger) Panic(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields ...zap.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) LogRequestStart(requestID string, method string, url string, headers map[string][]string) {
	m.Called(requestID, method, url, headers)
}

func (m *MockLogger) LogRequestEnd(requestID string, method string, url string, statusCode int, duration time.Duration) {
	m.Called(requestID, method, url, statusCode, duration)
}

func (m *MockLogger) LogError(event string, method string, url string, statusCode int, err error, rawResponse string) {
	m.Called(event, method, url, statusCode, err, rawResponse)
}

func (m *MockLogger) LogTokenCapture(requestID string, field string) {
	m.Called(requestID, field)
}

func (m *MockLogger) LogAuthStateCleared(requestID string, url string, err error) {
	m.Called(requestID, url, err)
}
