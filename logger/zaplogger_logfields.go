// zaplogger_logfields.go
package logger

import (
	"time"

	"go.uber.org/zap"
)

// LogRequestStart logs the initiation of a dispatched request, including the HTTP method, URL, and headers.
// Headers are expected to be redacted by the caller when sensitive data must be hidden.
func (d *defaultLogger) LogRequestStart(requestID string, method string, url string, headers map[string][]string) {
	if d.logLevel <= LogLevelDebug {
		fields := []zap.Field{
			zap.String("event", "request_start"),
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("url", url),
			zap.Any("headers", headers),
		}
		d.logger.Debug("HTTP request started", fields...)
	}
}

// LogRequestEnd logs the completion of a dispatched request, including the status code and duration.
func (d *defaultLogger) LogRequestEnd(requestID string, method string, url string, statusCode int, duration time.Duration) {
	if d.logLevel <= LogLevelInfo {
		fields := []zap.Field{
			zap.String("event", "request_end"),
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status_code", statusCode),
			zap.Duration("duration", duration),
		}
		d.logger.Info("HTTP request completed", fields...)
	}
}

// LogError logs an error that occurs during the processing of a request.
func (d *defaultLogger) LogError(event string, method string, url string, statusCode int, err error, rawResponse string) {
	if d.logLevel <= LogLevelError {
		errorMessage := ""
		if err != nil {
			errorMessage = err.Error()
		}
		fields := []zap.Field{
			zap.String("event", event),
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status_code", statusCode),
			zap.String("error_message", errorMessage),
			zap.String("raw_response", rawResponse),
		}
		d.logger.Error("Error during HTTP request", fields...)
	}
}

// LogTokenCapture logs that a refreshed token was observed in a response body and persisted.
// The token value itself is never logged.
func (d *defaultLogger) LogTokenCapture(requestID string, field string) {
	if d.logLevel <= LogLevelInfo {
		d.logger.Info("Refreshed token captured from response",
			zap.String("event", "token_capture"),
			zap.String("request_id", requestID),
			zap.String("field", field),
		)
	}
}

// LogAuthStateCleared logs that persisted auth state was cleared after a 401.
func (d *defaultLogger) LogAuthStateCleared(requestID string, url string, err error) {
	if d.logLevel <= LogLevelWarn {
		fields := []zap.Field{
			zap.String("event", "auth_state_cleared"),
			zap.String("request_id", requestID),
			zap.String("url", url),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		d.logger.Warn("Unauthorized response, persisted auth state cleared", fields...)
	}
}
