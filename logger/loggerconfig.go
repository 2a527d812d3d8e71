// loggerconfig.go
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogOutputJSON   = "json"
	LogOutputPretty = "pretty"
)

// BuildLogger creates and returns a new zap backed Logger.
// encoding is either "json" or "pretty"; pretty maps to zap's console encoder using logConsoleSeparator.
// When logExportPath is non-empty, logs are also written to a file under that path.
// The function panics if the logger cannot be initialized.
func BuildLogger(logLevel LogLevel, encoding string, logConsoleSeparator string, logExportPath string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder
	encoderCfg.MessageKey = "msg"
	encoderCfg.LevelKey = "level"

	zapEncoding := "json"
	if encoding == LogOutputPretty {
		zapEncoding = "console"
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderCfg.ConsoleSeparator = logConsoleSeparator
	}

	outputPaths := []string{"stdout"}
	if logExportPath != "" {
		logFile, err := EnsureLogFilePath(logExportPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to prepare log export path: %v", err))
		}
		outputPaths = append(outputPaths, logFile)
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(convertToZapLevel(logLevel)),
		Development:       false,
		Encoding:          zapEncoding,
		DisableCaller:     true,
		DisableStacktrace: true,
		Sampling:          nil,
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputPaths,
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	wrappedLogger := zap.New(&customCore{logger.Core()})

	return &defaultLogger{
		logger:   wrappedLogger,
		logLevel: logLevel,
	}
}

// convertToZapLevel converts the custom LogLevel to a zapcore.Level
func convertToZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zap.DebugLevel
	case LogLevelInfo:
		return zap.InfoLevel
	case LogLevelWarn:
		return zap.WarnLevel
	case LogLevelError:
		return zap.ErrorLevel
	case LogLevelDPanic:
		return zap.DPanicLevel
	case LogLevelPanic:
		return zap.PanicLevel
	case LogLevelFatal:
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
