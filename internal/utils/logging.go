// internal/utils/logging.go
package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogFileName = "rule-bulk-actions.log"
	LogFileMode = 0644
)

// Logger is a no-op until Init runs so packages can log from tests.
var Logger = zap.NewNop()

// Init configures zap to write to the console and, unless LOG_FILE is "-",
// to a JSON log file. This should be called once at application startup.
func Init() error {
	level := levelFromEnv(os.Getenv("LOG_LEVEL"))

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level),
	}

	logPath := os.Getenv("LOG_FILE")
	if logPath == "" {
		logPath = LogFileName
	}
	if logPath != "-" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, LogFileMode)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", logPath, err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(logFile), level))
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	// DPanic only panics in development mode.
	if os.Getenv("LOG_DEVELOPMENT") == "true" {
		opts = append(opts, zap.Development())
	}
	Logger = zap.New(zapcore.NewTee(cores...), opts...)

	Logger.Info("logging initialized",
		zap.String(FieldLogLevel, level.String()),
		zap.String("log_file", logPath))

	return nil
}

// levelFromEnv parses a LOG_LEVEL value, defaulting to info.
func levelFromEnv(envLevel string) zapcore.Level {
	if envLevel == "" {
		return zapcore.InfoLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(envLevel)); err != nil {
		fmt.Printf("unknown LOG_LEVEL '%s', defaulting to 'info'\n", envLevel)
		return zapcore.InfoLevel
	}
	return level
}

// Sync flushes any buffered log entries.
func Sync() error {
	return Logger.Sync()
}

// WithComponent returns a logger pre-bound with a `component` field so callers
// don't have to repeat the same field across messages in a component.
func WithComponent(component string) *zap.Logger {
	return Logger.With(zap.String("component", component))
}
