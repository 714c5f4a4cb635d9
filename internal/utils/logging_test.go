package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithComponent(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	observedZapCore, observedLogs := observer.New(zap.InfoLevel)
	Logger = zap.New(observedZapCore)

	componentLogger := WithComponent(ComponentManager)
	assert.NotNil(t, componentLogger)

	componentLogger.Info("test message", zap.String(FieldAction, "edit"))

	logs := observedLogs.All()
	assert.Equal(t, 1, len(logs))
	assert.Equal(t, "test message", logs[0].Message)

	contextMap := logs[0].ContextMap()
	assert.Equal(t, ComponentManager, contextMap["component"])
	assert.Equal(t, "edit", contextMap[FieldAction])
}

func TestWithComponent_DefaultNop(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	Logger = zap.NewNop()
	componentLogger := WithComponent("test_component")
	assert.NotNil(t, componentLogger)
	assert.NotPanics(t, func() { componentLogger.Info("dropped") })
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		expected zapcore.Level
	}{
		{name: "Empty defaults to info", env: "", expected: zapcore.InfoLevel},
		{name: "Debug", env: "debug", expected: zapcore.DebugLevel},
		{name: "Warn", env: "warn", expected: zapcore.WarnLevel},
		{name: "Unknown defaults to info", env: "loud", expected: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, levelFromEnv(tt.env))
		})
	}
}
