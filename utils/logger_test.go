package utils

import (
	"testing"

	"turnero/config"

	"go.uber.org/zap/zapcore"
)

func TestInitializeLoggerHonorsConfiguredLevel(t *testing.T) {
	origLevel := config.AppConfig.LogLevel
	origLogger := Logger
	defer func() {
		config.AppConfig.LogLevel = origLevel
		Logger = origLogger
	}()

	config.AppConfig.LogLevel = "warn"
	InitializeLogger()

	if Logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled despite LOG_LEVEL=warn")
	}
	if !Logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn not enabled with LOG_LEVEL=warn")
	}
}

func TestInitializeLoggerIgnoresBadLevel(t *testing.T) {
	origLevel := config.AppConfig.LogLevel
	origLogger := Logger
	defer func() {
		config.AppConfig.LogLevel = origLevel
		Logger = origLogger
	}()

	config.AppConfig.LogLevel = "loud"
	InitializeLogger()

	if Logger == nil {
		t.Fatal("logger not built with an unparseable LOG_LEVEL")
	}
	if !Logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected the environment default level to apply")
	}
}
