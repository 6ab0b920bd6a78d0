package logging

import (
	"bytes"
	"sealgate/features"
	"strings"
	"testing"
)

func TestLoggerMinimalMode(t *testing.T) {
	originalMode := features.BuildMode
	originalFeatures := features.BuildFeatures
	defer func() {
		features.BuildMode = originalMode
		features.BuildFeatures = originalFeatures
		features.ResetCache()
	}()

	features.BuildMode = "demo"
	features.BuildFeatures = ""
	features.ResetCache()

	var buf bytes.Buffer
	logger := NewLogger()
	logger.infoLogger.SetOutput(&buf)
	logger.debugLogger.SetOutput(&buf)
	logger.startupLogger.SetOutput(&buf)

	logger.Debug("This should not appear")
	logger.Info("This should not appear either")
	logger.Startup("This should appear")

	output := buf.String()

	if strings.Contains(output, "DEBUG") {
		t.Error("Debug message appeared in minimal logging mode")
	}
	if strings.Contains(output, "INFO") {
		t.Error("Info message appeared in minimal logging mode")
	}
	if !strings.Contains(output, "STARTUP") {
		t.Error("Startup message did not appear in minimal logging mode")
	}
}

func TestLoggerFullMode(t *testing.T) {
	originalMode := features.BuildMode
	originalFeatures := features.BuildFeatures
	defer func() {
		features.BuildMode = originalMode
		features.BuildFeatures = originalFeatures
		features.ResetCache()
	}()

	features.BuildMode = "development"
	features.BuildFeatures = ""
	features.ResetCache()

	var buf bytes.Buffer
	logger := NewLogger()
	logger.infoLogger.SetOutput(&buf)
	logger.debugLogger.SetOutput(&buf)
	logger.warnLogger.SetOutput(&buf)
	logger.errorLogger.SetOutput(&buf)

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")
	logger.Error("error line")

	output := buf.String()

	for _, prefix := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		if !strings.Contains(output, prefix) {
			t.Errorf("%s message did not appear in full logging mode", prefix)
		}
	}
}

func TestLoggingMode(t *testing.T) {
	originalMode := features.BuildMode
	defer func() {
		features.BuildMode = originalMode
		features.ResetCache()
	}()

	features.BuildMode = "production"
	features.ResetCache()
	if got := LoggingMode(); got != "full" {
		t.Errorf("LoggingMode() = %q, want %q", got, "full")
	}

	features.BuildMode = "demo"
	features.ResetCache()
	if got := LoggingMode(); got != "minimal (startup only)" {
		t.Errorf("LoggingMode() = %q, want %q", got, "minimal (startup only)")
	}
}

func TestGetLoggerSingleton(t *testing.T) {
	a := GetLogger()
	b := GetLogger()
	if a != b {
		t.Error("GetLogger() returned different instances")
	}
}
