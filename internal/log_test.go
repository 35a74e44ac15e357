package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger := NewLogger(LogLevelInfo)

	out := capture(t, func() {
		logger.Debug("hidden %d", 1)
		logger.Info("shown %d", 2)
		logger.Error("always %d", 3)
	})

	if strings.Contains(out, "hidden") {
		t.Error("debug line should be dropped at info level")
	}
	if !strings.Contains(out, "[INFO] shown 2") {
		t.Errorf("info line missing, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] always 3") {
		t.Errorf("error line missing, got %q", out)
	}
}

func TestLogger_ErrorOnlyLevel(t *testing.T) {
	logger := NewLogger(LogLevelError)

	out := capture(t, func() {
		logger.Warn("noise")
		logger.Info("noise")
		logger.Error("kept")
	})

	if strings.Contains(out, "noise") {
		t.Errorf("only errors should pass at error level, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] kept") {
		t.Errorf("error line missing, got %q", out)
	}
}

func TestNewDefaultLogger_EnvLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger := NewDefaultLogger()

	out := capture(t, func() {
		logger.Debug("visible")
	})
	if !strings.Contains(out, "[DEBUG] visible") {
		t.Errorf("LOG_LEVEL=debug should enable debug lines, got %q", out)
	}

	t.Setenv("LOG_LEVEL", "bogus")
	fallback := NewDefaultLogger()
	out = capture(t, func() {
		fallback.Debug("hidden")
		fallback.Info("shown")
	})
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unknown LOG_LEVEL should fall back to info, got %q", out)
	}
}
