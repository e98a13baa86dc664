package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	logger.Info("hello", "answer", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["answer"] != float64(42) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "debug", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	logger.Debug("detail")
	if !strings.Contains(buf.String(), "msg=detail") {
		t.Errorf("unexpected text output: %q", buf.String())
	}
}

func TestSetup_LevelFiltersBelow(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info was emitted at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn was suppressed")
	}
}

func TestSetup_InvalidInputs(t *testing.T) {
	if _, err := Setup(Config{Level: "verbose"}); err == nil {
		t.Error("expected an error for an invalid level")
	}
	if _, err := Setup(Config{Format: "xml"}); err == nil {
		t.Error("expected an error for an invalid format")
	}
}

func TestSetup_InstallsDefault(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Config{Writer: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Info("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger not installed: %q", buf.String())
	}
}
