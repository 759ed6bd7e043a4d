package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/riteshkumar/clientes-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestNew_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggingConfig{Level: "info"})

	logger.Debug("hidden")
	logger.Info("account created successfully", "account_id", 1)

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line written at info level: %s", line)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("expected a json line, got %q: %v", line, err)
	}
	if record["msg"] != "account created successfully" || record["account_id"] != float64(1) {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, config.LoggingConfig{Level: "debug", Format: "text"}).Debug("probe", "status", 200)

	if got := buf.String(); !strings.Contains(got, "msg=probe") || !strings.Contains(got, "status=200") {
		t.Fatalf("unexpected text output %q", got)
	}
}
