package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "katch.log")
	logger := New(Options{LogFile: path})

	logger.Info("catalog fetched", "category", "anime", "items", 36)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))

	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if record["msg"] != "catalog fetched" || record["category"] != "anime" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestNewDebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	if New(Options{LogFile: path}).Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled by default")
	}
	if !New(Options{LogFile: path, Debug: true}).Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be enabled")
	}
}
