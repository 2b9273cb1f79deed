package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		opts Options
		want logrus.Level
	}{
		{Options{}, logrus.InfoLevel},
		{Options{Level: "warn"}, logrus.WarnLevel},
		{Options{Level: "chatty"}, logrus.InfoLevel},
		{Options{Level: "error", Verbose: true}, logrus.DebugLevel},
	}
	for _, tt := range tests {
		logger, closeFn, err := New(tt.opts)
		if err != nil {
			t.Fatalf("New(%+v): %v", tt.opts, err)
		}
		if logger.GetLevel() != tt.want {
			t.Errorf("New(%+v) level = %s, want %s", tt.opts, logger.GetLevel(), tt.want)
		}
		closeFn()
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "importer.log")
	logger, closeFn, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.WithField("file", "march.xlsx").Info("imported")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if entry["msg"] != "imported" || entry["file"] != "march.xlsx" {
		t.Errorf("entry = %v", entry)
	}
}
