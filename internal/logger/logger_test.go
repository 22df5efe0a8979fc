package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesRunLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "batch_run.log")

	for i := 0; i < 2; i++ {
		l, err := New(Options{RunLog: path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		WithJob(l, "acme", "").Info("job started", zap.Int("pass", i))
		l.Debug("hidden below info")
		_ = l.Sync()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected run log to be appended across runs, got %d lines:\n%s", len(lines), data)
	}

	for _, line := range lines {
		if !strings.Contains(line, "info") || !strings.Contains(line, "job started") || !strings.Contains(line, `"job_id": "acme"`) {
			t.Fatalf("unexpected run log line: %s", line)
		}
	}
}

func TestNewDebugIncludesDebugEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	l, err := New(Options{Debug: true, JSON: true, RunLog: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.Debug("prompt preview")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}

	if !strings.Contains(string(data), "prompt preview") {
		t.Fatalf("expected debug entry in run log: %s", data)
	}
}
