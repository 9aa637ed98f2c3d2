package logging_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/japaniel/podvocab/pkg/logging"
)

func newLogFile(t *testing.T) (string, func() string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "podvocab.log")
	return path, func() string {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		return string(data)
	}
}

func TestConsoleLogger(t *testing.T) {
	path, read := newLogFile(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ledger := logging.NewComponentLogger(logger, "ledger")
	ledger.Info("merged words", "count", 3, "path", "seen words.csv")
	ledger.Debug("hidden")

	out := read()
	if !strings.Contains(out, "INFO [ledger] merged words count=3 path=\"seen words.csv\"") {
		t.Fatalf("unexpected console line %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at info level: %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
}

func TestJSONLogger(t *testing.T) {
	path, read := newLogFile(t)
	logger, err := logging.New(logging.Options{Format: "json", Level: "warn", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("dropped")
	logger.With(logging.FieldRunID, "abc").Warn("ledger corrupt", logging.Error(errors.New("bad header")))

	lines := strings.Split(strings.TrimSpace(read()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %d: %v", len(lines), lines)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["level"] != "warn" || rec["msg"] != "ledger corrupt" || rec["run_id"] != "abc" || rec["error"] != "bad header" {
		t.Fatalf("unexpected record %v", rec)
	}
	if _, ok := rec["ts"]; !ok {
		t.Fatalf("expected ts key in %v", rec)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopAndLevels(t *testing.T) {
	logging.NewNop().Error("nothing happens")
	logging.NewComponentLogger(nil, "x").Info("still nothing")
	for _, lvl := range []string{"", "debug", "INFO", "warn", "error"} {
		if !logging.ValidLevel(lvl) {
			t.Errorf("expected %q to be valid", lvl)
		}
	}
	if logging.ValidLevel("verbose") {
		t.Error("verbose should be invalid")
	}
}
