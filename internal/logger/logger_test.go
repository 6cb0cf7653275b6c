package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitWithLogFileCreatesDirectory(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "tandem.log")

	if err := Init(Config{Level: "debug", LogFile: logFile}); err != nil {
		t.Fatalf("Init() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		_ = Init(Config{Level: "info"})
	})

	if _, err := os.Stat(filepath.Dir(logFile)); err != nil {
		t.Fatalf("expected log directory to exist: %v", err)
	}

	Info("logger initialised", "file", logFile)
	if _, err := os.Stat(logFile); err != nil {
		t.Fatalf("expected log file to be written: %v", err)
	}
}

func TestInitFallsBackToInfoOnUnknownLevel(t *testing.T) {
	if err := Init(Config{Level: "chatty"}); err != nil {
		t.Fatalf("Init() unexpected error: %v", err)
	}
	if got := Get().GetLevel().String(); got != "info" {
		t.Fatalf("expected info level, got %q", got)
	}
}

func TestGetNeverReturnsNil(t *testing.T) {
	if Get() == nil {
		t.Fatal("expected default logger before Init")
	}
	Debug("debug message")
	Warn("warn message")
	Error("error message")
}

func TestWriterFollowsInit(t *testing.T) {
	if err := Init(Config{Level: "info"}); err != nil {
		t.Fatalf("Init() unexpected error: %v", err)
	}
	if Writer() != os.Stderr {
		t.Fatal("expected stderr writer without a log file")
	}

	logFile := filepath.Join(t.TempDir(), "access.log")
	if err := Init(Config{Level: "info", LogFile: logFile}); err != nil {
		t.Fatalf("Init() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		_ = Init(Config{Level: "info"})
	})

	if _, err := Writer().Write([]byte("GET /healthz 200\n")); err != nil {
		t.Fatalf("write access line: %v", err)
	}
	raw, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(raw) != "GET /healthz 200\n" {
		t.Fatalf("unexpected log file content %q", string(raw))
	}
}
