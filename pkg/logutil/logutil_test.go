package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, closeFn, err := Setup(Options{LogFile: path})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	logger.Info("report run started", "zones", 3)
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "report run started") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestSetup_AppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	for i := 0; i < 2; i++ {
		logger, closeFn, err := Setup(Options{LogFile: path})
		if err != nil {
			t.Fatalf("setup %d failed: %v", i, err)
		}
		logger.Info("run", "n", i)
		_ = closeFn()
	}

	data, _ := os.ReadFile(path)
	if got := strings.Count(string(data), "msg=run"); got != 2 {
		t.Errorf("expected 2 entries after 2 runs, got %d", got)
	}
}

func TestSetup_DebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, closeFn, err := Setup(Options{Debug: true, LogFile: path})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	logger.Debug("api call", "url", "/api/v2/securityProblems")
	_ = closeFn()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "api call") {
		t.Error("debug entries must be written when Debug is set")
	}

	// Without Debug, DEBUG entries are dropped.
	logger, closeFn, err = Setup(Options{LogFile: path})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	logger.Debug("hidden")
	_ = closeFn()

	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entries must be dropped at INFO level")
	}
}
