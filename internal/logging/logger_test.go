package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTUI_WritesToFileOnly(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewTUI(dir, true)
	if err != nil {
		t.Fatalf("NewTUI: %v", err)
	}
	logger.Info("dashboard started")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "disha.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "dashboard started") {
		t.Fatalf("log entry missing: %s", data)
	}
}

func TestNewCLI_Builds(t *testing.T) {
	logger, err := NewCLI(false)
	if err != nil {
		t.Fatalf("NewCLI: %v", err)
	}
	_ = logger.Sync()
}
