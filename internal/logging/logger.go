// Package logging builds the client's zap loggers. The interactive
// dashboard owns the terminal, so its logs go to a file under the dotdir;
// non-interactive commands log to stderr.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCLI returns a stderr logger for non-interactive commands.
func NewCLI(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// NewTUI returns a file logger writing to dir/logs/disha.log. The terminal
// is left to the TUI.
func NewTUI(dir string, debug bool) (*zap.Logger, error) {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(logDir, "disha.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// Nop returns a disabled logger for tests and optional wiring.
func Nop() *zap.Logger { return zap.NewNop() }
