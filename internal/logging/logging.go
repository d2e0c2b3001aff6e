package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// New returns a file-backed logger. The TUI owns stdout, so diagnostics go
// to the given path instead. When the file cannot be opened the returned
// logger is a nop; the monitor never fails to start over its own log file.
func New(path string) *zap.Logger {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
