package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenDebugLog returns the logger used for developer traces. With verbose
// off the logger discards everything; with verbose on it appends to
// ~/.ragchat/debug.log so the TUI's screen is never written to. If the log
// cannot be opened the logger discards and the error is returned for the
// caller to report.
func OpenDebugLog(cfg Config) (*slog.Logger, func(), error) {
	noop := func() {}
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if !cfg.Verbose {
		return discard, noop, nil
	}

	dir, err := EnsureConfigDir()
	if err != nil {
		return discard, noop, fmt.Errorf("debug log disabled: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return discard, noop, fmt.Errorf("debug log disabled: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
