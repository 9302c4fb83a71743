// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the daemon's dual-sink logger: info and above to
// both stdout and a log file, structured via slog.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Setup opens (or creates) the log file at path and returns a logger that
// writes every record to both stdout and the file. The returned closer
// releases the file handle; the process exiting releases it anyway, but
// tests want the explicit close.
func Setup(path string) (*slog.Logger, io.Closer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %q: %w", path, err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, file), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(handler), file, nil
}
