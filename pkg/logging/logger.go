// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for pipeline components.
//
// Services log JSON to stdout so container log collectors can parse them;
// CLI tools log human-readable text to stderr following Unix conventions.
// Everything is built on the standard library slog package.
//
// Basic usage:
//
//	logger := logging.New(logging.Config{Service: "analyzer", JSON: true})
//	slog.SetDefault(logger)
//	slog.Info("starting", "port", port)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls handler construction.
type Config struct {
	// Level is the minimum severity. Accepts "debug", "info", "warn",
	// "error"; empty means info. The LOG_LEVEL environment variable
	// overrides it so deployments can turn on debug without a rebuild.
	Level string

	// Service is stamped on every record as the "service" attribute.
	Service string

	// JSON selects the JSON handler (services). Text otherwise (CLIs).
	JSON bool

	// Writer overrides the destination. Defaults to stdout for JSON and
	// stderr for text.
	Writer io.Writer
}

// New builds a slog.Logger from the config.
func New(cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = parseLevel(env)
	}

	w := cfg.Writer
	if w == nil {
		if cfg.JSON {
			w = os.Stdout
		} else {
			w = os.Stderr
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With(slog.String("service", cfg.Service))
	}
	return logger
}

// Default returns a text logger on stderr at info level.
func Default() *slog.Logger {
	return New(Config{})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
