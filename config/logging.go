// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"strings"

	"github.com/gookit/slog"
)

// ApplyLogging configures the default slog logger from the log section.
// Call after ValidateConfig; unknown values fall back to info and text.
func ApplyLogging(lc LogConfig) {
	slog.SetLogLevel(logLevel(lc.Level))
	if strings.EqualFold(lc.Format, "json") {
		slog.SetFormatter(slog.NewJSONFormatter())
		return
	}
	slog.SetFormatter(slog.NewTextFormatter())
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.DebugLevel
	case "warn":
		return slog.WarnLevel
	case "error":
		return slog.ErrorLevel
	default:
		return slog.InfoLevel
	}
}
