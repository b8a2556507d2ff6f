// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package logging builds the zerolog logger of the stts22h monitor.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/GermanBionicSystems/sensors/internal/config"
	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Format "json" emits one JSON object
// per line, anything else a human readable console format. Unknown levels
// fall back to info.
func New(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out := w
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "stts22h").Logger()
}
