// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package publish fans sensor readings out to telemetry backends.
package publish

import "time"

// Reading is one completed measurement.
type Reading struct {
	Device     string    `json:"device"`
	Celsius    float64   `json:"celsius"`
	Fahrenheit float64   `json:"fahrenheit"`
	Overheated bool      `json:"overheated"`
	Overcooled bool      `json:"overcooled"`
	Time       time.Time `json:"time"`
}

// Sink receives readings.
type Sink interface {
	Publish(r Reading) error
	Close() error
}

// SinkFunc adapts a function to a Sink with nothing to close.
type SinkFunc func(r Reading) error

func (f SinkFunc) Publish(r Reading) error { return f(r) }
func (f SinkFunc) Close() error            { return nil }
