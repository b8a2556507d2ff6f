// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package monitor is the polling loop around a stts22h device. The driver
// neither blocks nor times out; this package owns the schedule, the
// transaction timeout and the retry on the next tick.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/GermanBionicSystems/sensors/internal/publish"
	"github.com/GermanBionicSystems/sensors/stts22h"
)

var (
	ErrNotConnected = errors.New("monitor: sensor did not identify as STTS22H")
	ErrWriteFailed  = errors.New("monitor: register write failed")
	ErrNoData       = errors.New("monitor: no completed conversion yet")
)

// Sensor is the part of *stts22h.Dev the monitor drives.
type Sensor interface {
	ApplySettings(c stts22h.Control) error
	SetLimits(minC, maxC float64, enable bool) error
	CheckConnection() error
	IsConnected() bool
	StartMeasurement() error
	Poll()
	Busy() bool
	Err() error
	TemperatureC() float64
	TemperatureF() float64
	IsOverheated() bool
	IsOvercooled() bool
	Halt() error
}

// Transport reports the progress of the writes the Sensor does not track.
type Transport interface {
	WriteInProgress() bool
	LastFailed() bool
}

// Options configures a Monitor.
type Options struct {
	// Name is the device name attached to readings.
	Name    string
	Control stts22h.Control
	// Limits in °C, programmed only when LimitsEnabled is set.
	LimitsEnabled bool
	MinC, MaxC    float64
	// Interval between measurements.
	Interval time.Duration
	// Step between two polls of a running transaction.
	Step time.Duration
	// Timeout bounds one transaction.
	Timeout time.Duration
}

// Monitor measures periodically and hands the readings to its sinks.
type Monitor struct {
	s     Sensor
	t     Transport
	opts  Options
	log   zerolog.Logger
	sinks []publish.Sink
	now   func() time.Time
}

// New returns a Monitor for s whose transport is t.
func New(s Sensor, t Transport, opts Options, log zerolog.Logger, sinks ...publish.Sink) *Monitor {
	return &Monitor{s: s, t: t, opts: opts, log: log, sinks: sinks, now: time.Now}
}

// Setup writes the control and threshold registers and verifies the device
// identity.
func (m *Monitor) Setup(ctx context.Context) error {
	if err := m.s.ApplySettings(m.opts.Control); err != nil {
		return fmt.Errorf("monitor: apply settings: %w", err)
	}
	if err := m.waitWrite(ctx); err != nil {
		return fmt.Errorf("monitor: apply settings: %w", err)
	}
	// Disabled limits clear both registers; the configured values are not
	// range checked then.
	minC, maxC := 0.0, 0.0
	if m.opts.LimitsEnabled {
		minC, maxC = m.opts.MinC, m.opts.MaxC
	}
	if err := m.s.SetLimits(minC, maxC, m.opts.LimitsEnabled); err != nil {
		return fmt.Errorf("monitor: set limits: %w", err)
	}
	if err := m.waitWrite(ctx); err != nil {
		return fmt.Errorf("monitor: set limits: %w", err)
	}
	if m.opts.LimitsEnabled {
		m.log.Info().
			Float64("low", stts22h.ThresholdToCelsius(stts22h.ThresholdByte(m.opts.MinC))).
			Float64("high", stts22h.ThresholdToCelsius(stts22h.ThresholdByte(m.opts.MaxC))).
			Msg("thresholds programmed")
	}
	if err := m.s.CheckConnection(); err != nil {
		return fmt.Errorf("monitor: check connection: %w", err)
	}
	if err := m.waitIdle(ctx); err != nil {
		return fmt.Errorf("monitor: check connection: %w", err)
	}
	if err := m.s.Err(); err != nil {
		return fmt.Errorf("monitor: check connection: %w", err)
	}
	if !m.s.IsConnected() {
		return ErrNotConnected
	}
	m.log.Info().Str("device", m.opts.Name).Uint8("control", uint8(m.opts.Control)).Msg("sensor ready")
	return nil
}

// Measure runs one measurement. A transaction left running by a previous
// timeout is resumed instead of starting a new one.
func (m *Monitor) Measure(ctx context.Context) (publish.Reading, error) {
	if !m.s.Busy() {
		if err := m.s.StartMeasurement(); err != nil {
			return publish.Reading{}, fmt.Errorf("monitor: start measurement: %w", err)
		}
	}
	if err := m.waitIdle(ctx); err != nil {
		return publish.Reading{}, fmt.Errorf("monitor: measurement: %w", err)
	}
	if err := m.s.Err(); err != nil {
		return publish.Reading{}, fmt.Errorf("monitor: measurement: %w", err)
	}
	if m.s.TemperatureC() == stts22h.AbsoluteZero {
		return publish.Reading{}, ErrNoData
	}
	return publish.Reading{
		Device:     m.opts.Name,
		Celsius:    m.s.TemperatureC(),
		Fahrenheit: m.s.TemperatureF(),
		Overheated: m.s.IsOverheated(),
		Overcooled: m.s.IsOvercooled(),
		Time:       m.now(),
	}, nil
}

// Run measures every Interval until ctx is canceled. Failed measurements
// are logged and retried on the next tick.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()
	for {
		m.tick(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	r, err := m.Measure(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.log.Warn().Err(err).Msg("measurement failed")
		}
		return
	}
	m.log.Debug().
		Float64("celsius", r.Celsius).
		Bool("overheated", r.Overheated).
		Bool("overcooled", r.Overcooled).
		Msg("measurement")
	for _, s := range m.sinks {
		if err := s.Publish(r); err != nil {
			m.log.Warn().Err(err).Msg("publish failed")
		}
	}
}

// Shutdown powers the sensor down and closes the sinks.
func (m *Monitor) Shutdown(ctx context.Context) error {
	var errs []error
	if m.s.Busy() {
		if err := m.waitIdle(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.s.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("monitor: halt: %w", err))
	} else if err := m.waitWrite(ctx); err != nil {
		errs = append(errs, fmt.Errorf("monitor: halt: %w", err))
	}
	if err := m.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close closes the sinks without touching the sensor.
func (m *Monitor) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// waitIdle polls the sensor until its transaction completed.
func (m *Monitor) waitIdle(ctx context.Context) error {
	return m.wait(ctx, func() bool {
		m.s.Poll()
		return !m.s.Busy()
	})
}

// waitWrite waits for the transport to finish the last combined write.
func (m *Monitor) waitWrite(ctx context.Context) error {
	if err := m.wait(ctx, func() bool { return !m.t.WriteInProgress() }); err != nil {
		return err
	}
	if m.t.LastFailed() {
		return ErrWriteFailed
	}
	return nil
}

func (m *Monitor) wait(ctx context.Context, done func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()
	ticker := time.NewTicker(m.opts.Step)
	defer ticker.Stop()
	for !done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
