// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the YAML configuration of the stts22h monitor.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GermanBionicSystems/sensors/stts22h"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of the configuration file.
type Config struct {
	Sensor   SensorConfig   `yaml:"sensor"`
	Poll     PollConfig     `yaml:"poll"`
	Logging  LoggingConfig  `yaml:"logging"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Display  DisplayConfig  `yaml:"display"`
}

// SensorConfig selects the device and its control register.
type SensorConfig struct {
	// Name identifies the sensor in telemetry.
	Name string `yaml:"name"`
	// Bus is the periph I²C bus name, empty for the first one.
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	// Averaging is one of 25Hz, 50Hz, 100Hz or 200Hz.
	Averaging           string       `yaml:"averaging"`
	Freerun             bool         `yaml:"freerun"`
	LowODR              bool         `yaml:"low_odr"`
	BlockDataUpdate     bool         `yaml:"block_data_update"`
	SMBusTimeoutDisable bool         `yaml:"smbus_timeout_disable"`
	Limits              LimitsConfig `yaml:"limits"`
}

// LimitsConfig holds the threshold interrupt settings in °C.
type LimitsConfig struct {
	Enabled bool    `yaml:"enabled"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

// PollConfig drives the measurement loop.
type PollConfig struct {
	// Interval between measurements.
	Interval time.Duration `yaml:"interval"`
	// Step between two Poll calls while a transaction is running.
	Step time.Duration `yaml:"step"`
	// Timeout bounds a single transaction.
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Broker      string        `yaml:"broker"`
	ClientID    string        `yaml:"client_id"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	TopicPrefix string        `yaml:"topic_prefix"`
	QoS         byte          `yaml:"qos"`
	Retain      bool          `yaml:"retain"`
	Timeout     time.Duration `yaml:"timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool          `yaml:"enabled"`
	URL           string        `yaml:"url"`
	Token         string        `yaml:"token"`
	Org           string        `yaml:"org"`
	Bucket        string        `yaml:"bucket"`
	BatchSize     uint          `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// DisplayConfig selects the local outputs.
type DisplayConfig struct {
	// BarWidth is the number of cells of the terminal bar, 0 disables it.
	BarWidth int `yaml:"bar_width"`
	// PNG is rewritten with a rendered gauge after each measurement.
	PNG       string `yaml:"png"`
	PNGWidth  int    `yaml:"png_width"`
	PNGHeight int    `yaml:"png_height"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			Name:      "stts22h",
			Address:   uint16(stts22h.DefaultAddress),
			Averaging: "25Hz",
			Freerun:   true,
		},
		Poll: PollConfig{
			Interval: time.Second,
			Step:     5 * time.Millisecond,
			Timeout:  500 * time.Millisecond,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "stts22h",
			TopicPrefix: "sensors",
			Retain:      true,
			Timeout:     5 * time.Second,
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			BatchSize:     100,
			FlushInterval: 10 * time.Second,
		},
		Display: DisplayConfig{PNGWidth: 128, PNGHeight: 64},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a driver or client would reject later.
func (c *Config) Validate() error {
	if c.Sensor.Address == 0 || c.Sensor.Address > 0x7f {
		return fmt.Errorf("%w: sensor.address %#x", ErrInvalid, c.Sensor.Address)
	}
	if _, err := ParseAveraging(c.Sensor.Averaging); err != nil {
		return err
	}
	if l := c.Sensor.Limits; l.Enabled {
		if l.Min < stts22h.MinLimit || l.Max > stts22h.MaxLimit || l.Min >= l.Max {
			return fmt.Errorf("%w: sensor.limits %g..%g outside %g..%g", ErrInvalid, l.Min, l.Max, stts22h.MinLimit, stts22h.MaxLimit)
		}
	}
	if c.Poll.Interval <= 0 || c.Poll.Step <= 0 || c.Poll.Timeout <= 0 {
		return fmt.Errorf("%w: poll durations must be positive", ErrInvalid)
	}
	if c.Poll.Step > c.Poll.Timeout {
		return fmt.Errorf("%w: poll.step %s exceeds poll.timeout %s", ErrInvalid, c.Poll.Step, c.Poll.Timeout)
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("%w: mqtt.broker is required", ErrInvalid)
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("%w: mqtt.qos %d", ErrInvalid, c.MQTT.QoS)
		}
	}
	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "") {
		return fmt.Errorf("%w: influxdb.url, org and bucket are required", ErrInvalid)
	}
	if c.Display.BarWidth < 0 {
		return fmt.Errorf("%w: display.bar_width %d", ErrInvalid, c.Display.BarWidth)
	}
	if c.Display.PNG != "" && (c.Display.PNGWidth <= 0 || c.Display.PNGHeight <= 0) {
		return fmt.Errorf("%w: display png size %dx%d", ErrInvalid, c.Display.PNGWidth, c.Display.PNGHeight)
	}
	return nil
}

// ParseAveraging converts the configuration name of an averaging setting.
func ParseAveraging(s string) (stts22h.Averaging, error) {
	for _, a := range []stts22h.Averaging{stts22h.Avg25Hz, stts22h.Avg50Hz, stts22h.Avg100Hz, stts22h.Avg200Hz} {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: averaging %q", ErrInvalid, s)
}

// Control returns the control register value. Address auto increment is
// always set since measurements read three registers in one burst.
func (s SensorConfig) Control() (stts22h.Control, error) {
	a, err := ParseAveraging(s.Averaging)
	if err != nil {
		return 0, err
	}
	c := stts22h.CtrlAddrInc
	if s.Freerun {
		c |= stts22h.CtrlFreerun
	}
	if s.LowODR {
		c |= stts22h.CtrlLowODRStart
	}
	if s.BlockDataUpdate {
		c |= stts22h.CtrlBDU
	}
	if s.SMBusTimeoutDisable {
		c |= stts22h.CtrlTimeoutDisable
	}
	return c.WithAveraging(a), nil
}
