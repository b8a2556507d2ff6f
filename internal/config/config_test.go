// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GermanBionicSystems/sensors/stts22h"
)

const sample = `
sensor:
  name: greenhouse
  bus: "1"
  address: 0x38
  averaging: 100hz
  block_data_update: true
  limits:
    enabled: true
    min: -10
    max: 45
poll:
  interval: 2s
  step: 10ms
  timeout: 250ms
logging:
  level: debug
  format: json
mqtt:
  enabled: true
  broker: tcp://broker:1883
  qos: 1
influxdb:
  enabled: true
  url: http://influx:8086
  org: home
  bucket: climate
display:
  bar_width: 20
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sensor.Name != "greenhouse" || cfg.Sensor.Bus != "1" || cfg.Sensor.Address != 0x38 {
		t.Errorf("sensor=%#v", cfg.Sensor)
	}
	if !cfg.Sensor.Limits.Enabled || cfg.Sensor.Limits.Min != -10 || cfg.Sensor.Limits.Max != 45 {
		t.Errorf("limits=%#v", cfg.Sensor.Limits)
	}
	if cfg.Poll.Interval != 2*time.Second || cfg.Poll.Step != 10*time.Millisecond || cfg.Poll.Timeout != 250*time.Millisecond {
		t.Errorf("poll=%#v", cfg.Poll)
	}
	// Unset keys keep their defaults.
	if !cfg.Sensor.Freerun || cfg.MQTT.TopicPrefix != "sensors" || cfg.Display.PNGWidth != 128 {
		t.Errorf("defaults lost: %#v", cfg)
	}
	c, err := cfg.Sensor.Control()
	if err != nil {
		t.Fatal(err)
	}
	want := (stts22h.CtrlAddrInc | stts22h.CtrlFreerun | stts22h.CtrlBDU).WithAveraging(stts22h.Avg100Hz)
	if c != want {
		t.Errorf("Control()=%#x, want %#x", c, want)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	c, err := cfg.Sensor.Control()
	if err != nil {
		t.Fatal(err)
	}
	if c != stts22h.CtrlAddrInc|stts22h.CtrlFreerun {
		t.Errorf("Control()=%#x", c)
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stts22h.yaml")
	if err := os.WriteFile(p, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"zero address":      func(c *Config) { c.Sensor.Address = 0 },
		"10 bit address":    func(c *Config) { c.Sensor.Address = 0x100 },
		"averaging":         func(c *Config) { c.Sensor.Averaging = "1kHz" },
		"limit floor":       func(c *Config) { c.Sensor.Limits = LimitsConfig{Enabled: true, Min: -50, Max: 10} },
		"limit ceiling":     func(c *Config) { c.Sensor.Limits = LimitsConfig{Enabled: true, Min: -10, Max: 130} },
		"inverted limits":   func(c *Config) { c.Sensor.Limits = LimitsConfig{Enabled: true, Min: 30, Max: 20} },
		"interval":          func(c *Config) { c.Poll.Interval = 0 },
		"step over timeout": func(c *Config) { c.Poll.Step = time.Second },
		"mqtt broker":       func(c *Config) { c.MQTT.Enabled, c.MQTT.Broker = true, "" },
		"mqtt qos":          func(c *Config) { c.MQTT.Enabled, c.MQTT.QoS = true, 3 },
		"influxdb bucket":   func(c *Config) { c.InfluxDB.Enabled = true },
		"bar width":         func(c *Config) { c.Display.BarWidth = -1 },
		"png size":          func(c *Config) { c.Display.PNG, c.Display.PNGWidth = "/tmp/x.png", 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate()=%v, want ErrInvalid", err)
			}
		})
	}
	// Disabled limits are not range checked.
	c := Default()
	c.Sensor.Limits = LimitsConfig{Min: -100, Max: 200}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("sensor: [")); err == nil {
		t.Error("expected error")
	}
	if _, err := Parse([]byte("poll:\n  interval: soon\n")); err == nil {
		t.Error("expected error for an invalid duration")
	}
}
