// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// stts22h reads a STTS22H temperature sensor periodically and publishes the
// readings to MQTT, InfluxDB, the terminal or a PNG gauge.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/sensors/gauge"
	"github.com/GermanBionicSystems/sensors/i2casync"
	"github.com/GermanBionicSystems/sensors/internal/config"
	"github.com/GermanBionicSystems/sensors/internal/logging"
	"github.com/GermanBionicSystems/sensors/internal/monitor"
	"github.com/GermanBionicSystems/sensors/internal/publish"
	"github.com/GermanBionicSystems/sensors/stts22h"
	"github.com/GermanBionicSystems/sensors/thermobar"
)

const shutdownTimeout = 2 * time.Second

func mainImpl() error {
	cfgPath := flag.String("config", "", "YAML configuration file")
	busName := flag.String("bus", "", "I²C bus to use, overrides sensor.bus")
	addr := flag.Uint("addr", 0, "I²C address of the sensor, overrides sensor.address")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Args())
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if err := override(cfg, *busName, *addr, *verbose); err != nil {
		return err
	}
	logger := logging.New(cfg.Logging, os.Stderr)

	ctrl, err := cfg.Sensor.Control()
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(cfg.Sensor.Bus)
	if err != nil {
		return fmt.Errorf("failed to open I²C: %w", err)
	}
	defer b.Close()

	bus := i2casync.New(b)
	defer bus.Close()
	dev, err := stts22h.New(bus, i2c.Addr(cfg.Sensor.Address))
	if err != nil {
		return err
	}
	logger.Info().Str("bus", b.String()).Str("device", dev.String()).Msg("opened")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, err := buildSinks(ctx, cfg, logger)
	if err != nil {
		for _, s := range sinks {
			_ = s.Close()
		}
		return err
	}

	m := monitor.New(dev, bus, monitor.Options{
		Name:          cfg.Sensor.Name,
		Control:       ctrl,
		LimitsEnabled: cfg.Sensor.Limits.Enabled,
		MinC:          cfg.Sensor.Limits.Min,
		MaxC:          cfg.Sensor.Limits.Max,
		Interval:      cfg.Poll.Interval,
		Step:          cfg.Poll.Step,
		Timeout:       cfg.Poll.Timeout,
	}, logger, sinks...)

	return run(ctx, m, logger)
}

// override applies the command line flags over cfg and validates the result.
func override(cfg *config.Config, busName string, addr uint, verbose bool) error {
	if busName != "" {
		cfg.Sensor.Bus = busName
	}
	if addr > 0x7f {
		return fmt.Errorf("-addr %#x is not a 7 bit I²C address", addr)
	}
	if addr != 0 {
		cfg.Sensor.Address = uint16(addr)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg.Validate()
}

// run sets the sensor up and measures until ctx is canceled. The sinks are
// closed on every path.
func run(ctx context.Context, m *monitor.Monitor, logger zerolog.Logger) error {
	if err := m.Setup(ctx); err != nil {
		if cerr := m.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("close")
		}
		return err
	}
	runErr := m.Run(ctx)

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := m.Shutdown(sctx); err != nil {
		logger.Warn().Err(err).Msg("shutdown")
	}
	return runErr
}

// buildSinks returns the configured outputs. On error the sinks built so
// far are returned for the caller to close.
func buildSinks(ctx context.Context, cfg *config.Config, logger zerolog.Logger) ([]publish.Sink, error) {
	var sinks []publish.Sink
	if cfg.MQTT.Enabled {
		s, err := publish.DialMQTT(cfg.MQTT)
		if err != nil {
			return sinks, err
		}
		logger.Info().Str("broker", cfg.MQTT.Broker).Str("topic", s.Topic(cfg.Sensor.Name)).Msg("mqtt connected")
		sinks = append(sinks, s)
	}
	if cfg.InfluxDB.Enabled {
		s, err := publish.DialInflux(ctx, cfg.InfluxDB, logger)
		if err != nil {
			return sinks, err
		}
		logger.Info().Str("url", cfg.InfluxDB.URL).Str("bucket", cfg.InfluxDB.Bucket).Msg("influxdb connected")
		sinks = append(sinks, s)
	}
	if cfg.Display.BarWidth > 0 {
		bar := thermobar.New(&thermobar.Opts{X: cfg.Display.BarWidth})
		sinks = append(sinks, barSink{bar})
	}
	if p := cfg.Display.PNG; p != "" {
		w, h := cfg.Display.PNGWidth, cfg.Display.PNGHeight
		sinks = append(sinks, publish.SinkFunc(func(r publish.Reading) error {
			return gauge.SavePNG(p, w, h, gaugeReading(r))
		}))
	}
	return sinks, nil
}

type barSink struct {
	d *thermobar.Dev
}

func (s barSink) Publish(r publish.Reading) error {
	return s.d.Show(celsius(r.Celsius))
}

func (s barSink) Close() error {
	return s.d.Halt()
}

func gaugeReading(r publish.Reading) gauge.Reading {
	return gauge.Reading{Temperature: celsius(r.Celsius), Overheated: r.Overheated, Overcooled: r.Overcooled}
}

func celsius(c float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Kelvin))
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "stts22h: %s.\n", err)
		os.Exit(1)
	}
}
