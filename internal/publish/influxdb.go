// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package publish

import (
	"context"
	"errors"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/GermanBionicSystems/sensors/internal/config"
)

var ErrInfluxUnhealthy = errors.New("publish: influxdb not healthy")

// Measurement is the InfluxDB measurement name of the points.
const Measurement = "temperature"

// InfluxSink writes readings through the non-blocking, batching write API.
// Asynchronous write errors are logged.
type InfluxSink struct {
	client influxdb2.Client
	w      api.WriteAPI
}

// DialInflux connects to the server of cfg and checks it answers.
func DialInflux(ctx context.Context, cfg config.InfluxDBConfig, log zerolog.Logger) (*InfluxSink, error) {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(cfg.BatchSize).
			SetFlushInterval(uint(cfg.FlushInterval.Milliseconds())))
	ok, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("publish: influxdb ping: %w", err)
	}
	if !ok {
		client.Close()
		return nil, ErrInfluxUnhealthy
	}
	w := client.WriteAPI(cfg.Org, cfg.Bucket)
	go func() {
		for err := range w.Errors() {
			log.Warn().Err(err).Msg("influxdb write failed")
		}
	}()
	return &InfluxSink{client: client, w: w}, nil
}

// Point converts a reading into an InfluxDB point.
func Point(r Reading) *write.Point {
	return write.NewPoint(
		Measurement,
		map[string]string{"device": r.Device},
		map[string]interface{}{
			"celsius":    r.Celsius,
			"fahrenheit": r.Fahrenheit,
			"overheated": r.Overheated,
			"overcooled": r.Overcooled,
		},
		r.Time,
	)
}

func (s *InfluxSink) Publish(r Reading) error {
	s.w.WritePoint(Point(r))
	return nil
}

// Close flushes pending points and closes the client.
func (s *InfluxSink) Close() error {
	s.w.Flush()
	s.client.Close()
	return nil
}
