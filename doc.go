// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensors is a container for a non-blocking STTS22H temperature
// sensor driver and the tooling around it.
//
// stts22h is the driver, i2casync adapts any periph i2c.Bus to the
// transport it polls, thermobar and gauge render readings, and
// cmd/stts22h runs a monitor publishing to MQTT and InfluxDB.
package sensors
