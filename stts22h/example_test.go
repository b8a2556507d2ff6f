// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stts22h_test

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/sensors/i2casync"
	"github.com/GermanBionicSystems/sensors/stts22h"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	bus := i2casync.New(b)
	defer bus.Close()

	d, err := stts22h.New(bus, stts22h.DefaultAddress)
	if err != nil {
		log.Fatal(err)
	}
	if err := d.ApplySettings(stts22h.CtrlFreerun | stts22h.CtrlAddrInc); err != nil {
		log.Fatal(err)
	}
	// Combined writes are not tracked by the device, wait for the transport.
	for bus.WriteInProgress() {
		time.Sleep(time.Millisecond)
	}

	if err := d.StartMeasurement(); err != nil {
		log.Fatal(err)
	}
	// A real application polls from its main loop instead of spinning.
	for d.Busy() {
		d.Poll()
		time.Sleep(time.Millisecond)
	}
	if err := d.Err(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.2f°C %.2f°F\n", d.TemperatureC(), d.TemperatureF())
}
