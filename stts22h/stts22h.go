// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stts22h

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the address selected when the ADDR pin is tied to VDD.
// Other strap options are 0x38, 0x3E and 0x3F.
const DefaultAddress i2c.Addr = 0x3C

const (
	whoAmILen  = 1
	measureLen = 3
)

// Bus is a non-blocking I²C transport. Every method returns immediately;
// completion is observed through ReadInProgress, WriteInProgress and
// LastFailed. Received returns the payload of the last completed Read.
//
// i2casync.Bus implements it on top of any periph i2c.Bus.
type Bus interface {
	// WriteRegisterAddress sends reg and keeps the bus for the following Read.
	WriteRegisterAddress(addr uint16, reg byte) error
	// Write sends w. When hold is true the bus is kept for the following Read.
	Write(addr uint16, w []byte, hold bool) error
	// Read requests n bytes.
	Read(addr uint16, n int) error
	ReadInProgress() bool
	WriteInProgress() bool
	LastFailed() bool
	Received() []byte
}

// State is the phase of the read transaction in flight.
type State int

const (
	// Idle means no transaction is outstanding.
	Idle State = iota
	// AwaitingAddressWrite means the register address was submitted.
	AwaitingAddressWrite
	// AwaitingPayloadRead means the address was sent and the payload read
	// was submitted.
	AwaitingPayloadRead
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AwaitingAddressWrite:
		return "AwaitingAddressWrite"
	case AwaitingPayloadRead:
		return "AwaitingPayloadRead"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Dev is a handle to a STTS22H sensor.
//
// Dev is not safe for concurrent use. It is meant to be driven from a
// single polling loop.
type Dev struct {
	bus  Bus
	addr uint16

	initialized bool
	connected   bool

	state      State
	pending    byte
	pendingLen int
	err        error

	settings Control
	status   Status
	tempC    float64
}

// New returns a STTS22H sensor on bus b at address addr. It does not talk to
// the device; use CheckConnection to verify it answers.
func New(b Bus, addr i2c.Addr) (*Dev, error) {
	if b == nil || addr == 0 {
		return nil, ErrInvalidArgument
	}
	return &Dev{bus: b, addr: uint16(addr), tempC: AbsoluteZero, initialized: true}, nil
}

// CheckConnection starts reading the WHOAMI register. IsConnected reflects
// the result once Poll completed the transaction.
func (d *Dev) CheckConnection() error {
	return d.begin(_REGISTER_WHOAMI, whoAmILen)
}

// IsConnected returns the result of the last completed CheckConnection.
func (d *Dev) IsConnected() bool {
	return d.connected
}

// ApplySettings writes the control register. The value is mirrored in
// Settings once the transport accepted the write.
func (d *Dev) ApplySettings(c Control) error {
	if err := d.writable(); err != nil {
		return err
	}
	if err := d.bus.Write(d.addr, []byte{_REGISTER_CTRL, byte(c)}, false); err != nil {
		return err
	}
	d.settings = c
	return nil
}

// SetLimits programs the high and low thresholds in °C. When enable is false
// both registers are cleared, which disables the threshold interrupts.
//
// minC must be at least MinLimit and maxC at most MaxLimit. When enable is
// set, both must also lie within that range and minC must not exceed maxC.
func (d *Dev) SetLimits(minC, maxC float64, enable bool) error {
	if err := d.writable(); err != nil {
		return err
	}
	if math.IsNaN(minC) || math.IsNaN(maxC) || minC < MinLimit || maxC > MaxLimit {
		return fmt.Errorf("%w: limits %g..%g outside %g..%g", ErrInvalidArgument, minC, maxC, MinLimit, MaxLimit)
	}
	w := []byte{_REGISTER_TEMP_H_LIMIT, 0, 0}
	if enable {
		if maxC < MinLimit || minC > MaxLimit || minC > maxC {
			return fmt.Errorf("%w: limits %g..%g outside %g..%g", ErrInvalidArgument, minC, maxC, MinLimit, MaxLimit)
		}
		w[1] = ThresholdByte(maxC)
		w[2] = ThresholdByte(minC)
	}
	return d.bus.Write(d.addr, w, false)
}

// StartMeasurement starts reading the status and both temperature registers
// in one burst. The control register needs CtrlAddrInc for the burst to
// cover the three registers.
func (d *Dev) StartMeasurement() error {
	return d.begin(_REGISTER_STATUS, measureLen)
}

// Poll advances the transaction in flight by at most one phase. It never
// blocks and does nothing while the transport is busy.
//
// Failures detected here abort the transaction and are reported by Err.
func (d *Dev) Poll() {
	if !d.initialized || d.state == Idle {
		return
	}
	if d.bus.ReadInProgress() || d.bus.WriteInProgress() {
		return
	}
	switch d.state {
	case AwaitingAddressWrite:
		if d.bus.LastFailed() {
			d.abort(ErrTransferFailed)
			return
		}
		if err := d.bus.Read(d.addr, d.pendingLen); err != nil {
			d.abort(err)
			return
		}
		d.state = AwaitingPayloadRead
	case AwaitingPayloadRead:
		d.state = Idle
		if d.bus.LastFailed() {
			d.err = ErrTransferFailed
			return
		}
		data := d.bus.Received()
		if len(data) < d.pendingLen {
			d.err = fmt.Errorf("%w: got %d bytes, want %d", ErrTransferFailed, len(data), d.pendingLen)
			return
		}
		d.decode(data)
	}
}

// Busy reports whether a read transaction is outstanding.
func (d *Dev) Busy() bool {
	return d.state != Idle
}

// State returns the phase of the transaction in flight.
func (d *Dev) State() State {
	return d.state
}

// Err returns the error that aborted the last transaction, if any. It is
// cleared when a new transaction starts.
func (d *Dev) Err() error {
	return d.err
}

// TemperatureC returns the last measured temperature in °C, or AbsoluteZero
// if no measurement completed yet.
func (d *Dev) TemperatureC() float64 {
	return d.tempC
}

// TemperatureF returns the last measured temperature in °F.
func (d *Dev) TemperatureF() float64 {
	return CelsiusToFahrenheit(d.tempC)
}

// Temperature returns the last measured temperature.
func (d *Dev) Temperature() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(math.Round(d.tempC*float64(physic.Kelvin)))
}

// IsOverheated reports the high limit was exceeded at the last measurement.
func (d *Dev) IsOverheated() bool {
	return d.status.OverHigh()
}

// IsOvercooled reports the low limit was crossed at the last measurement.
func (d *Dev) IsOvercooled() bool {
	return d.status.UnderLow()
}

// Settings returns the last control register value written.
func (d *Dev) Settings() Control {
	return d.settings
}

// Status returns the status register read by the last measurement.
func (d *Dev) Status() Status {
	return d.status
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Pressure = 0
	e.Humidity = 0
}

// Halt puts the sensor in power-down mode by clearing the free-run and low
// ODR bits of the control register. Implements conn.Resource.
func (d *Dev) Halt() error {
	return d.ApplySettings(d.settings &^ (CtrlFreerun | CtrlLowODRStart))
}

func (d *Dev) String() string {
	return fmt.Sprintf("stts22h@%#02x", d.addr)
}

// begin starts a two phase read of n bytes from register reg.
func (d *Dev) begin(reg byte, n int) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if d.state != Idle {
		return ErrBusy
	}
	d.pending = reg
	d.pendingLen = n
	d.err = nil
	if err := d.bus.WriteRegisterAddress(d.addr, reg); err != nil {
		return err
	}
	d.state = AwaitingAddressWrite
	return nil
}

// writable gates the combined writes. They share the transport with reads,
// so they are refused while a read transaction owns the register pointer.
func (d *Dev) writable() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if d.state != Idle {
		return ErrBusy
	}
	return nil
}

func (d *Dev) abort(err error) {
	d.state = Idle
	d.err = err
}

func (d *Dev) decode(data []byte) {
	switch d.pending {
	case _REGISTER_WHOAMI:
		d.connected = data[0] == whoAmIValue
	case _REGISTER_STATUS:
		d.status = Status(data[0])
		// A conversion was running when sampled; keep the previous value.
		if !d.status.Busy() {
			d.tempC = RawToCelsius(data[2], data[1])
		}
	case _REGISTER_TEMP_H_LIMIT, _REGISTER_TEMP_L_LIMIT, _REGISTER_CTRL, _REGISTER_TEMP_L_OUT, _REGISTER_TEMP_H_OUT:
	}
}

var _ conn.Resource = &Dev{}
