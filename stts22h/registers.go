// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stts22h

import "math"

// Addresses of registers to read/write.
const (
	_REGISTER_WHOAMI       byte = 0x01
	_REGISTER_TEMP_H_LIMIT byte = 0x02
	_REGISTER_TEMP_L_LIMIT byte = 0x03
	_REGISTER_CTRL         byte = 0x04
	_REGISTER_STATUS       byte = 0x05
	_REGISTER_TEMP_L_OUT   byte = 0x06
	_REGISTER_TEMP_H_OUT   byte = 0x07

	// Value of the WHOAMI register.
	whoAmIValue byte = 0xA0
)

const (
	// MinLimit is the lowest temperature in °C accepted as a threshold.
	MinLimit = -39.5
	// MaxLimit is the highest temperature in °C accepted as a threshold.
	MaxLimit = 122.5
	// AbsoluteZero is reported by TemperatureC until a measurement succeeded.
	AbsoluteZero = -273.15

	thresholdStep   = 0.64
	thresholdOffset = 63.0
)

// Control is the value of the CTRL register.
type Control byte

const (
	// CtrlOneShot triggers a single acquisition.
	CtrlOneShot Control = 1 << 0
	// CtrlTimeoutDisable disables the SMBus timeout.
	CtrlTimeoutDisable Control = 1 << 1
	// CtrlFreerun enables continuous conversions at the Averaging rate.
	CtrlFreerun Control = 1 << 2
	// CtrlAddrInc enables register address auto increment on multi byte
	// transfers. Required for Dev.StartMeasurement to read status and
	// temperature in one burst.
	CtrlAddrInc Control = 1 << 3
	// CtrlBDU enables block data update. TEMP_L_OUT must be read first.
	CtrlBDU Control = 1 << 6
	// CtrlLowODRStart enables the 1Hz low output data rate mode.
	CtrlLowODRStart Control = 1 << 7

	avgShift      = 4
	avgMask  byte = 0x03 << avgShift
)

// Averaging selects the number of averages. In free-run mode it also sets
// the output data rate.
type Averaging byte

const (
	// Avg25Hz is the default averaging, 25Hz output data rate in free-run.
	Avg25Hz Averaging = iota
	// Avg50Hz selects a 50Hz output data rate in free-run.
	Avg50Hz
	// Avg100Hz selects a 100Hz output data rate in free-run.
	Avg100Hz
	// Avg200Hz selects a 200Hz output data rate in free-run.
	Avg200Hz
)

func (a Averaging) String() string {
	switch a {
	case Avg25Hz:
		return "25Hz"
	case Avg50Hz:
		return "50Hz"
	case Avg100Hz:
		return "100Hz"
	case Avg200Hz:
		return "200Hz"
	}
	return "invalid"
}

// OneShot reports a single conversion is requested.
func (c Control) OneShot() bool { return c&CtrlOneShot != 0 }

// TimeoutDisabled reports the SMBus timeout is disabled.
func (c Control) TimeoutDisabled() bool { return c&CtrlTimeoutDisable != 0 }

// Freerun reports continuous conversion mode.
func (c Control) Freerun() bool { return c&CtrlFreerun != 0 }

// AddrInc reports register address auto-increment on burst reads.
func (c Control) AddrInc() bool { return c&CtrlAddrInc != 0 }

// BDU reports block data update of the output registers.
func (c Control) BDU() bool { return c&CtrlBDU != 0 }

// LowODRStart reports the 1Hz low output data rate mode.
func (c Control) LowODRStart() bool { return c&CtrlLowODRStart != 0 }

// Averaging returns the 2 bit averaging selector.
func (c Control) Averaging() Averaging {
	return Averaging((byte(c) & avgMask) >> avgShift)
}

// WithAveraging returns c with the averaging selector replaced by a.
func (c Control) WithAveraging(a Averaging) Control {
	return Control(byte(c)&^avgMask | (byte(a)<<avgShift)&avgMask)
}

// Status is the value of the STATUS register. The threshold bits are reset
// by the sensor each time the register is read.
type Status byte

const (
	statusBusy     Status = 1 << 0
	statusOverTHH  Status = 1 << 1
	statusUnderTHL Status = 1 << 2
)

// Busy reports a conversion in progress.
func (s Status) Busy() bool { return s&statusBusy != 0 }

// OverHigh reports the high limit was exceeded.
func (s Status) OverHigh() bool { return s&statusOverTHH != 0 }

// UnderLow reports the temperature dropped below the low limit.
func (s Status) UnderLow() bool { return s&statusUnderTHL != 0 }

// ThresholdByte converts a temperature in °C into the TEMP_H_LIMIT /
// TEMP_L_LIMIT encoding. The result is only meaningful between MinLimit and
// MaxLimit; values outside saturate to 0 or 255 and NaN maps to 0.
func ThresholdByte(c float64) byte {
	v := math.Round(c/thresholdStep + thresholdOffset)
	if math.IsNaN(v) {
		return 0
	}
	return byte(math.Max(0, math.Min(255, v)))
}

// ThresholdToCelsius is the inverse of ThresholdByte. Zero means the
// threshold is disabled.
func ThresholdToCelsius(b byte) float64 {
	return (float64(b) - thresholdOffset) * thresholdStep
}

// RawToCelsius converts TEMP_H_OUT and TEMP_L_OUT into °C. The pair is a
// two's complement count of 0.01°C.
func RawToCelsius(high, low byte) float64 {
	return float64(int16(uint16(high)<<8|uint16(low))) / 100
}

// CelsiusToFahrenheit converts °C into °F.
func CelsiusToFahrenheit(c float64) float64 {
	return 32 + c*9/5
}
