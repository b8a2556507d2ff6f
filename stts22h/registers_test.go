// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stts22h

import (
	"math"
	"testing"
)

func TestThresholdByte(t *testing.T) {
	tests := []struct {
		c    float64
		want byte
	}{
		{0, 63},
		{25, 102},
		{-10, 47},
		{80, 188},
		{MinLimit, 1},
		{MaxLimit, 254},
		{-100, 0},
		{200, 255},
		{math.Inf(1), 255},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, test := range tests {
		if got := ThresholdByte(test.c); got != test.want {
			t.Errorf("ThresholdByte(%g)=%d, want %d", test.c, got, test.want)
		}
	}
}

func TestThresholdToCelsius(t *testing.T) {
	for b := 1; b < 256; b++ {
		c := ThresholdToCelsius(byte(b))
		if got := ThresholdByte(c); got != byte(b) {
			t.Errorf("ThresholdByte(ThresholdToCelsius(%d))=%d", b, got)
		}
	}
	if c := ThresholdToCelsius(63); c != 0 {
		t.Errorf("ThresholdToCelsius(63)=%g", c)
	}
}

func TestRawToCelsius(t *testing.T) {
	tests := []struct {
		high, low byte
		want      float64
	}{
		{0x00, 0x64, 1},
		{0xff, 0x9c, -1},
		{0x00, 0x00, 0},
		{0x0a, 0x28, 26},
		{0x30, 0xd4, 125},
		{0xf0, 0x60, -40},
		{0x7f, 0xff, 327.67},
		{0x80, 0x00, -327.68},
	}
	for _, test := range tests {
		if got := RawToCelsius(test.high, test.low); got != test.want {
			t.Errorf("RawToCelsius(%#x, %#x)=%g, want %g", test.high, test.low, got, test.want)
		}
	}
}

func TestCelsiusToFahrenheit(t *testing.T) {
	tests := []struct {
		c, f float64
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{AbsoluteZero, -459.67},
	}
	for _, test := range tests {
		if got := CelsiusToFahrenheit(test.c); math.Abs(got-test.f) > 1e-9 {
			t.Errorf("CelsiusToFahrenheit(%g)=%g, want %g", test.c, got, test.f)
		}
	}
	// Every register pair follows F = 32 + C*9/5.
	for h := 0; h < 256; h++ {
		for l := 0; l < 256; l++ {
			c := RawToCelsius(byte(h), byte(l))
			count := int16(uint16(h)<<8 | uint16(l))
			want := 32 + float64(count)*9/500
			if got := CelsiusToFahrenheit(c); math.Abs(got-want) > 1e-9 {
				t.Fatalf("raw %#02x%02x: %g°F, want %g°F", h, l, got, want)
			}
		}
	}
}

func TestControl(t *testing.T) {
	var c Control
	if c.OneShot() || c.TimeoutDisabled() || c.Freerun() || c.AddrInc() || c.BDU() || c.LowODRStart() {
		t.Errorf("zero control has bits set")
	}
	c = CtrlOneShot | CtrlTimeoutDisable | CtrlFreerun | CtrlAddrInc | CtrlBDU | CtrlLowODRStart
	if !c.OneShot() || !c.TimeoutDisabled() || !c.Freerun() || !c.AddrInc() || !c.BDU() || !c.LowODRStart() {
		t.Errorf("control %#x missing bits", c)
	}
	if c.Averaging() != Avg25Hz {
		t.Errorf("Averaging()=%s", c.Averaging())
	}
	for _, a := range []Averaging{Avg25Hz, Avg50Hz, Avg100Hz, Avg200Hz} {
		got := c.WithAveraging(a)
		if got.Averaging() != a {
			t.Errorf("WithAveraging(%s).Averaging()=%s", a, got.Averaging())
		}
		if got&^Control(avgMask) != c {
			t.Errorf("WithAveraging(%s) changed other bits: %#x", a, got)
		}
	}
	if got := Control(0).WithAveraging(Avg200Hz); got != 0x30 {
		t.Errorf("WithAveraging(Avg200Hz)=%#x, want 0x30", got)
	}
	if s := Averaging(9).String(); s != "invalid" {
		t.Errorf("Averaging(9).String()=%q", s)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		s               Status
		busy, high, low bool
	}{
		{0x00, false, false, false},
		{0x01, true, false, false},
		{0x02, false, true, false},
		{0x04, false, false, true},
		{0xf8, false, false, false},
		{0x07, true, true, true},
	}
	for _, test := range tests {
		if test.s.Busy() != test.busy || test.s.OverHigh() != test.high || test.s.UnderLow() != test.low {
			t.Errorf("Status(%#x) busy=%t high=%t low=%t", test.s, test.s.Busy(), test.s.OverHigh(), test.s.UnderLow())
		}
	}
}
