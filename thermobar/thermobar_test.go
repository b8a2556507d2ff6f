// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package thermobar

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestLit(t *testing.T) {
	tests := []struct {
		t    physic.Temperature
		want int
	}{
		{DefaultMin, 0},
		{DefaultMin - physic.Kelvin, 0},
		{DefaultMax, 10},
		{DefaultMax + 10*physic.Kelvin, 10},
		{physic.ZeroCelsius + 42500*physic.MilliKelvin, 5},
	}
	for _, test := range tests {
		if got := Lit(10, test.t, DefaultMin, DefaultMax); got != test.want {
			t.Errorf("Lit(%s)=%d, want %d", test.t, got, test.want)
		}
	}
	if got := Lit(10, DefaultMax, DefaultMax, DefaultMin); got != 0 {
		t.Errorf("Lit() with inverted scale=%d", got)
	}
}

func TestRamp(t *testing.T) {
	img := Ramp(4, DefaultMax, DefaultMin, DefaultMax)
	if got := img.Bounds(); got != image.Rect(0, 0, 4, 1) {
		t.Fatalf("Bounds()=%v", got)
	}
	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("first cell %v, want blue", c)
	}
	if c := img.NRGBAAt(3, 0); c != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("last cell %v, want red", c)
	}
	img = Ramp(4, physic.ZeroCelsius, DefaultMin, DefaultMax)
	if c := img.NRGBAAt(3, 0); c != (color.NRGBA{A: 255}) {
		t.Errorf("unlit cell %v, want black", c)
	}
}

func TestDrawOffset(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{X: 4, W: &buf})
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{G: 255, A: 255})
	// Cells 2 and 3 take source pixels 1 and 2.
	if err := d.Draw(image.Rect(2, 0, 4, 1), src, image.Pt(1, 0)); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 0, 0, 0, 255, 0, 0, 0, 255, 0}
	if !bytes.Equal(d.pixels, want) {
		t.Errorf("pixels=%v, want %v", d.pixels, want)
	}
}

func TestShow(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{X: 8, W: &buf})
	if d.Bounds() != image.Rect(0, 0, 8, 1) {
		t.Fatalf("Bounds()=%v", d.Bounds())
	}
	if err := d.Show(physic.ZeroCelsius + 21*physic.Kelvin); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.HasPrefix(s, "\r\033[0m") || !strings.HasSuffix(s, "\033[0m ") {
		t.Errorf("unexpected output %q", s)
	}
	// 61/165 of 8 cells.
	for i := 0; i < 3; i++ {
		if d.pixels[3*i] == 0 && d.pixels[3*i+2] == 0 {
			t.Errorf("cell %d not lit", i)
		}
	}
	for i := 3; i < 8; i++ {
		if d.pixels[3*i] != 0 || d.pixels[3*i+1] != 0 || d.pixels[3*i+2] != 0 {
			t.Errorf("cell %d lit", i)
		}
	}
	buf.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", buf.String())
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{X: 2, W: &buf})
	if _, err := d.Write([]byte{1, 2}); err == nil {
		t.Error("expected error on invalid stream length")
	}
	n, err := d.Write([]byte{255, 0, 0, 0, 0, 255})
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("Write()=%d", n)
	}
	if s := d.String(); len(s) == 0 {
		t.Error("invalid String() result")
	}
}
