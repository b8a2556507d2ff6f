// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermobar implements a 1D display.Drawer that shows a temperature
// as a colored bar on the terminal (stdout) using ANSI color codes.
//
// Useful as a thermometer on a headless board with only a serial console.
package thermobar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultMin is the bottom of the scale, the lowest temperature the
	// STTS22H measures.
	DefaultMin = physic.ZeroCelsius - 40*physic.Kelvin
	// DefaultMax is the top of the scale.
	DefaultMax = physic.ZeroCelsius + 125*physic.Kelvin
)

// Opts represents the options available for this display.
type Opts struct {
	// X is the number of cells of the bar.
	X       int
	Palette *ansi256.Palette
	// Min and Max bound the scale. Both zero selects DefaultMin and
	// DefaultMax.
	Min, Max physic.Temperature
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev is a thermometer bar that outputs to the console.
type Dev struct {
	w        io.Writer
	l        int
	palette  ansi256.Palette
	min, max physic.Temperature

	pixels []byte
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	min, max := opts.Min, opts.Max
	if min == 0 && max == 0 {
		min, max = DefaultMin, DefaultMax
	}
	return &Dev{
		w:       w,
		l:       opts.X,
		palette: *p,
		min:     min,
		max:     max,
		pixels:  make([]byte, 3*opts.X),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("ThermoBar{%s..%s}", d.min, d.max)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves to the next line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show draws t on the bar.
func (d *Dev) Show(t physic.Temperature) error {
	return d.Draw(d.Bounds(), Ramp(d.l, t, d.min, d.max), image.Point{})
}

// Write accepts a stream of raw RGB pixels and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("thermobar: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: d.l, Y: 1}}
}

// Draw implements display.Drawer.
//
// Only the first row of src is used, one cell per pixel. Show passes a Ramp
// so each cell is one step of the temperature scale.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	sb := src.Bounds()
	o := sb.Min.Add(sp)
	for x := r.Min.X; x < r.Max.X; x++ {
		p := image.Pt(o.X+x-r.Min.X, o.Y)
		if !p.In(sb) {
			break
		}
		r16, g16, b16, _ := src.At(p.X, p.Y).RGBA()
		copy(d.pixels[3*x:], []byte{byte(r16 >> 8), byte(g16 >> 8), byte(b16 >> 8)})
	}
	_, err := d.refresh()
	return err
}

// refresh redraws the whole bar in place with a carriage return, leaving
// the cursor after it.
func (d *Dev) refresh() (int, error) {
	d.buf.Reset()
	d.buf.WriteString("\r\033[0m")
	for i := 0; i+2 < len(d.pixels); i += 3 {
		d.buf.WriteString(d.palette.Block(color.NRGBA{R: d.pixels[i], G: d.pixels[i+1], B: d.pixels[i+2], A: 255}))
	}
	d.buf.WriteString("\033[0m ")
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

// Lit returns how many of x cells represent t on the [min, max] scale.
func Lit(x int, t, min, max physic.Temperature) int {
	if max <= min || x <= 0 {
		return 0
	}
	f := float64(t-min) / float64(max-min)
	f = math.Max(0, math.Min(1, f))
	return int(math.Round(f * float64(x)))
}

// Ramp returns a x by 1 image with the cells up to t lit, shading from blue
// at min to red at max. The remaining cells are black.
func Ramp(x int, t, min, max physic.Temperature) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, x, 1))
	n := Lit(x, t, min, max)
	for i := 0; i < x; i++ {
		c := color.NRGBA{A: 255}
		if i < n {
			f := 0.0
			if x > 1 {
				f = float64(i) / float64(x-1)
			}
			c.R = uint8(math.Round(255 * f))
			c.B = uint8(math.Round(255 * (1 - f)))
		}
		img.SetNRGBA(i, 0, c)
	}
	return img
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
