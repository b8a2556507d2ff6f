// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge renders a temperature reading for pixel displays such as an
// SSD1306 OLED or an e-paper panel, or into a PNG snapshot.
//
// The reading is drawn white on black: °C on the first line, °F on the
// second, and a bar along the bottom edge scaled to the sensor range. The
// bar turns red when the high limit was exceeded and blue when the
// temperature dropped below the low limit.
package gauge

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/GermanBionicSystems/sensors/stts22h"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
)

const (
	// Min is the temperature at the left end of the bar.
	Min = physic.ZeroCelsius - 40*physic.Kelvin
	// Max is the temperature at the right end of the bar.
	Max = physic.ZeroCelsius + 125*physic.Kelvin
)

// Reading is what gets drawn.
type Reading struct {
	Temperature physic.Temperature
	Overheated  bool
	Overcooled  bool
}

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(goFont, &truetype.Options{Size: size}), nil
}

func render(w, h int, r Reading) (*gg.Context, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gauge: invalid size %dx%d", w, h)
	}
	f, err := face(float64(h) / 4)
	if err != nil {
		return nil, fmt.Errorf("gauge: loading font: %w", err)
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	dc.SetFontFace(f)
	dc.SetRGB(1, 1, 1)
	fw, fh := float64(w), float64(h)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f°C", r.Temperature.Celsius()), fw/2, fh*0.3, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f°F", stts22h.CelsiusToFahrenheit(r.Temperature.Celsius())), fw/2, fh*0.65, 0.5, 0.5)

	switch {
	case r.Overheated:
		dc.SetRGB(1, 0, 0)
	case r.Overcooled:
		dc.SetRGB(0, 0, 1)
	default:
		dc.SetRGB(0, 1, 0)
	}
	bar := math.Max(1, math.Round(fh/8))
	dc.DrawRectangle(0, fh-bar, math.Round(fw*fraction(r.Temperature)), bar)
	dc.Fill()
	return dc, nil
}

func fraction(t physic.Temperature) float64 {
	f := float64(t-Min) / float64(Max-Min)
	return math.Max(0, math.Min(1, f))
}

// Render returns the reading drawn on a w by h image.
func Render(w, h int, r Reading) (image.Image, error) {
	dc, err := render(w, h, r)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Draw renders the reading at the size of dst and sends it to the display.
func Draw(dst display.Drawer, r Reading) error {
	b := dst.Bounds()
	img, err := Render(b.Dx(), b.Dy(), r)
	if err != nil {
		return err
	}
	return dst.Draw(b, img, image.Point{})
}

// SavePNG renders the reading on a w by h image and writes it to path.
func SavePNG(path string, w, h int, r Reading) error {
	dc, err := render(w, h, r)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}
