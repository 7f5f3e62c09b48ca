// Package imaging converts generated scene art into e-reader friendly form:
// fit within the target panel, quantized to the 16 gray levels the display
// can actually show, encoded as PNG.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoder for image.Decode
	"image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// PanelSize is the target panel dimension. The bundled viewer targets a
// 600x600 e-ink panel.
const PanelSize = 600

// grayLevels is the number of gray levels the e-ink panel renders.
const grayLevels = 16

// ForEInk decodes generated image bytes, downscales them to fit within
// PanelSize x PanelSize preserving aspect ratio, remaps all pixels onto the
// 16-level gray ramp, and re-encodes as PNG. Images already within the
// panel bounds skip the resize but are still quantized.
func ForEInk(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}

	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()

	newW, newH := fitDimensions(origW, origH, PanelSize)
	if newW != origW || newH != origH {
		resized := image.NewRGBA(image.Rect(0, 0, newW, newH))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
		bounds = resized.Bounds()
	}

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			out.SetGray(x, y, color.Gray{Y: quantize(g.Y)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode e-ink PNG: %w", err)
	}

	log.Debug().
		Str("input_format", format).
		Int("orig_width", origW).
		Int("orig_height", origH).
		Int("new_width", newW).
		Int("new_height", newH).
		Int("output_size", buf.Len()).
		Msg("Image prepared for e-ink")

	return buf.Bytes(), nil
}

// fitDimensions scales (w, h) down to fit within max x max, preserving
// aspect ratio. Images already inside the bound are left untouched.
func fitDimensions(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, h * max / w
	}
	return w * max / h, max
}

// quantize snaps an 8-bit gray value onto the 16-level ramp.
func quantize(y uint8) uint8 {
	step := 256 / grayLevels
	level := int(y) / step
	if level >= grayLevels {
		level = grayLevels - 1
	}
	return uint8(level * 255 / (grayLevels - 1))
}
