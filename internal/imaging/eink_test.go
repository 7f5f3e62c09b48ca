package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodeTestPNG renders a w x h gradient as PNG bytes.
func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) % 256)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestForEInkDownscales(t *testing.T) {
	out, err := ForEInk(encodeTestPNG(t, 1200, 900))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != PanelSize || b.Dy() != 450 {
		t.Errorf("output bounds = %dx%d, want %dx450", b.Dx(), b.Dy(), PanelSize)
	}
}

func TestForEInkKeepsSmallImages(t *testing.T) {
	out, err := ForEInk(encodeTestPNG(t, 300, 200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, _ := png.Decode(bytes.NewReader(out))
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 200 {
		t.Errorf("small image should not be resized, got %v", img.Bounds())
	}
}

func TestForEInkQuantizes(t *testing.T) {
	out, err := ForEInk(encodeTestPNG(t, 64, 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, _ := png.Decode(bytes.NewReader(out))

	levels := map[uint8]bool{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			levels[g.Y] = true
		}
	}
	if len(levels) > grayLevels {
		t.Errorf("output uses %d gray values, want at most %d", len(levels), grayLevels)
	}
}

func TestForEInkRejectsGarbage(t *testing.T) {
	if _, err := ForEInk([]byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		w, h, max, wantW, wantH int
	}{
		{600, 600, 600, 600, 600},
		{1200, 600, 600, 600, 300},
		{600, 1200, 600, 300, 600},
		{100, 50, 600, 100, 50},
		{1000, 1000, 600, 600, 600},
	}
	for _, tt := range tests {
		gotW, gotH := fitDimensions(tt.w, tt.h, tt.max)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("fitDimensions(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, tt.max, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}
