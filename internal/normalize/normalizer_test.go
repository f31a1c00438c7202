package normalize

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodePNG renders an image to PNG bytes for use as upload input.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

// decode parses normalizer output.
func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding normalized output: %v", err)
	}
	return img
}

func TestNormalizeRejectsUndecodableInput(t *testing.T) {
	n := New()

	for _, tt := range []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not an image at all")},
		{"truncated png", encodePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))[:10]},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.raw)
			if !errors.Is(err, ErrNormalize) {
				t.Errorf("expected ErrNormalize, got %v", err)
			}
		})
	}
}

func TestNormalizeDownscalesLargeImages(t *testing.T) {
	n := New()

	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape beyond bounds", 2000, 1500, 1200, 900},
		{"portrait beyond bounds", 1500, 3000, 600, 1200},
		{"exactly at bounds", 1200, 1200, 1200, 1200},
		{"within bounds unchanged", 800, 600, 800, 600},
		{"small image not upscaled", 30, 20, 30, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			out, err := n.Normalize(encodePNG(t, src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			bounds := decode(t, out).Bounds()
			if bounds.Dx() != tt.wantW || bounds.Dy() != tt.wantH {
				t.Errorf("dimensions = %dx%d, want %dx%d",
					bounds.Dx(), bounds.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeFlattensAlphaOntoWhite(t *testing.T) {
	n := New()

	// Half-transparent red; composited on white this must come out pink.
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
		}
	}

	out, err := n.Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := decode(t, out)
	r, g, b, a := img.At(32, 32).RGBA()
	if a != 0xffff {
		t.Errorf("output is not opaque, alpha = %d", a)
	}

	// 8-bit channel values with some slack for JPEG loss.
	r8, g8, b8 := int(r>>8), int(g>>8), int(b>>8)
	if r8 < 245 {
		t.Errorf("red channel %d, want ~255", r8)
	}
	if g8 < 117 || g8 > 137 {
		t.Errorf("green channel %d, want ~127", g8)
	}
	if b8 < 117 || b8 > 137 {
		t.Errorf("blue channel %d, want ~127", b8)
	}
}

func TestNormalizeKeepsOpaqueImagesIntact(t *testing.T) {
	n := New()

	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.RGBA{R: 0, G: 0, B: 255, A: 255})
		}
	}

	out, err := n.Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := decode(t, out)
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("dimensions changed to %v", img.Bounds())
	}

	_, _, b, _ := img.At(50, 25).RGBA()
	if int(b>>8) < 245 {
		t.Errorf("blue channel %d, want ~255", b>>8)
	}
}

func TestNormalizeCustomBounds(t *testing.T) {
	n := &Normalizer{MaxDimension: 100, JPEGQuality: 85}

	out, err := n.Normalize(encodePNG(t, image.NewRGBA(image.Rect(0, 0, 400, 200))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bounds := decode(t, out).Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 50 {
		t.Errorf("dimensions = %dx%d, want 100x50", bounds.Dx(), bounds.Dy())
	}
}
