// Package normalize converts uploaded images into the stored form:
// opaque RGB, bounded dimensions, lossy-compressed.
package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// ErrNormalize is the single failure kind reported for any decode, convert,
// resize or encode problem. Callers only need to distinguish "the image
// could not be processed" from success.
var ErrNormalize = errors.New("image normalization failed")

const (
	// DefaultMaxDimension bounds both axes of a stored image.
	DefaultMaxDimension = 1200
	// DefaultJPEGQuality is the re-encode quality level.
	DefaultJPEGQuality = 85
)

// Normalizer applies the decode -> composite -> resize -> encode pipeline.
type Normalizer struct {
	MaxDimension int
	JPEGQuality  int
}

// New returns a Normalizer with the default bounds and quality.
func New() *Normalizer {
	return &Normalizer{
		MaxDimension: DefaultMaxDimension,
		JPEGQuality:  DefaultJPEGQuality,
	}
}

// Normalize decodes raw image bytes, flattens any alpha channel onto a white
// background, downsamples so neither dimension exceeds MaxDimension (never
// upscaling), and re-encodes as JPEG at the configured quality.
func (n *Normalizer) Normalize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNormalize)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrNormalize, err)
	}

	img = flattenAlpha(img)

	// Fit scales down preserving aspect ratio and leaves smaller images
	// at their original dimensions.
	img = imaging.Fit(img, n.MaxDimension, n.MaxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrNormalize, err)
	}

	return buf.Bytes(), nil
}

// flattenAlpha composites a transparent image onto an opaque white canvas of
// identical dimensions. Fully opaque images are returned unchanged.
func flattenAlpha(img image.Image) image.Image {
	if op, ok := img.(interface{ Opaque() bool }); ok && op.Opaque() {
		return img
	}

	bounds := img.Bounds()
	white := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(white, img, image.Pt(0, 0), 1.0)
}
