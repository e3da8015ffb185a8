// Package vision prepares raw video frames for OCR and runs text
// recognition over them.
package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/coursemark/coursemark/internal/domain/entity"
)

// contrastBoost doubles the contrast about the midpoint, which is what
// on-screen title text needs most after video compression. AdjustContrast
// applies gain 1/(1-p/100), so a percentage of 50 gives the 2x multiplier.
const contrastBoost = 50

// Normalize converts a raw frame into an OCR-friendly form: optional crop,
// grayscale, contrast boost, sharpen, then an exact 2x Lanczos upscale.
// Pure; callers validate the crop region before any frame is processed.
func Normalize(img image.Image, crop *entity.CropRegion) image.Image {
	if crop != nil {
		bounds := img.Bounds()
		img = imaging.Crop(img, crop.PixelBounds(bounds.Dx(), bounds.Dy()))
	}

	gray := imaging.Grayscale(img)
	boosted := imaging.AdjustContrast(gray, contrastBoost)
	sharpened := imaging.Sharpen(boosted, 1.0)

	b := sharpened.Bounds()
	return imaging.Resize(sharpened, b.Dx()*2, b.Dy()*2, imaging.Lanczos)
}

// NormalizePNG decodes a PNG frame, normalizes it, and re-encodes it for the
// OCR engine. The decoded original is also returned so callers can save it.
func NormalizePNG(data []byte, crop *entity.CropRegion) (original image.Image, normalized []byte, err error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decode frame: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Normalize(img, crop)); err != nil {
		return nil, nil, fmt.Errorf("encode normalized frame: %w", err)
	}
	return img, buf.Bytes(), nil
}
