package entity

import (
	"fmt"
	"image"
)

// CropRegion restricts OCR to a rectangle expressed as percentages of the
// frame, so the same region works at any resolution. It is validated once,
// before any frame is decoded.
type CropRegion struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Validate rejects out-of-range percentages and non-increasing bounds.
func (c CropRegion) Validate() error {
	for _, v := range []float64{c.Left, c.Top, c.Right, c.Bottom} {
		if v < 0 || v > 100 {
			return fmt.Errorf("crop bound %.2f is outside 0-100", v)
		}
	}
	if c.Left >= c.Right {
		return fmt.Errorf("crop left (%.2f) must be less than right (%.2f)", c.Left, c.Right)
	}
	if c.Top >= c.Bottom {
		return fmt.Errorf("crop top (%.2f) must be less than bottom (%.2f)", c.Top, c.Bottom)
	}
	return nil
}

// PixelBounds resolves the percentages against a frame's dimensions.
func (c CropRegion) PixelBounds(width, height int) image.Rectangle {
	return image.Rect(
		int(float64(width)*c.Left/100),
		int(float64(height)*c.Top/100),
		int(float64(width)*c.Right/100),
		int(float64(height)*c.Bottom/100),
	)
}
