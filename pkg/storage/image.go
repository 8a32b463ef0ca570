package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"golang.org/x/image/draw"
)

// Profile images are scaled to fit this box and re-encoded as JPEG.
const (
	MaxImageDimension = 1200
	JPEGQuality       = 80

	// MaxImagePixels bounds the decoded size of an upload (40 MP).
	MaxImagePixels = 40_000_000
)

// ErrImageTooLarge is returned when the header declares more than MaxImagePixels.
var ErrImageTooLarge = errors.New("image dimensions too large")

// CompressImage decodes data, scales it down so neither side exceeds
// maxDimension, and encodes the result as JPEG. The header is checked against
// MaxImagePixels before any pixel data is decoded.
func CompressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header (format: %s): %w", format, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := fitDimensions(bounds.Dx(), bounds.Dy(), maxDimension)

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitDimensions keeps the aspect ratio while bounding the longer side.
func fitDimensions(width, height, maxDimension int) (int, int) {
	if width >= height {
		if width <= maxDimension {
			return width, height
		}
		return maxDimension, max(1, height*maxDimension/width)
	}
	if height <= maxDimension {
		return width, height
	}
	return max(1, width*maxDimension/height), maxDimension
}
