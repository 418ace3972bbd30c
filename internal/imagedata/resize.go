package imagedata

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension is the longest edge sent to the model. Phone photos
// are far larger than the model needs to recognise groceries.
const DefaultMaxDimension = 1536

// jpegQuality is used when re-encoding a downscaled image.
const jpegQuality = 85

// Downscale shrinks JPEG, PNG, and WebP images whose longest edge exceeds
// maxDimension and re-encodes them as JPEG. Anything else, or anything
// already small enough, is returned unchanged.
func Downscale(data []byte, mimeType string, maxDimension int) ([]byte, string, error) {
	switch mimeType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return data, mimeType, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= maxDimension && cfg.Height <= maxDimension {
		return data, mimeType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	newWidth, newHeight := scaledDimensions(cfg.Width, cfg.Height, maxDimension)
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	log.Debug().
		Int("orig_width", cfg.Width).
		Int("orig_height", cfg.Height).
		Int("new_width", newWidth).
		Int("new_height", newHeight).
		Int("orig_size", len(data)).
		Int("output_size", buf.Len()).
		Msg("Image downscaled")

	return buf.Bytes(), "image/jpeg", nil
}

// scaledDimensions fits width x height inside maxDimension, keeping the
// aspect ratio. Neither edge drops below one pixel.
func scaledDimensions(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}
	var newWidth, newHeight int
	if width >= height {
		newWidth = maxDimension
		newHeight = height * maxDimension / width
	} else {
		newHeight = maxDimension
		newWidth = width * maxDimension / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	return newWidth, newHeight
}
