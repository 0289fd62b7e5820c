package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG creates (or truncates) path and encodes img into it as PNG.
func WritePNG(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("failed to save PNG %s: no image", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to save PNG %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to save PNG %s: %w", path, err)
	}
	return nil
}
