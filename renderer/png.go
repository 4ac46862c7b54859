package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Encode img as a PNG file at path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("renderer: could not create %s: %w", path, err)
	}

	if err = png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("renderer: could not encode %s: %w", path, err)
	}
	return f.Close()
}
