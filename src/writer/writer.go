// Package writer crops the selected pixels out of a capture and writes
// them to disk as a losslessly compressed WebP file with a deterministic
// name.
package writer

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"screen-snip/src/geom"
)

// Save writes the selected region of img below root and returns the
// written path. The payload is the green sub-rectangle when present,
// otherwise the red rectangle; the filename always carries the red
// rectangle's coordinates, matching the established naming scheme even
// for sub-region saves.
//
// Coordinates are assumed in-bounds; the interaction state machine
// guarantees that for committed rectangles.
func Save(img *image.RGBA, red geom.Rect, green *geom.Rect, screenW, screenH int, root string) (string, error) {
	dir := filepath.Join(root, fmt.Sprintf("W%dH%d", screenW, screenH))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	sub := red
	if green != nil {
		sub = *green
	}

	name := fmt.Sprintf("screenshot_%d_Lx%dTy%dW%dH%d.webp",
		time.Now().UnixMilli(), red.X, red.Y, red.W, red.H)
	path := filepath.Join(dir, name)

	cropped := crop(img, sub)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, cropped, nil); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("Image saved as: %s\n", path)
	log.Printf("Saved %dx%d pixels to %s", sub.W, sub.H, path)
	return path, nil
}

// crop copies r out of img into a fresh zero-origin image so the encoder
// never sees the capture's backing array.
func crop(img *image.RGBA, r geom.Rect) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	src := img.Bounds().Min
	draw.Draw(dst, dst.Bounds(), img, image.Pt(src.X+r.X, src.Y+r.Y), draw.Src)
	return dst
}
