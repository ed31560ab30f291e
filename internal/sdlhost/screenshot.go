package sdlhost

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// LastFrame returns the most recently presented frame as an RGBA image,
// for --screenshot export.
func (h *Host) LastFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))
	copy(img.Pix, h.pixels)
	return img
}

// SaveScreenshot writes the last rendered frame to path as a PNG, scaled
// by factor using golang.org/x/image/draw (nearest-neighbor keeps the
// DMG's hard pixel edges rather than blurring them).
func SaveScreenshot(path string, frame *image.RGBA, factor int) error {
	if factor <= 0 {
		factor = 1
	}
	bounds := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, bounds, draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}
