// Package rasterio writes a rendered panoramic raster (pkg/cpr.Raster) to a
// 16-bit grayscale PNG, and optionally writes a debug overlay that marks
// the columns where the debug curve's perpendicular flipped sign, for
// development and test inspection. Adapted from the teacher's Viewer,
// which extracted and saved 2D slices of a reconstructed volume as JPEGs;
// here there is exactly one 2D raster to save, already produced by the
// renderer, so the per-axis slice-walking machinery is gone and only the
// normalize-to-16-bit-and-encode idiom remains.
package rasterio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"cprengine/pkg/cpr"
)

// WritePanoramicPNG normalizes raster's values to the full 16-bit grayscale
// range using its volume-wide min/max and writes it to filename as a PNG,
// following the teacher's floatToImage idiom (Reconstructor.floatToImage)
// generalized from a fixed [0,1] input range to an explicit (min, max).
func WritePanoramicPNG(raster cpr.Raster, min, max float64, filename string) error {
	img := toGray16(raster, min, max)

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("rasterio: creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("rasterio: encoding %s: %w", filename, err)
	}
	return nil
}

// toGray16 maps raster.Data linearly from [min, max] to [0, 65535],
// clamping out-of-range values (a flat min==max raster maps to mid-gray).
func toGray16(raster cpr.Raster, min, max float64) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, raster.Cols, raster.Rows))
	span := max - min

	for row := 0; row < raster.Rows; row++ {
		for col := 0; col < raster.Cols; col++ {
			v := raster.At(row, col)
			var norm float64
			if span > 0 {
				norm = (v - min) / span
			} else {
				norm = 0.5
			}
			if norm < 0 {
				norm = 0
			}
			if norm > 1 {
				norm = 1
			}
			img.SetGray16(col, row, color.Gray16{Y: uint16(norm * 65535.0)})
		}
	}
	return img
}

// WriteDebugOverlayPNG writes raster as a grayscale PNG with a single red
// row burned in at the vertical center of every output column whose
// perpendicular direction has flipped sign relative to its predecessor -
// a quick visual check of frame.Compute's continuity-enforcement property
// (spec.md §4.4, §8 "Continuity of perpendiculars") without needing a full
// GUI overlay.
func WriteDebugOverlayPNG(raster cpr.Raster, debug *cpr.DebugCurve, min, max float64, filename string) error {
	base := toGray16(raster, min, max)
	img := image.NewRGBA(base.Bounds())
	for y := 0; y < base.Bounds().Dy(); y++ {
		for x := 0; x < base.Bounds().Dx(); x++ {
			g := base.Gray16At(x, y).Y
			v := uint8(g >> 8)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	if debug != nil {
		markFlippedPerpendiculars(img, debug)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("rasterio: creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("rasterio: encoding %s: %w", filename, err)
	}
	return nil
}

func markFlippedPerpendiculars(img *image.RGBA, debug *cpr.DebugCurve) {
	mid := img.Bounds().Dy() / 2
	red := color.RGBA{R: 255, A: 255}

	for i := 1; i < len(debug.Perpendiculars); i++ {
		prev := debug.Perpendiculars[i-1]
		cur := debug.Perpendiculars[i]
		dot := prev.X*cur.X + prev.Y*cur.Y + prev.Z*cur.Z
		if dot < 0 && i < img.Bounds().Dx() {
			img.SetRGBA(i, mid, red)
		}
	}
}
