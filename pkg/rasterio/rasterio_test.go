package rasterio

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cprengine/internal/models"
	"cprengine/pkg/cpr"
)

func TestWritePanoramicPNGDimensions(t *testing.T) {
	raster := cpr.Raster{
		Rows: 4, Cols: 6,
		Data:     []float64{0, 10, 20, 30, 40, 50, 0, 10, 20, 30, 40, 50, 0, 10, 20, 30, 40, 50, 0, 10, 20, 30, 40, 50},
		Encoding: models.Float64,
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "panorama.png")
	if err := WritePanoramicPNG(raster, 0, 50, path); err != nil {
		t.Fatalf("WritePanoramicPNG() failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != raster.Cols || bounds.Dy() != raster.Rows {
		t.Errorf("decoded dims = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), raster.Cols, raster.Rows)
	}
}

func TestWritePanoramicPNGFlatRasterIsMidGray(t *testing.T) {
	raster := cpr.Raster{Rows: 2, Cols: 2, Data: []float64{5, 5, 5, 5}, Encoding: models.Float64}
	img := toGray16(raster, 5, 5)
	if v := img.Gray16At(0, 0).Y; v < 30000 || v > 35000 {
		t.Errorf("flat raster pixel = %d, want mid-gray", v)
	}
}

func TestWriteDebugOverlayPNGHandlesNilDebug(t *testing.T) {
	raster := cpr.Raster{Rows: 2, Cols: 2, Data: []float64{0, 1, 2, 3}, Encoding: models.Float64}
	path := filepath.Join(t.TempDir(), "overlay.png")
	if err := WriteDebugOverlayPNG(raster, nil, 0, 3, path); err != nil {
		t.Fatalf("WriteDebugOverlayPNG() with nil debug failed: %v", err)
	}
}
