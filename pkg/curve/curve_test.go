package curve

import (
	"math"
	"testing"

	"cprengine/internal/models"
)

func approxEqual(a, b models.Point3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestSmoothPassesThroughControls(t *testing.T) {
	points := []models.Point3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 20, Y: 5, Z: 0},
		{X: 30, Y: 0, Z: 0},
	}
	smoothed := Smooth(points)

	if !approxEqual(smoothed[0], points[0], 1e-9) {
		t.Errorf("first sample = %+v, want %+v", smoothed[0], points[0])
	}
	if !approxEqual(smoothed[len(smoothed)-1], points[len(points)-1], 1e-9) {
		t.Errorf("last sample = %+v, want %+v", smoothed[len(smoothed)-1], points[len(points)-1])
	}
}

func TestSmoothShortInputUnchanged(t *testing.T) {
	points := []models.Point3{{X: 1, Y: 2, Z: 3}}
	smoothed := Smooth(points)
	if len(smoothed) != 1 || !approxEqual(smoothed[0], points[0], 1e-9) {
		t.Errorf("expected single-point input unchanged, got %+v", smoothed)
	}

	empty := Smooth(nil)
	if len(empty) != 0 {
		t.Errorf("expected empty output for empty input, got %+v", empty)
	}
}

func TestSmoothDensityScalesWithChordLength(t *testing.T) {
	short := []models.Point3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}
	long := []models.Point3{{X: 0, Y: 0, Z: 0}, {X: 50, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}

	if got := len(Smooth(short)); got < 2 {
		t.Errorf("expected minimum density of 2 samples/segment, got %d total", got)
	}
	if len(Smooth(long)) <= len(Smooth(short)) {
		t.Error("expected longer chords to produce denser sampling")
	}
}

func TestResampleStraightLine(t *testing.T) {
	points := []models.Point3{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}
	resampled := Resample(points, 1.0)

	wantCount := 11
	if len(resampled) != wantCount {
		t.Fatalf("len(resampled) = %d, want %d", len(resampled), wantCount)
	}
	for i, p := range resampled {
		want := models.Point3{X: float64(i), Y: 0, Z: 0}
		if !approxEqual(p, want, 1e-9) {
			t.Errorf("resampled[%d] = %+v, want %+v", i, p, want)
		}
	}
}

func TestResampleUniformSpacing(t *testing.T) {
	points := []models.Point3{
		{X: 0, Y: 0, Z: 0},
		{X: 3, Y: 4, Z: 0}, // length 5
		{X: 3, Y: 4, Z: 12}, // + length 12, total 17
	}
	resampled := Resample(points, 1.0)
	for i := 1; i < len(resampled); i++ {
		d := norm(sub(resampled[i], resampled[i-1]))
		if d > 1.0+1e-6 {
			t.Errorf("spacing between samples %d and %d = %v, want <= 1", i-1, i, d)
		}
	}
}

func TestResampleDegenerateInputs(t *testing.T) {
	if got := Resample(nil, 1.0); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
	if got := Resample([]models.Point3{{X: 0, Y: 0, Z: 0}}, 1.0); got != nil {
		t.Errorf("expected nil for single-point input, got %+v", got)
	}
	same := []models.Point3{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}
	if got := Resample(same, 1.0); got != nil {
		t.Errorf("expected nil for zero-length polyline, got %+v", got)
	}
	if got := Resample([]models.Point3{{X: 0}, {X: 1}}, 0); got != nil {
		t.Errorf("expected nil for non-positive step, got %+v", got)
	}
}

func TestReverse(t *testing.T) {
	points := []models.Point3{{X: 0}, {X: 1}, {X: 2}}
	reversed := Reverse(points)
	want := []models.Point3{{X: 2}, {X: 1}, {X: 0}}
	for i := range want {
		if reversed[i] != want[i] {
			t.Errorf("reversed[%d] = %+v, want %+v", i, reversed[i], want[i])
		}
	}
	// original must be untouched
	if points[0].X != 0 {
		t.Error("Reverse mutated its input")
	}
}
