package axis

import (
	"testing"

	"cprengine/internal/models"
	"cprengine/pkg/cpr"
	"cprengine/pkg/volume"
)

func testVolume(t *testing.T) *volume.Volume {
	t.Helper()
	data := make([]float64, 16*16*16)
	for i := range data {
		data[i] = 50
	}
	v, err := volume.New(data, 16, 16, 16, models.VoxelRatio{X: 1, Y: 1, Z: 1}, models.Float64)
	if err != nil {
		t.Fatalf("volume.New() failed: %v", err)
	}
	return v
}

func TestNewDefaults(t *testing.T) {
	vol := testVolume(t)
	a := New(vol, []models.Point3{{X: 2, Y: 2, Z: 8}, {X: 12, Y: 12, Z: 8}}, models.Axial.Normal())

	if a.WidthMM() != 40.0 {
		t.Errorf("WidthMM() = %v, want 40", a.WidthMM())
	}
	if a.SlabMM() != 15.0 {
		t.Errorf("SlabMM() = %v, want 15", a.SlabMM())
	}
	if a.StepMM() != vol.MinPixelSpacing() {
		t.Errorf("StepMM() = %v, want %v", a.StepMM(), vol.MinPixelSpacing())
	}
	if a.Generation() != 0 {
		t.Errorf("Generation() = %d, want 0", a.Generation())
	}
}

func TestSettersRejectNonPositive(t *testing.T) {
	a := New(testVolume(t), []models.Point3{{X: 2, Y: 2, Z: 8}, {X: 12, Y: 12, Z: 8}}, models.Axial.Normal())

	if a.SetWidthMM(0) {
		t.Error("SetWidthMM(0) should be rejected")
	}
	if a.SetWidthMM(-1) {
		t.Error("SetWidthMM(-1) should be rejected")
	}
	if a.WidthMM() != 40.0 {
		t.Errorf("WidthMM() changed despite rejected setter: %v", a.WidthMM())
	}
}

func TestSetterInvalidatesAndBumpsGeneration(t *testing.T) {
	a := New(testVolume(t), []models.Point3{{X: 2, Y: 2, Z: 8}, {X: 12, Y: 12, Z: 8}}, models.Axial.Normal())

	a.Render(cpr.Options{})
	if _, _, _, ok := a.Current(); !ok {
		t.Fatal("expected a published render after Render()")
	}

	if !a.SetSlabMM(20) {
		t.Fatal("SetSlabMM(20) should be accepted")
	}
	if a.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", a.Generation())
	}
	if _, _, _, ok := a.Current(); ok {
		t.Error("expected Current() to be invalidated after a setter changed a value")
	}
}

func TestSetterNoopWhenUnchanged(t *testing.T) {
	a := New(testVolume(t), []models.Point3{{X: 2, Y: 2, Z: 8}, {X: 12, Y: 12, Z: 8}}, models.Axial.Normal())

	if !a.SetWidthMM(40.0) {
		t.Fatal("setting to the current value should be accepted")
	}
	if a.Generation() != 0 {
		t.Errorf("Generation() = %d, want 0 (value unchanged)", a.Generation())
	}
}

func TestRenderPublishesDebugCurve(t *testing.T) {
	a := New(testVolume(t), []models.Point3{{X: 2, Y: 2, Z: 8}, {X: 12, Y: 12, Z: 8}}, models.Axial.Normal())
	a.Render(cpr.Options{})

	debug := a.DebugCurve()
	if debug == nil {
		t.Fatal("expected non-nil DebugCurve after Render()")
	}
	if len(debug.Sampled) == 0 {
		t.Error("expected non-empty Sampled curve")
	}
	if len(debug.Perpendiculars) != len(debug.Sampled) {
		t.Errorf("len(Perpendiculars) = %d, want %d", len(debug.Perpendiculars), len(debug.Sampled))
	}
}
