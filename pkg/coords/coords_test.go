package coords

import (
	"testing"

	"cprengine/internal/models"
)

func TestCanvasSizeTakesLargestPhysicalExtent(t *testing.T) {
	volSize := [3]int{256, 256, 128}
	ratio := models.VoxelRatio{X: 1, Y: 1, Z: 2}
	// Z extent is 128*2=256, tying with X/Y at 256*1=256.
	if got := CanvasSize(volSize, ratio); got != 256 {
		t.Errorf("CanvasSize() = %v, want 256", got)
	}

	volSize = [3]int{100, 100, 200}
	ratio = models.VoxelRatio{X: 1, Y: 1, Z: 2}
	// Z extent is 200*2=400, larger than X/Y's 100.
	if got := CanvasSize(volSize, ratio); got != 400 {
		t.Errorf("CanvasSize() = %v, want 400", got)
	}
}

func TestMapImageToVoxelAxialNoPadding(t *testing.T) {
	volSize := [3]int{256, 256, 128}
	ratio := models.VoxelRatio{X: 1, Y: 1, Z: 1}
	canvas := CanvasSize(volSize, ratio)

	p, ok := MapImageToVoxel(models.Axial, 10, 20, 42, ratio, canvas, volSize)
	if !ok {
		t.Fatal("expected ok")
	}
	if p.X != 10 || p.Y != 20 || p.Z != 42 {
		t.Errorf("got %+v, want (10, 20, 42)", p)
	}
}

func TestMapImageToVoxelCoronalWithPadding(t *testing.T) {
	// Anisotropic volume: Z extent dominates, so a coronal canvas (X across,
	// Z down) pads X and leaves Z unpadded.
	volSize := [3]int{100, 50, 200}
	ratio := models.VoxelRatio{X: 1, Y: 1, Z: 1}
	canvas := CanvasSize(volSize, ratio) // 200

	offsetX := (canvas - float64(volSize[0])*ratio.X) / 2 // (200-100)/2 = 50
	p, ok := MapImageToVoxel(models.Coronal, offsetX+10, 75, 5, ratio, canvas, volSize)
	if !ok {
		t.Fatal("expected ok")
	}
	if p.X != 10 {
		t.Errorf("voxelX = %v, want 10 (px 10 past the X padding)", p.X)
	}
	if p.Z != 75 {
		t.Errorf("voxelZ = %v, want 75 (no Z padding)", p.Z)
	}
	if p.Y != 5 {
		t.Errorf("voxelY = %v, want 5 (depth)", p.Y)
	}
}

func TestMapImageToVoxelSagittal(t *testing.T) {
	volSize := [3]int{100, 100, 100}
	ratio := models.VoxelRatio{X: 1, Y: 1, Z: 1}
	canvas := CanvasSize(volSize, ratio)

	p, ok := MapImageToVoxel(models.Sagittal, 30, 40, 7, ratio, canvas, volSize)
	if !ok {
		t.Fatal("expected ok")
	}
	if p.X != 7 {
		t.Errorf("voxelX = %v, want 7 (depth)", p.X)
	}
	if p.Y != 30 || p.Z != 40 {
		t.Errorf("got Y=%v Z=%v, want (30, 40)", p.Y, p.Z)
	}
}

func TestMapImageToVoxelRejectsBadInputs(t *testing.T) {
	volSize := [3]int{10, 10, 10}
	if _, ok := MapImageToVoxel(models.Axial, 0, 0, 0, models.VoxelRatio{X: 1, Y: 1, Z: 1}, 0, volSize); ok {
		t.Error("expected rejection of non-positive canvas size")
	}
	if _, ok := MapImageToVoxel(models.Axial, 0, 0, 0, models.VoxelRatio{X: 0, Y: 1, Z: 1}, 10, volSize); ok {
		t.Error("expected rejection of zero ratio component")
	}
}
