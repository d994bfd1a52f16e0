package frame

import (
	"math"
	"testing"

	"cprengine/internal/models"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestComputeStraightLinePerpendicular(t *testing.T) {
	points := []models.Point3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
	}
	normal := models.Point3{Z: 1}

	perps := Compute(points, normal)
	if len(perps) != len(points) {
		t.Fatalf("len(perps) = %d, want %d", len(perps), len(points))
	}
	for i, p := range perps {
		if math.Abs(r3.Norm(p)-1) > 1e-9 {
			t.Errorf("perps[%d] not unit length: %+v (norm %v)", i, p, r3.Norm(p))
		}
		// tangent is +X, normal is +Z, so normal x tangent = Z x X = Y
		if math.Abs(r3.Dot(p, models.Point3{Y: 1})) < 0.99 {
			t.Errorf("perps[%d] = %+v, expected to align with +/-Y", i, p)
		}
	}
}

func TestComputeContinuitySignEnforced(t *testing.T) {
	// An arch-like curve where the naive cross product could flip sign
	// across the turn; verify no adjacent pair points in opposite
	// directions.
	points := []models.Point3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 3, Y: -1, Z: 0},
		{X: 4, Y: 0, Z: 0},
	}
	normal := models.Point3{Z: 1}
	perps := Compute(points, normal)

	for i := 1; i < len(perps); i++ {
		if r3.Dot(perps[i], perps[i-1]) < 0 {
			t.Errorf("perps[%d] and perps[%d] point in opposite directions", i-1, i)
		}
	}
}

func TestComputeDegenerateTangentFallsBack(t *testing.T) {
	// Curve runs exactly along the plane normal: tangent parallel to
	// normal at every point, forcing the degenerate-cross-product path.
	points := []models.Point3{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 2},
	}
	normal := models.Point3{Z: 1}

	perps := Compute(points, normal)
	for i, p := range perps {
		if math.Abs(r3.Norm(p)-1) > 1e-9 {
			t.Errorf("perps[%d] not unit length: %+v", i, p)
		}
	}
}

func TestComputeParallelTransportOrthonormal(t *testing.T) {
	points := []models.Point3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 2, Y: 2, Z: 1},
		{X: 3, Y: 1, Z: 2},
		{X: 4, Y: 0, Z: 2},
	}
	normal := models.Point3{Z: 1}

	tangents, normals, binormals := ComputeParallelTransport(points, normal)
	if len(tangents) != len(points) || len(normals) != len(points) || len(binormals) != len(points) {
		t.Fatal("expected one tangent/normal/binormal per point")
	}

	for i := range points {
		if math.Abs(r3.Dot(normals[i], tangents[i])) > 1e-6 {
			t.Errorf("normals[%d] not orthogonal to tangent (dot=%v)", i, r3.Dot(normals[i], tangents[i]))
		}
		if math.Abs(r3.Norm(binormals[i])-1) > 1e-6 {
			t.Errorf("binormals[%d] not unit length", i)
		}
	}
}

func TestComputeSingleton(t *testing.T) {
	points := []models.Point3{{X: 1, Y: 2, Z: 3}}
	perps := Compute(points, models.Point3{Z: 1})
	if len(perps) != 1 {
		t.Fatalf("expected single perpendicular, got %d", len(perps))
	}
	if math.Abs(r3.Norm(perps[0])-1) > 1e-9 {
		t.Errorf("expected unit vector, got %+v", perps[0])
	}
}

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil, models.Point3{Z: 1}); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
}
