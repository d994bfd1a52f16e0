// Package frame computes, for each point of a resampled curve, the
// in-plane perpendicular direction the CPR renderer sweeps across to build
// each output column (C4).
package frame

import (
	"math"

	"cprengine/internal/models"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compute returns one unit perpendicular per point in points, derived from
// the central-difference tangent at that point crossed with normal. It
// enforces sign continuity along the list and a global outward
// orientation relative to the curve's centroid. Degenerate cross products
// (tangent parallel to normal) fall back to the previous perpendicular, or
// to a canonical axis at the first point.
func Compute(points []models.Point3, normal models.Point3) []models.Point3 {
	n := len(points)
	if n == 0 {
		return nil
	}

	unitNormal := r3.Unit(normal)
	tangents := tangentsOf(points)
	perps := make([]models.Point3, n)

	for i := 0; i < n; i++ {
		p := r3.Cross(unitNormal, tangents[i])
		if r3.Norm(p) < 1e-9 {
			if i > 0 {
				perps[i] = perps[i-1]
			} else {
				perps[i] = canonicalFallback(unitNormal)
			}
			continue
		}
		perps[i] = r3.Unit(p)

		if i > 0 && r3.Dot(perps[i], perps[i-1]) < 0 {
			perps[i] = r3.Scale(-1, perps[i])
		}
	}

	enforceOutwardOrientation(points, perps)
	return perps
}

// ComputeParallelTransport computes a parallel-transport frame: the
// tangent at each point, and a normal/binormal pair propagated from point
// to point by rotating the previous frame through the angle between
// consecutive tangents (Rodrigues' rotation), rather than recomputing the
// perpendicular from planeNormal independently at each sample. This avoids
// the torsion artifacts a purely planar perpendicular can introduce on
// strongly non-planar curves. The binormal plays the role Compute's
// perpendicular plays for the renderer; the same outward-orientation fixup
// is applied to it.
func ComputeParallelTransport(points []models.Point3, normal models.Point3) (tangents, normals, binormals []models.Point3) {
	n := len(points)
	if n == 0 {
		return nil, nil, nil
	}

	tangents = tangentsOf(points)
	normals = make([]models.Point3, n)
	binormals = make([]models.Point3, n)

	unitNormal := r3.Unit(normal)
	n0 := r3.Cross(unitNormal, tangents[0])
	if r3.Norm(n0) < 1e-9 {
		n0 = canonicalFallback(unitNormal)
	} else {
		n0 = r3.Unit(n0)
	}
	normals[0] = n0
	binormals[0] = r3.Unit(r3.Cross(tangents[0], normals[0]))

	for i := 1; i < n; i++ {
		t0 := tangents[i-1]
		t1 := tangents[i]

		axis := r3.Cross(t0, t1)
		axisNorm := r3.Norm(axis)
		cosAngle := clamp(r3.Dot(t0, t1), -1, 1)

		var rotatedNormal models.Point3
		if axisNorm < 1e-9 {
			// Tangents parallel (or anti-parallel): no well-defined
			// rotation axis, carry the frame forward unchanged.
			rotatedNormal = normals[i-1]
		} else {
			angle := math.Acos(cosAngle)
			rotatedNormal = rotateVector(normals[i-1], r3.Unit(axis), angle)
		}

		// Re-orthogonalize against the new tangent to prevent drift.
		proj := r3.Scale(r3.Dot(rotatedNormal, t1), t1)
		ortho := r3.Sub(rotatedNormal, proj)
		if r3.Norm(ortho) < 1e-9 {
			ortho = canonicalFallback(t1)
		}
		normals[i] = r3.Unit(ortho)
		binormals[i] = r3.Unit(r3.Cross(t1, normals[i]))
	}

	enforceOutwardOrientation(points, binormals)
	return tangents, normals, binormals
}

// rotateVector rotates v by angle radians about unit axis, via Rodrigues'
// rotation formula: v' = v*cosθ + (axis×v)*sinθ + axis*(axis·v)*(1-cosθ).
func rotateVector(v, axis models.Point3, angle float64) models.Point3 {
	cosA := math.Cos(angle)
	sinA := math.Sin(angle)

	term1 := r3.Scale(cosA, v)
	term2 := r3.Scale(sinA, r3.Cross(axis, v))
	term3 := r3.Scale(r3.Dot(axis, v)*(1-cosA), axis)

	return r3.Add(r3.Add(term1, term2), term3)
}

// tangentsOf returns the central-difference tangent at each point: forward
// difference at the first point, backward at the last, central elsewhere.
func tangentsOf(points []models.Point3) []models.Point3 {
	n := len(points)
	tangents := make([]models.Point3, n)
	if n == 1 {
		tangents[0] = models.Point3{X: 1}
		return tangents
	}

	for i := 0; i < n; i++ {
		var d models.Point3
		switch {
		case i == 0:
			d = r3.Sub(points[1], points[0])
		case i == n-1:
			d = r3.Sub(points[n-1], points[n-2])
		default:
			d = r3.Sub(points[i+1], points[i-1])
		}
		if r3.Norm(d) < 1e-12 {
			if i > 0 {
				tangents[i] = tangents[i-1]
			} else {
				tangents[i] = models.Point3{X: 1}
			}
			continue
		}
		tangents[i] = r3.Unit(d)
	}
	return tangents
}

// enforceOutwardOrientation negates every vector in dirs if, at the middle
// sample, dirs[m] points toward the curve's centroid rather than away from
// it, selecting the convex side of a roughly arch-shaped curve.
func enforceOutwardOrientation(points []models.Point3, dirs []models.Point3) {
	n := len(points)
	if n == 0 {
		return
	}

	centroid := models.Point3{}
	for _, p := range points {
		centroid = r3.Add(centroid, p)
	}
	centroid = r3.Scale(1/float64(n), centroid)

	m := n / 2
	outward := r3.Sub(points[m], centroid)
	if r3.Dot(dirs[m], outward) < 0 {
		for i := range dirs {
			dirs[i] = r3.Scale(-1, dirs[i])
		}
	}
}

func canonicalFallback(avoid models.Point3) models.Point3 {
	candidates := []models.Point3{{X: 1}, {Y: 1}, {Z: 1}}
	for _, c := range candidates {
		if r3.Norm(r3.Cross(avoid, c)) > 1e-6 {
			return r3.Unit(r3.Cross(avoid, c))
		}
	}
	return models.Point3{X: 1}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
