// Package curve smooths a coarse, user-drawn polyline into a dense
// Catmull-Rom spline and resamples it at a uniform arc-length step (C3).
package curve

import (
	"math"

	"cprengine/internal/models"
)

// Smooth passes a centripetal/uniform Catmull-Rom spline through every
// point in points. For each segment (p1, p2), the neighbours (p0, p3)
// used to shape the tangent are clamped to the polyline's endpoints when
// the segment is first or last. The number of interpolated samples per
// segment is density-adapted to chord length: K = max(2, round(2*|p1-p2|)).
// The final control point is appended so the returned polyline passes
// through every original sample. Smooth returns points unchanged if it
// has fewer than 2 elements.
func Smooth(points []models.Point3) []models.Point3 {
	n := len(points)
	if n < 2 {
		out := make([]models.Point3, n)
		copy(out, points)
		return out
	}

	var out []models.Point3
	for i := 0; i < n-1; i++ {
		p1 := points[i]
		p2 := points[i+1]

		var p0, p3 models.Point3
		if i == 0 {
			p0 = p1
		} else {
			p0 = points[i-1]
		}
		if i+2 >= n {
			p3 = p2
		} else {
			p3 = points[i+2]
		}

		chord := sub(p2, p1)
		chordLen := norm(chord)
		k := int(math.Round(2 * chordLen))
		if k < 2 {
			k = 2
		}

		for s := 0; s < k; s++ {
			t := float64(s) / float64(k)
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
	}
	out = append(out, points[n-1])
	return out
}

// catmullRom evaluates the centripetal/uniform basis at parameter t in
// [0, 1] across the segment (p1, p2), shaped by outer neighbours p0 and p3.
func catmullRom(p0, p1, p2, p3 models.Point3, t float64) models.Point3 {
	t2 := t * t
	t3 := t2 * t

	b0 := -0.5*t3 + t2 - 0.5*t
	b1 := 1.5*t3 - 2.5*t2 + 1
	b2 := -1.5*t3 + 2*t2 + 0.5*t
	b3 := 0.5*t3 - 0.5*t2

	return models.Point3{
		X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
		Z: b0*p0.Z + b1*p1.Z + b2*p2.Z + b3*p3.Z,
	}
}

// Resample walks the polyline points at uniform arc-length step Δ and
// returns ceil(L/Δ)+1 samples, where L is the polyline's total length,
// linearly interpolating within whichever segment contains each target
// distance. Resample returns an empty slice if points has fewer than 2
// elements, if step is not positive, or if the total length is zero.
func Resample(points []models.Point3, step float64) []models.Point3 {
	if len(points) < 2 || step <= 0 {
		return nil
	}

	segLens := make([]float64, len(points)-1)
	total := 0.0
	for i := range segLens {
		segLens[i] = norm(sub(points[i+1], points[i]))
		total += segLens[i]
	}
	if total <= 0 {
		return nil
	}

	count := int(math.Ceil(total/step)) + 1
	out := make([]models.Point3, 0, count)

	seg := 0
	segStart := 0.0
	for i := 0; i < count; i++ {
		target := math.Min(float64(i)*step, total)
		for seg < len(segLens)-1 && segStart+segLens[seg] < target {
			segStart += segLens[seg]
			seg++
		}
		segLen := segLens[seg]
		var frac float64
		if segLen > 0 {
			frac = (target - segStart) / segLen
		}
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out = append(out, lerp(points[seg], points[seg+1], frac))
	}
	return out
}

// Reverse returns a new slice holding points in reverse order, implementing
// the "patient's-right-on-viewer's-left" orientation flip.
func Reverse(points []models.Point3) []models.Point3 {
	out := make([]models.Point3, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func sub(a, b models.Point3) models.Point3 {
	return models.Point3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func norm(v models.Point3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func lerp(a, b models.Point3, t float64) models.Point3 {
	return models.Point3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}
