// Package volume implements the trilinear-interpolating volume sampler
// (C1): a read-only, possibly-anisotropic 3D scalar grid with bounds
// handling and a cached min/max.
package volume

import (
	"fmt"
	"math"

	"cprengine/internal/models"
)

// Volume is a 3D scalar grid of size (Nx, Ny, Nz), stored row-major with X
// fastest, plus the physical spacing of one voxel step along each axis.
// A Volume is immutable after construction and safe for concurrent reads.
type Volume struct {
	data       []float64
	nx, ny, nz int
	ratio      models.VoxelRatio
	encoding   models.PixelEncoding
	min, max   float64
}

// New builds a Volume from a flat, row-major (X fastest) scalar grid. It
// scans the data once to cache the global min/max.
func New(data []float64, nx, ny, nz int, ratio models.VoxelRatio, encoding models.PixelEncoding) (*Volume, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("volume: dimensions must be positive, got (%d, %d, %d)", nx, ny, nz)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("volume: data length %d does not match %dx%dx%d", len(data), nx, ny, nz)
	}

	v := &Volume{
		data:     data,
		nx:       nx,
		ny:       ny,
		nz:       nz,
		ratio:    ratio,
		encoding: encoding,
	}
	v.min, v.max = data[0], data[0]
	for _, x := range data {
		if x < v.min {
			v.min = x
		}
		if x > v.max {
			v.max = x
		}
	}
	return v, nil
}

// Size returns the volume's dimensions in voxels.
func (v *Volume) Size() (nx, ny, nz int) { return v.nx, v.ny, v.nz }

// VoxelRatio returns the physical spacing of one voxel step along each axis.
func (v *Volume) VoxelRatio() models.VoxelRatio { return v.ratio }

// MinPixelSpacing returns pmm = min(rx, ry, rz).
func (v *Volume) MinPixelSpacing() float64 { return v.ratio.Min() }

// Encoding returns the volume's pixel encoding.
func (v *Volume) Encoding() models.PixelEncoding { return v.encoding }

// Min returns the cached global minimum intensity.
func (v *Volume) Min() float64 { return v.min }

// Max returns the cached global maximum intensity.
func (v *Volume) Max() float64 { return v.max }

func (v *Volume) at(i, j, k int) float64 {
	return v.data[k*v.nx*v.ny+j*v.nx+i]
}

// Sample trilinearly interpolates the scalar value at real-valued voxel
// coordinates (x, y, z). Per the boundary policy, it reports ok=false when
// any coordinate is < 0 or >= N-1 along its axis (the last integer index
// has no upper neighbour to interpolate against), or when the
// interpolated value is NaN.
func (v *Volume) Sample(x, y, z float64) (value float64, ok bool) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) {
		return 0, false
	}
	if x < 0 || y < 0 || z < 0 ||
		x >= float64(v.nx-1) || y >= float64(v.ny-1) || z >= float64(v.nz-1) {
		return 0, false
	}

	i, u := floorFrac(x)
	j, vv := floorFrac(y)
	k, w := floorFrac(z)

	i1, j1, k1 := i+1, j+1, k+1

	c000 := v.at(i, j, k)
	c100 := v.at(i1, j, k)
	c010 := v.at(i, j1, k)
	c110 := v.at(i1, j1, k)
	c001 := v.at(i, j, k1)
	c101 := v.at(i1, j, k1)
	c011 := v.at(i, j1, k1)
	c111 := v.at(i1, j1, k1)

	c00 := c000*(1-u) + c100*u
	c10 := c010*(1-u) + c110*u
	c01 := c001*(1-u) + c101*u
	c11 := c011*(1-u) + c111*u

	c0 := c00*(1-vv) + c10*vv
	c1 := c01*(1-vv) + c11*vv

	result := c0*(1-w) + c1*w
	if math.IsNaN(result) {
		return 0, false
	}
	return result, true
}

func floorFrac(x float64) (idx int, frac float64) {
	idx = int(math.Floor(x))
	return idx, x - float64(idx)
}
