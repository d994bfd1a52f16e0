// Package models holds the small domain types shared across the CPR
// engine's packages: points/vectors in voxel space, voxel spacing, the
// three canonical viewing planes, and the volume's pixel encoding.
package models

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3 is a point or direction vector in voxel coordinates.
type Point3 = r3.Vec

// VoxelRatio gives the physical spacing of one voxel step along each axis,
// in millimeters.
type VoxelRatio struct {
	X, Y, Z float64
}

// Component returns the ratio along axis index 0 (X), 1 (Y) or 2 (Z).
func (r VoxelRatio) Component(axis int) float64 {
	switch axis {
	case 0:
		return r.X
	case 1:
		return r.Y
	case 2:
		return r.Z
	default:
		panic(fmt.Sprintf("models: illegal axis %d", axis))
	}
}

// Min returns the smallest of the three spacings, i.e. pmm in spec terms.
func (r VoxelRatio) Min() float64 {
	m := r.X
	if r.Y < m {
		m = r.Y
	}
	if r.Z < m {
		m = r.Z
	}
	return m
}

// Plane identifies one of the three canonical orthogonal viewing planes.
type Plane int

const (
	Axial Plane = iota
	Coronal
	Sagittal
)

// AxisIndex returns the volume axis (0=X, 1=Y, 2=Z) that the plane's
// normal runs along.
func (p Plane) AxisIndex() int {
	switch p {
	case Axial:
		return 2
	case Coronal:
		return 1
	case Sagittal:
		return 0
	default:
		panic(fmt.Sprintf("models: illegal plane %d", p))
	}
}

// Normal returns the unit normal of the plane along its axis.
func (p Plane) Normal() Point3 {
	switch p.AxisIndex() {
	case 0:
		return Point3{X: 1}
	case 1:
		return Point3{Y: 1}
	default:
		return Point3{Z: 1}
	}
}

func (p Plane) String() string {
	switch p {
	case Axial:
		return "AXIAL"
	case Coronal:
		return "CORONAL"
	case Sagittal:
		return "SAGITTAL"
	default:
		return "UNKNOWN"
	}
}

// PixelEncoding mirrors the DICOM-ish pixel representations the volume and
// the panoramic raster can carry: signed/unsigned 8/16/32-bit integers or
// 32/64-bit floats.
type PixelEncoding int

const (
	Int8 PixelEncoding = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

func (e PixelEncoding) String() string {
	switch e {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}
