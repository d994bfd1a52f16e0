// Package cpr implements the CPR renderer (C5): the MIP-over-slabs sweep
// that turns a smoothed, framed curve through a volume into a panoramic
// raster. Render's column loop is embarrassingly parallel (spec.md §5);
// this package dispatches one goroutine per output column and collects
// results over a channel, the same goroutine-per-unit-of-work +
// result-channel shape the teacher's Reconstructor.processSubVolumesInParallel
// uses for its sub-volume fan-out.
package cpr

import (
	"fmt"
	"math"

	"cprengine/internal/models"
	"cprengine/pkg/curve"
	"cprengine/pkg/dicomtags"
	"cprengine/pkg/frame"
	"cprengine/pkg/shearlet"
	"cprengine/pkg/volume"

	"gonum.org/v1/gonum/spatial/r3"
)

// Options carries the user-controllable parameters of one render, plus the
// presentation and frame-computation flags spec.md §9 exposes as toggles.
type Options struct {
	// WidthMM is the vertical extent of the output raster, in mm. Render
	// applies no default: a value below half of pmm yields a one-row raster
	// (pkg/axis.New starts a CurveAxis at 40).
	WidthMM float64

	// StepMM, when positive, is reported as the column PixelSpacing in the
	// output metadata. When zero or negative, pmm is used instead (Open
	// Question (b): step_mm controls only metadata, never the internal
	// 1-voxel resampling step).
	StepMM float64

	// SlabMM is the MIP slab thickness perpendicular to the curve, in mm.
	// Render applies no default: a value below half of pmm yields a
	// single-sample slab (pkg/axis.New starts a CurveAxis at 15).
	SlabMM float64

	// ReverseOrientation flips the resampled curve's order before framing,
	// implementing the "patient's-right-on-viewer's-left" presentation
	// choice of spec.md §4.3.
	ReverseOrientation bool

	// ParallelTransport selects frame.ComputeParallelTransport (spec.md
	// §9's general non-planar path) instead of the default planar
	// frame.Compute.
	ParallelTransport bool

	// EdgePreservedSmoothing runs a shearlet-domain edge-preserving
	// smoothing pass over the finished raster, enhancing high-attenuation
	// structures (teeth, contrast-filled vessels) against noise without
	// blurring their boundaries - the same rationale spec.md §4.5 gives
	// for using MIP rather than mean.
	EdgePreservedSmoothing bool

	// InstanceNumber is copied into the output metadata's InstanceNumber
	// tag. Defaults to 1 when zero.
	InstanceNumber int

	// ExtraTags are caller-supplied patient/study tags merged into the
	// output metadata (spec.md §6).
	ExtraTags dicomtags.Metadata
}

// Raster is a row-major H x W panoramic image: arc length along the
// horizontal axis, the plane-normal direction along the vertical axis. Data
// is kept as float64 (the volume's native numeric type promoted to double,
// per spec.md §4.1's numeric contract); Encoding records the pixel type a
// caller should cast to at serialization time.
type Raster struct {
	Rows, Cols int
	Data       []float64
	Encoding   models.PixelEncoding
}

// At returns the pixel at (row, col).
func (r Raster) At(row, col int) float64 { return r.Data[row*r.Cols+col] }

// DebugCurve is the optional "last debug curve" record of spec.md §5: the
// original control points, the smoothed dense polyline, the uniformly
// resampled curve actually rendered, and its per-sample perpendiculars.
// A GUI overlay publishes/reads this by single reference swap (see
// pkg/axis.CurveAxis), never by mutating a shared value in place.
type DebugCurve struct {
	ControlPoints  []models.Point3
	Smoothed       []models.Point3
	Sampled        []models.Point3
	Perpendiculars []models.Point3
	SlabMM         float64
}

// Engine binds a render to one volume, surfacing the sole genuine
// programming-contract violation this package recognizes (a nil volume) as
// a constructor-time error rather than a panic, while Render itself keeps
// spec.md §6's "never returns an error" contract for the renderer proper.
type Engine struct {
	vol *volume.Volume
}

// NewEngine returns an Engine bound to vol, or an error if vol is nil.
func NewEngine(vol *volume.Volume) (*Engine, error) {
	if vol == nil {
		return nil, fmt.Errorf("cpr: volume must not be nil")
	}
	return &Engine{vol: vol}, nil
}

// Render generates the panoramic raster, its metadata and its debug curve
// for the bound volume. See the package-level Render for the full contract.
func (e *Engine) Render(controlPointsVoxel []models.Point3, planeNormal models.Point3, opts Options) (Raster, dicomtags.Metadata, *DebugCurve) {
	return renderImpl(e.vol, controlPointsVoxel, planeNormal, opts)
}

// Render is the programmatic entry point of spec.md §6:
// render(volume, control_points_voxel, plane_normal, width_mm, step_mm,
// slab_mm) -> (raster, metadata). It returns an empty Raster and nil
// Metadata when volume is nil, when fewer than 2 control points are given,
// or when the resampled curve has zero length - the three Invalid-input
// cases of spec.md §7 - and never returns an error: all other failures
// (out-of-range samples, degenerate frames, zero-length segments, NaN)
// degrade quality silently per spec.md §7's policy.
func Render(vol *volume.Volume, controlPointsVoxel []models.Point3, planeNormal models.Point3, opts Options) (Raster, dicomtags.Metadata) {
	raster, meta, _ := renderImpl(vol, controlPointsVoxel, planeNormal, opts)
	return raster, meta
}

func renderImpl(vol *volume.Volume, controlPointsVoxel []models.Point3, planeNormal models.Point3, opts Options) (Raster, dicomtags.Metadata, *DebugCurve) {
	if vol == nil || len(controlPointsVoxel) < 2 {
		return Raster{}, nil, nil
	}

	smoothed := curve.Smooth(controlPointsVoxel)
	// Resampling always walks at a 1-voxel step regardless of StepMM - Open
	// Question (b) resolved in SPEC_FULL.md: step_mm controls only the
	// PixelSpacing metadata below.
	sampled := curve.Resample(smoothed, 1.0)
	if len(sampled) == 0 {
		return Raster{}, nil, nil
	}

	if opts.ReverseOrientation {
		sampled = curve.Reverse(sampled)
	}

	unitNormal := r3.Unit(planeNormal)

	var perps []models.Point3
	if opts.ParallelTransport {
		_, _, binormals := frame.ComputeParallelTransport(sampled, unitNormal)
		perps = binormals
	} else {
		perps = frame.Compute(sampled, unitNormal)
	}

	pmm := vol.MinPixelSpacing()
	if pmm <= 0 {
		return Raster{}, nil, nil
	}

	width := len(sampled)
	height := int(math.Round(opts.WidthMM / pmm))
	if height < 1 {
		height = 1
	}

	ratio := vol.VoxelRatio()
	_, rAxis := dominantAxis(unitNormal, ratio)
	if rAxis == 0 {
		rAxis = pmm
	}

	slabSamples := int(math.Round(opts.SlabMM / pmm))
	if slabSamples < 1 {
		slabSamples = 1
	}

	data := make([]float64, height*width)
	renderColumns(vol, sampled, perps, unitNormal, rAxis, height, slabSamples, data, width)

	if opts.EdgePreservedSmoothing {
		data = smoothRaster(data, height, width)
	}

	stepMM := opts.StepMM
	if stepMM <= 0 {
		stepMM = pmm
	}
	instance := opts.InstanceNumber
	if instance == 0 {
		instance = 1
	}

	meta := dicomtags.Build(dicomtags.Params{
		Rows:             height,
		Columns:          width,
		RowSpacingMM:     pmm,
		ColSpacingMM:     stepMM,
		SliceThicknessMM: pmm,
		InstanceNumber:   instance,
	})
	if len(opts.ExtraTags) > 0 {
		meta = dicomtags.Merge(meta, opts.ExtraTags)
	}

	debug := &DebugCurve{
		ControlPoints:  controlPointsVoxel,
		Smoothed:       smoothed,
		Sampled:        sampled,
		Perpendiculars: perps,
		SlabMM:         opts.SlabMM,
	}

	return Raster{Rows: height, Cols: width, Data: data, Encoding: vol.Encoding()}, meta, debug
}

// columnResult carries one rendered column back from its goroutine.
type columnResult struct {
	index  int
	values []float64
}

// renderColumns sweeps every output column in parallel: column i only
// depends on sampled[i] and perps[i] (spec.md §5), so each is computed by
// its own goroutine and published back over a channel, mirroring the
// teacher's per-unit-of-work goroutine + result-channel dispatch.
func renderColumns(vol *volume.Volume, sampled, perps []models.Point3, normal models.Point3, rAxis float64, height, slabSamples int, data []float64, width int) {
	resultChan := make(chan columnResult, width)

	for i := range sampled {
		go func(i int) {
			resultChan <- columnResult{index: i, values: renderColumn(vol, sampled[i], perps[i], normal, rAxis, height, slabSamples)}
		}(i)
	}

	for completed := 0; completed < width; completed++ {
		res := <-resultChan
		for j := 0; j < height; j++ {
			data[j*width+res.index] = res.values[j]
		}
	}
}

// renderColumn computes one output column: for each row, the MIP across a
// slab of slabSamples voxels centered on that row's vertical offset from
// curve point p, perpendicular n (spec.md §4.5).
func renderColumn(vol *volume.Volume, p, n, normal models.Point3, rAxis float64, height, slabSamples int) []float64 {
	col := make([]float64, height)
	half := float64(height) / 2

	for j := 0; j < height; j++ {
		vOffset := (float64(j) - half) / rAxis
		v := r3.Add(p, r3.Scale(vOffset, normal))

		m := math.Inf(-1)
		found := false
		for k := 0; k < slabSamples; k++ {
			o := float64(k - slabSamples/2)
			q := r3.Add(v, r3.Scale(o, n))
			if s, ok := vol.Sample(q.X, q.Y, q.Z); ok {
				if !found || s > m {
					m = s
					found = true
				}
			}
		}
		if found {
			col[j] = m
		}
	}
	return col
}

// dominantAxis returns the axis index (0=X,1=Y,2=Z) that v's largest
// magnitude component lies along, and the voxel ratio component for that
// axis - the "voxel ratio along the normal's dominant axis" of spec.md §4.5.
func dominantAxis(v models.Point3, ratio models.VoxelRatio) (axis int, rAxis float64) {
	abs := [3]float64{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)}
	axis = 0
	for i := 1; i < 3; i++ {
		if abs[i] > abs[axis] {
			axis = i
		}
	}
	return axis, ratio.Component(axis)
}

// smoothRaster pads data (height x width) into the next square shearlet
// needs, runs the edge-preserving pass, and crops the result back down.
func smoothRaster(data []float64, height, width int) []float64 {
	size := height
	if width > size {
		size = width
	}
	padded := make([]float64, size*size)
	for j := 0; j < height; j++ {
		copy(padded[j*size:j*size+width], data[j*width:(j+1)*width])
	}

	smoothed := shearlet.NewTransform().ApplyEdgePreservedSmoothing(padded)

	out := make([]float64, height*width)
	for j := 0; j < height; j++ {
		copy(out[j*width:(j+1)*width], smoothed[j*size:j*size+width])
	}
	return out
}
