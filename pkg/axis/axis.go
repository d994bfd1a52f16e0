// Package axis implements CurveAxis (C6): the persistent, user-mutable
// object describing one CPR view. It holds the render parameters
// (WidthMM, StepMM, SlabMM), invalidates the cached raster whenever a
// setter changes one of them, and publishes each freshly computed render
// to the GUI through a single atomic reference swap (spec.md §5).
package axis

import (
	"sync/atomic"

	"cprengine/internal/models"
	"cprengine/pkg/cpr"
	"cprengine/pkg/dicomtags"
	"cprengine/pkg/volume"
)

// renderResult is the published pair a completed render swaps into
// CurveAxis.current: the raster, its metadata, the debug curve record, and
// the generation it was computed for.
type renderResult struct {
	raster     cpr.Raster
	metadata   dicomtags.Metadata
	debug      *cpr.DebugCurve
	generation uint64
}

// CurveAxis is the persistent object describing one CPR view: a
// non-owning handle to the shared volume, the control points the polyline
// was converted to (pkg/coords), the drawing plane's normal, and the three
// render parameters. Mutating a parameter through its setter bumps the
// generation counter and clears the published result, so a render already
// in flight for a stale generation is discarded on completion by the
// caller comparing Generation() against the value it started with
// (spec.md §5's cooperative cancellation).
type CurveAxis struct {
	Volume        *volume.Volume
	ControlPoints []models.Point3
	PlaneNormal   models.Point3

	widthMM float64
	stepMM  float64
	slabMM  float64

	generation atomic.Uint64
	current    atomic.Pointer[renderResult]
}

// New constructs a CurveAxis with the given volume, control points and
// plane normal, and the spec.md §3 defaults: WidthMM=40, StepMM=pmm,
// SlabMM=15.
func New(vol *volume.Volume, controlPoints []models.Point3, planeNormal models.Point3) *CurveAxis {
	a := &CurveAxis{
		Volume:        vol,
		ControlPoints: controlPoints,
		PlaneNormal:   planeNormal,
		widthMM:       40.0,
		slabMM:        15.0,
	}
	if vol != nil {
		a.stepMM = vol.MinPixelSpacing()
	}
	return a
}

// WidthMM returns the current vertical-extent parameter.
func (a *CurveAxis) WidthMM() float64 { return a.widthMM }

// StepMM returns the current PixelSpacing-metadata parameter.
func (a *CurveAxis) StepMM() float64 { return a.stepMM }

// SlabMM returns the current MIP slab thickness parameter.
func (a *CurveAxis) SlabMM() float64 { return a.slabMM }

// Generation returns the current parameter generation: it increases by one
// every time a setter actually changes a value.
func (a *CurveAxis) Generation() uint64 { return a.generation.Load() }

// SetWidthMM validates value > 0 and, if it differs from the current
// WidthMM, invalidates the cached render. Non-positive values are
// rejected: the axis is left unchanged and false is returned.
func (a *CurveAxis) SetWidthMM(value float64) bool { return a.set(&a.widthMM, value) }

// SetStepMM validates value > 0 and, if it differs from the current
// StepMM, invalidates the cached render.
func (a *CurveAxis) SetStepMM(value float64) bool { return a.set(&a.stepMM, value) }

// SetSlabMM validates value > 0 and, if it differs from the current
// SlabMM, invalidates the cached render.
func (a *CurveAxis) SetSlabMM(value float64) bool { return a.set(&a.slabMM, value) }

func (a *CurveAxis) set(field *float64, value float64) bool {
	if value <= 0 {
		return false
	}
	if *field == value {
		return true
	}
	*field = value
	a.generation.Add(1)
	a.current.Store(nil)
	return true
}

// Render runs cpr.Render with the axis's current parameters and publishes
// the result (raster, metadata, debug curve) via a single atomic pointer
// swap, tagged with the generation the render was computed against. If a
// setter changed the generation while the render ran, the result is not
// published; it is still returned to the caller, which can compare
// Generation() against the value it started with - spec.md §5's
// cooperative cancellation.
func (a *CurveAxis) Render(opts cpr.Options) (cpr.Raster, dicomtags.Metadata) {
	gen := a.generation.Load()
	opts.WidthMM = a.widthMM
	opts.StepMM = a.stepMM
	opts.SlabMM = a.slabMM

	raster, meta, debug := renderFor(a, opts)

	if a.generation.Load() == gen {
		a.current.Store(&renderResult{raster: raster, metadata: meta, debug: debug, generation: gen})
	}
	return raster, meta
}

// renderFor is split out so Render's generation check is easy to follow: a
// render in flight has no way to observe a concurrent setter call except by
// comparing generations before and after, never by locking the hot path.
func renderFor(a *CurveAxis, opts cpr.Options) (cpr.Raster, dicomtags.Metadata, *cpr.DebugCurve) {
	engine, err := cpr.NewEngine(a.Volume)
	if err != nil {
		return cpr.Raster{}, nil, nil
	}
	raster, meta, debug := engine.Render(a.ControlPoints, a.PlaneNormal, opts)
	return raster, meta, debug
}

// Current returns the most recently published raster/metadata pair and the
// generation it corresponds to, or ok=false if no render has published yet
// (or the axis was invalidated since). Safe for concurrent GUI reads
// without locking: current is only ever replaced by a whole-pointer swap.
func (a *CurveAxis) Current() (raster cpr.Raster, metadata dicomtags.Metadata, generation uint64, ok bool) {
	r := a.current.Load()
	if r == nil {
		return cpr.Raster{}, nil, 0, false
	}
	return r.raster, r.metadata, r.generation, true
}

// DebugCurve returns the debug curve record of the most recently published
// render, or nil if none has published yet.
func (a *CurveAxis) DebugCurve() *cpr.DebugCurve {
	r := a.current.Load()
	if r == nil {
		return nil
	}
	return r.debug
}
