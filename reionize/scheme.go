// Package reionize implements the reionization-history parametrizations
// (component C2): pure functions z -> (X_e, dX_e/dz) selected by a
// scheme tag, added on top of whatever residual ionization the
// recombination integrator left behind. Grounded on the teacher's
// interpolate.Linear/Spline table-lookup style and on the tanh-based
// reionization models of original_source/thermodynamics.c.
package reionize

import (
	"fmt"
	"math"

	"github.com/cosmogo/thermohistory/interpolate"
)

// Scheme computes the absolute free-electron fraction over the
// redshift range it models, and its derivative, at redshift z.
type Scheme interface {
	// Eval returns (X_e, dX_e/dz) at z.
	Eval(z float64) (xe, dxedz float64)
	// LinearBelow reports the threshold below which callers must use
	// linear (not spline) interpolation when tabulating this scheme,
	// to avoid ringing across a derivative discontinuity. A scheme
	// with no such discontinuity returns false.
	LinearBelow() (z float64, ok bool)
}

// sentinel values many_tanh's (z_i, xe_i) pairs may use for xe_i.
const (
	// SentinelPostHe1 expands to the ionization level just after
	// helium's first reionization.
	SentinelPostHe1 = -1.0
	// SentinelPostHe2 expands to the ionization level just after
	// helium's second reionization.
	SentinelPostHe2 = -2.0
	// SentinelFromRecombination, usable as inter's final xe_i, defers
	// to whatever value the recombination integrator produced.
	SentinelFromRecombination = 0.0
)

func tanhStep(z, zCenter, width float64) float64 {
	return 0.5 * (1 + math.Tanh((zCenter-z)/width))
}

func dTanhStepDz(z, zCenter, width float64) float64 {
	t := math.Tanh((zCenter - z) / width)
	return -0.5 * (1 - t*t) / width
}

// CAMB is the `camb` scheme: a hydrogen tanh step in the
// (1+z)^alpha-variable plus an optional helium tanh step.
type CAMB struct {
	ZReio     float64 // hydrogen reionization midpoint
	DeltaZ    float64 // hydrogen step width
	Alpha     float64 // variable-substitution exponent, typically 1.5
	XeBefore  float64 // ionization level just before reionization begins
	XeAfter   float64 // fully-ionized-hydrogen level
	HeliumOn  bool
	ZHelium   float64
	WidthHelium float64
	XeHeliumJump float64 // additional fraction contributed by He -> He++
}

func (c CAMB) variable(z float64) (y, dydz float64) {
	y = math.Pow(1+z, c.Alpha)
	dydz = c.Alpha * math.Pow(1+z, c.Alpha-1)
	return
}

// Eval implements Scheme.
func (c CAMB) Eval(z float64) (float64, float64) {
	if c.DeltaZ <= 0 {
		panic("reionize: camb scheme requires DeltaZ > 0")
	}
	y, dydz := c.variable(z)
	yCenter, _ := c.variable(c.ZReio)
	yWidth := c.Alpha * math.Pow(1+c.ZReio, c.Alpha-1) * c.DeltaZ

	step := tanhStep(y, yCenter, yWidth)
	dstep := dTanhStepDz(y, yCenter, yWidth) * dydz

	xe := c.XeBefore + (c.XeAfter-c.XeBefore)*step
	dxedz := (c.XeAfter - c.XeBefore) * dstep

	if c.HeliumOn && c.WidthHelium > 0 {
		heStep := tanhStep(z, c.ZHelium, c.WidthHelium)
		heDstep := dTanhStepDz(z, c.ZHelium, c.WidthHelium)
		xe += c.XeHeliumJump * heStep
		dxedz += c.XeHeliumJump * heDstep
	}

	return xe, dxedz
}

// LinearBelow implements Scheme: camb has no derivative discontinuity.
func (c CAMB) LinearBelow() (float64, bool) { return 0, false }

// HalfTanh is the `half_tanh` scheme: a tanh step taken directly in z
// (not in camb's (1+z)^alpha variable), reaching only half the
// full-ionization amplitude, and with no helium
// contribution. Below 2*ZReio, callers must interpolate linearly.
type HalfTanh struct {
	ZReio    float64
	DeltaZ   float64
	XeBefore float64
	XeAfter  float64
}

// Eval implements Scheme.
func (h HalfTanh) Eval(z float64) (float64, float64) {
	amplitude := 0.5 * (h.XeAfter - h.XeBefore)
	step := tanhStep(z, h.ZReio, h.DeltaZ)
	dstep := dTanhStepDz(z, h.ZReio, h.DeltaZ)
	return h.XeBefore + amplitude*step, amplitude * dstep
}

// LinearBelow implements Scheme.
func (h HalfTanh) LinearBelow() (float64, bool) { return 2 * h.ZReio, true }

// BinsTanh is the `bins_tanh` scheme: X_e interpolates between
// adjacent bin centers (z_i, xe_i) via a tanh of sharpness s around
// each pair's midpoint redshift. Past the endpoints X_e is held at
// Xe[0] (below Z[0]) or Xe[n-1] (above Z[n-1]); no geometric
// extrapolation is applied.
type BinsTanh struct {
	Z        []float64 // strictly increasing bin-center redshifts
	Xe       []float64 // ionization level at each bin center
	Sharpness float64
}

func (b BinsTanh) validate() {
	if len(b.Z) < 2 || len(b.Z) != len(b.Xe) {
		panic("reionize: bins_tanh requires >=2 matched (z, xe) points")
	}
	if b.Sharpness <= 0 {
		panic("reionize: bins_tanh requires positive sharpness")
	}
}

// Eval implements Scheme.
func (b BinsTanh) Eval(z float64) (float64, float64) {
	b.validate()
	n := len(b.Z)
	if z <= b.Z[0] {
		return b.Xe[0], 0
	}
	if z >= b.Z[n-1] {
		return b.Xe[n-1], 0
	}
	for i := 0; i < n-1; i++ {
		if z >= b.Z[i] && z <= b.Z[i+1] {
			mid := 0.5 * (b.Z[i] + b.Z[i+1])
			width := (b.Z[i+1] - b.Z[i]) / b.Sharpness
			step := tanhStep(z, mid, width)
			dstep := dTanhStepDz(z, mid, width)
			xe := b.Xe[i+1] + (b.Xe[i]-b.Xe[i+1])*step
			dxedz := (b.Xe[i] - b.Xe[i+1]) * dstep
			return xe, dxedz
		}
	}
	return b.Xe[n-1], 0
}

// LinearBelow implements Scheme: bins_tanh never asks for linear
// interpolation. Each bin pair's tanh is cut off at the two bin
// centers, so for finite Sharpness X_e is not continuous there.
func (b BinsTanh) LinearBelow() (float64, bool) { return 0, false }

// ManyTanh is the `many_tanh` scheme: a superposition of independent
// tanh jumps at user-specified (z_i, xe_i), sharing a common width w.
// Xe entries of SentinelPostHe1/SentinelPostHe2 resolve to XeHe1/XeHe2;
// each jump's height is its level minus the preceding level, starting
// from XeBeforeFirstJump.
type ManyTanh struct {
	Z                 []float64
	Xe                []float64 // may contain sentinels
	Width             float64
	XeBeforeFirstJump float64
	XeHe1, XeHe2      float64 // levels the sentinels resolve to
}

func (m ManyTanh) resolvedLevels() []float64 {
	out := make([]float64, len(m.Xe))
	for i, x := range m.Xe {
		switch x {
		case SentinelPostHe1:
			out[i] = m.XeHe1
		case SentinelPostHe2:
			out[i] = m.XeHe2
		default:
			out[i] = x
		}
	}
	return out
}

// Eval implements Scheme.
func (m ManyTanh) Eval(z float64) (float64, float64) {
	if m.Width <= 0 {
		panic("reionize: many_tanh requires Width > 0")
	}
	levels := m.resolvedLevels()
	xe := m.XeBeforeFirstJump
	dxedz := 0.0
	prevLevel := m.XeBeforeFirstJump
	for i, zi := range m.Z {
		jump := levels[i] - prevLevel
		xe += jump * tanhStep(z, zi, m.Width)
		dxedz += jump * dTanhStepDz(z, zi, m.Width)
		prevLevel = levels[i]
	}
	return xe, dxedz
}

// LinearBelow implements Scheme: many_tanh's jumps are all smooth.
func (m ManyTanh) LinearBelow() (float64, bool) { return 0, false }

// Inter is the `inter` scheme: piecewise-linear through user (z_i,
// xe_i) points, built directly on interpolate.Linear. The first z must
// be 0 and the last xe must be SentinelFromRecombination, meaning "defer
// to the recombination integrator's residual value" — callers resolve
// that sentinel to XeFromRecombination before evaluating.
type Inter struct {
	Z                   []float64
	Xe                  []float64 // last entry expected to be SentinelFromRecombination
	XeFromRecombination float64
	lin                 *interpolate.Linear
}

// Build validates the endpoint conventions and constructs the backing
// linear interpolator. Must be called before Eval.
func (in *Inter) Build() error {
	n := len(in.Z)
	if n < 2 || len(in.Xe) != n {
		return fmt.Errorf("reionize: inter requires >=2 matched (z, xe) points")
	}
	if in.Z[0] != 0 {
		return fmt.Errorf("reionize: inter requires the first z to be 0, got %g", in.Z[0])
	}
	if in.Xe[n-1] != SentinelFromRecombination {
		return fmt.Errorf("reionize: inter requires the last xe to be the recombination sentinel")
	}
	vals := make([]float64, n)
	copy(vals, in.Xe)
	vals[n-1] = in.XeFromRecombination
	in.lin = interpolate.NewLinear(in.Z, vals)
	return nil
}

// Eval implements Scheme. Build must have been called first.
func (in *Inter) Eval(z float64) (float64, float64) {
	if in.lin == nil {
		panic("reionize: Inter.Build was not called")
	}
	const h = 1e-4
	xe := in.lin.Eval(z)
	lo := math.Max(in.Z[0], z-h)
	hi := math.Min(in.Z[len(in.Z)-1], z+h)
	if hi == lo {
		return xe, 0
	}
	dxedz := (in.lin.Eval(hi) - in.lin.Eval(lo)) / (hi - lo)
	return xe, dxedz
}

// LinearBelow implements Scheme: per spec.md §4.2, callers must use
// linear interpolation for inter below z=50.
func (in *Inter) LinearBelow() (float64, bool) { return 50, true }
