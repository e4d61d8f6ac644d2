// Package grid builds the non-uniform redshift sampling the
// thermodynamics engine evolves over (component C1): three
// concatenated sub-grids stored today-first, increasing in z, plus
// their conformal-time image from the background cosmology. Grounded
// on the teacher's los/geom grid-construction style and on
// original_source/thermodynamics.c's thermodynamics_indices z-grid
// assembly.
package grid

import (
	"fmt"
	"math"

	"github.com/cosmogo/thermohistory/cosmo"
)

// Grid is the frozen redshift/conformal-time sampling the rest of the
// pipeline writes its table rows onto.
type Grid struct {
	Z   []float64 // strictly increasing, Z[0] = 0 (today), Z[len-1] = ZInitial
	Tau []float64 // conformal time at each Z, Mpc

	// ZLinear/ZReioMax/ZInitial mark the sub-grid boundaries, reused by
	// the scheduler (package schedule) to decide which phase owns a
	// given row.
	ZLinear  float64
	ZReioMax float64
	ZInitial float64

	// TauIni is the conformal time at the earliest (largest-z) point
	// of the grid.
	TauIni float64
}

// Params configures the three sub-grids of spec.md §4.1.
type Params struct {
	ZInitial float64 // upper bound of the log segment
	ZLinear  float64 // boundary between the log and linear-recombination segments
	ZReioMax float64 // boundary between the linear-recombination and reionization segments
	NLog     int     // points in [ZLinear, ZInitial]
	NLin     int     // points in [ZReioMax, ZLinear]
	NReio    int     // points in [0, ZReioMax]
}

// MaxHeliumRecombinationZ is the latest helium-recombination epoch
// z_initial is required to exceed, per spec.md §4.1.
const MaxHeliumRecombinationZ = 5000

// Build constructs the grid and queries bg for each point's conformal
// time.
func Build(p Params, bg cosmo.Background) (*Grid, error) {
	if p.ZInitial <= MaxHeliumRecombinationZ {
		return nil, fmt.Errorf(
			"grid: z_initial=%g must exceed the latest helium-recombination epoch (~%g)",
			p.ZInitial, float64(MaxHeliumRecombinationZ),
		)
	}
	if !(0 < p.ZReioMax && p.ZReioMax < p.ZLinear && p.ZLinear < p.ZInitial) {
		return nil, fmt.Errorf(
			"grid: boundaries must satisfy 0 < z_reio_max(%g) < z_linear(%g) < z_initial(%g)",
			p.ZReioMax, p.ZLinear, p.ZInitial,
		)
	}
	if p.NLog < 2 || p.NLin < 2 || p.NReio < 2 {
		return nil, fmt.Errorf("grid: each sub-grid needs at least 2 points, got (%d, %d, %d)", p.NLog, p.NLin, p.NReio)
	}

	logSeg := geomspace(p.ZLinear, p.ZInitial, p.NLog)
	linSeg := linspace(p.ZReioMax, p.ZLinear, p.NLin)
	reioSeg := linspace(0, p.ZReioMax, p.NReio)

	// Concatenate today-first, increasing in z: reio segment ascending
	// from 0, then linear segment skipping its shared endpoint with
	// reio, then log segment skipping its shared endpoint with linear.
	z := make([]float64, 0, p.NReio+p.NLin+p.NLog-2)
	z = append(z, reioSeg...)
	z = append(z, linSeg[1:]...)
	z = append(z, logSeg[1:]...)

	for i := 1; i < len(z); i++ {
		if z[i] <= z[i-1] {
			return nil, fmt.Errorf("grid: constructed grid is not strictly increasing at index %d (%g <= %g)", i, z[i], z[i-1])
		}
	}

	tau := make([]float64, len(z))
	for i, zi := range z {
		t, err := bg.TauOfZ(zi)
		if err != nil {
			return nil, fmt.Errorf("grid: querying tau(z=%g): %w", zi, err)
		}
		tau[i] = t
	}

	return &Grid{
		Z: z, Tau: tau,
		ZLinear: p.ZLinear, ZReioMax: p.ZReioMax, ZInitial: p.ZInitial,
		TauIni: tau[len(tau)-1],
	}, nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		out[i] = lo + frac*(hi-lo)
	}
	return out
}

func geomspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	logLo, logHi := math.Log(lo), math.Log(hi)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		out[i] = math.Exp(logLo + frac*(logHi-logLo))
	}
	return out
}

// N returns the number of grid points.
func (g *Grid) N() int { return len(g.Z) }
