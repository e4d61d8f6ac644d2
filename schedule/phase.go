// Package schedule implements the approximation scheduler (component
// C4): the state machine that selects, over each redshift interval,
// which of T_mat/x_H/x_He are integrated numerically versus solved
// analytically, and the smoothing blend applied at phase boundaries.
// Grounded on original_source/thermodynamics.c's phase-indexed
// approximation scheme (ptdw->ap_*) and on the teacher's small-enum-
// plus-table pattern (los/analyze's Profile/Ellipsoid kind tags).
package schedule

import "fmt"

// Phase names one of the seven ordered approximation regimes of
// spec.md §4.4.
type Phase int

const (
	Brec Phase = iota
	He1
	He1f
	He2
	H
	Frec
	Reio
)

func (p Phase) String() string {
	switch p {
	case Brec:
		return "brec"
	case He1:
		return "He1"
	case He1f:
		return "He1f"
	case He2:
		return "He2"
	case H:
		return "H"
	case Frec:
		return "frec"
	case Reio:
		return "reio"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Active reports whether T_mat, x_H, and x_He are numerically
// integrated (true) or analytically supplied (false) during this
// phase, per spec.md §4.4's table.
func (p Phase) Active() (tMat, xH, xHe bool) {
	switch p {
	case Brec, He1, He1f, He2:
		return true, false, false
	case H:
		return true, false, true
	case Frec, Reio:
		return true, true, true
	}
	panic("schedule: unknown phase")
}

// Precision carries the tunable boundary redshifts and transition
// widths the scheduler uses to partition the grid into phases,
// generalizing original_source/thermodynamics.c's hard-coded
// He_switch/H_switch thresholds into a configurable struct. Each
// ZXxxLimit is the redshift at which phase Xxx ends (and the next
// phase begins).
type Precision struct {
	ZBrecLimit float64 // end of Brec (start of He1); clamped to z_initial
	ZHe1Limit  float64 // end of He1 (first He Saha recombination)
	ZHe1fLimit float64 // end of He1f (post-first-He-recombination plateau)
	ZHe2Limit  float64 // end of He2 (second He Saha recombination)
	ZHLimit    float64 // end of H (hydrogen recombination onset, x_He only)
	ZReioMax   float64 // start of the reio phase

	WidthHe float64 // smoothing width at all helium-phase transitions
	WidthH  float64 // smoothing width at the H -> frec transition
	WidthReio float64
}

// DefaultPrecision matches the reference boundary constants used
// throughout the testable scenarios of spec.md §8: a single helium
// threshold at z=2870 (with the Brec end and the He1/He1f/He2 sub-phases collapsed to
// that boundary, since the reference scenarios don't exercise
// helium-switch granularity finer than that) and a hydrogen threshold
// at z=1600, both with a smoothing width of 50.
func DefaultPrecision() Precision {
	return Precision{
		ZBrecLimit: 2870,
		ZHe1Limit:  2870,
		ZHe1fLimit: 2870,
		ZHe2Limit:  2870,
		ZHLimit:    1600,
		ZReioMax:   50,
		WidthHe:    50,
		WidthH:     50,
		WidthReio:  50,
	}
}

// Interval is one scheduled [zEnd, zStart) segment of the grid, in a
// single phase, with the overlap width over which package thermo ramps
// its Saha relaxation in, measured down from the interval's leading
// edge ZStart (the edge farther from z=0, where the evolver enters the
// interval, since it integrates backwards in z).
type Interval struct {
	Phase       Phase
	ZStart      float64 // larger z (earlier time)
	ZEnd        float64 // smaller z (later time)
	OverlapWidth float64
}

// Build partitions [zInitial, zFinal] into the seven-phase sequence of
// spec.md §4.4, given the boundary redshifts in prec and whether
// reionization is active at all. zInitial must exceed prec.ZHe1Limit;
// Build returns an error otherwise.
func Build(zInitial, zFinal float64, prec Precision, reioActive bool) ([]Interval, error) {
	if zInitial <= prec.ZHe1Limit {
		return nil, fmt.Errorf("schedule: z_initial=%g must exceed the He1 phase boundary %g", zInitial, prec.ZHe1Limit)
	}
	if zFinal >= zInitial {
		return nil, fmt.Errorf("schedule: z_final=%g must be less than z_initial=%g", zFinal, zInitial)
	}

	var out []Interval
	reioStart := prec.ZReioMax
	if !reioActive || reioStart <= zFinal {
		reioStart = zFinal
	}

	brecEnd := prec.ZBrecLimit
	if brecEnd > zInitial {
		brecEnd = zInitial
	}
	segBounds := []float64{
		zInitial, brecEnd, prec.ZHe1Limit, prec.ZHe1fLimit, prec.ZHe2Limit, prec.ZHLimit, reioStart,
	}
	segPhases := []Phase{Brec, He1, He1f, He2, H, Frec}
	widths := []float64{prec.WidthHe, prec.WidthHe, prec.WidthHe, prec.WidthHe, prec.WidthH, prec.WidthH}

	for i, ph := range segPhases {
		zs, ze := segBounds[i], segBounds[i+1]
		if zs <= ze {
			continue
		}
		out = append(out, Interval{Phase: ph, ZStart: zs, ZEnd: ze, OverlapWidth: widths[i]})
	}

	if reioStart > zFinal {
		out = append(out, Interval{Phase: Reio, ZStart: reioStart, ZEnd: zFinal, OverlapWidth: prec.WidthReio})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("schedule: empty schedule for [%g, %g]", zFinal, zInitial)
	}
	return out, nil
}

// Weight is the smooth sigmoidal blend w(s) of spec.md §4.4, satisfying
// w(0)=0, w(1)=1, w'(0)=w'(1)=0: the smoothstep polynomial 3s^2-2s^3.
func Weight(s float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return s * s * (3 - 2*s)
}

// Blend combines the outgoing and incoming phase's reconstructed value
// at overlap position s in [0, 1], per spec.md §4.4's cross-phase
// smoothing rule.
func Blend(xOld, xNew, s float64) float64 {
	w := Weight(s)
	return w*xNew + (1-w)*xOld
}
