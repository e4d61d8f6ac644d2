package thermo

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cosmogo/thermohistory/cosmo"
	"github.com/cosmogo/thermohistory/energy"
	"github.com/cosmogo/thermohistory/evolve"
	"github.com/cosmogo/thermohistory/grid"
	"github.com/cosmogo/thermohistory/internal/constants"
	"github.com/cosmogo/thermohistory/recombine"
	"github.com/cosmogo/thermohistory/schedule"
)

// sampleRow is one filled table row, ordered ascending in z to match
// grid.Grid.Z (rows[0] is today, rows[len-1] is z_initial).
type sampleRow struct {
	z, tau   float64
	XH, XHe  float64
	TMat     float64
	Xe       float64
	KappaDot float64
}

// integrate runs the stiff evolver (component C5) across every
// scheduled interval (component C4), in decreasing-z order, and
// returns the filled rows in grid order.
func integrate(
	ctx context.Context,
	g *grid.Grid,
	intervals []schedule.Interval,
	engine recombine.Engine,
	bg cosmo.Background,
	energyRate energy.Rate,
	fHe, nH float64,
	cfg Config,
	logger *slog.Logger,
) ([]sampleRow, error) {
	n := g.N()
	rows := make([]sampleRow, n)
	filled := make([]bool, n)

	zIni := g.Z[n-1]
	tradIni := cfg.TCmb * (1 + zIni)
	state := []float64{1.0, fHe, tradIni}

	for _, iv := range intervals {
		if iv.ZStart <= iv.ZEnd {
			continue
		}
		idxs, zs := gridSubset(g.Z, iv.ZEnd, iv.ZStart)
		if len(zs) == 0 {
			continue
		}

		deriv := makeDerivFunc(bg, engine, energyRate, fHe, nH, cfg, iv)
		driver := evolve.NewDriver(deriv)

		k := 0
		sink := func(s evolve.Sample) error {
			for k < len(zs) && zs[k] != s.Z {
				k++
			}
			if k >= len(zs) {
				return fmt.Errorf("thermo: sampled z=%g not found in requested subset", s.Z)
			}
			idx := idxs[k]
			if filled[idx] {
				return nil
			}
			xH, xHe, tMat := s.State[0], s.State[1], s.State[2]
			xe := xH + xHe
			rows[idx] = sampleRow{
				z: s.Z, tau: g.Tau[idx],
				XH: xH, XHe: xHe, TMat: tMat,
				Xe: xe,
				KappaDot: constants.ThomsonCrossMks * xe * nH * (1 + s.Z) * (1 + s.Z) * constants.MpcMks,
			}
			filled[idx] = true
			k++
			return nil
		}

		final, err := driver.Run(-iv.ZStart, -iv.ZEnd, state, zs, sink)
		if err != nil {
			return nil, Wrap(ConvergenceError, fmt.Sprintf("evolving phase %s over z in [%g, %g]", iv.Phase, iv.ZEnd, iv.ZStart), err)
		}
		state = final

		if logger != nil {
			logger.DebugContext(ctx, "thermo: phase integrated", "phase", iv.Phase.String(), "z_start", iv.ZStart, "z_end", iv.ZEnd)
		}
	}

	for i := range rows {
		if !filled[i] {
			return nil, NewError(NumericalGuard, "grid point z=%g was never sampled by any scheduled interval", g.Z[i])
		}
	}
	return rows, nil
}

// gridSubset returns the indices and z-values of g.Z lying in
// [zLo, zHi] (to within 1e-9), sorted descending in z (the order the solver reaches
// them as it integrates from high to low z).
func gridSubset(gridZ []float64, zLo, zHi float64) ([]int, []float64) {
	var idxs []int
	var zs []float64
	for i := len(gridZ) - 1; i >= 0; i-- {
		z := gridZ[i]
		if z > zHi+1e-9 {
			continue
		}
		if z < zLo-1e-9 {
			break
		}
		idxs = append(idxs, i)
		zs = append(zs, z)
	}
	return idxs, zs
}

// makeDerivFunc builds the evolve.DerivFunc for one scheduled interval:
// the recombination kernel's derivatives, blended toward the Saha
// analytic solution for whichever state components the scheduler
// marks inactive in this phase (schedule.Phase.Active), with the
// relaxation strength ramped up from zero over the first OverlapWidth
// below the interval's ZStart via schedule.Weight, so entering the
// phase is smooth rather than a discrete snap.
func makeDerivFunc(bg cosmo.Background, engine recombine.Engine, energyRate energy.Rate, fHe, nH float64, cfg Config, iv schedule.Interval) evolve.DerivFunc {
	tMatActive, xHActive, xHeActive := iv.Phase.Active()

	return func(mz float64, state []float64) ([]float64, error) {
		z := -mz
		tau, err := bg.TauOfZ(z)
		if err != nil {
			return nil, err
		}
		st, err := bg.AtTau(tau, cosmo.Normal)
		if err != nil {
			return nil, err
		}

		s := recombine.State{XH: state[0], XHe: state[1], TMat: state[2]}
		in := recombine.Inputs{
			Z: z, Background: st, EnergyRate: energyRate(z),
			FHe: fHe, NH: nH, TCmb: cfg.TCmb,
			HSwitch: recombine.HeSwitch(cfg.HeSwitch), FudgeH: 1.14,
		}

		d, err := engine.Derivs(s, in)
		if err != nil {
			return nil, err
		}

		width := iv.OverlapWidth
		if width <= 0 {
			width = 1
		}
		blendS := (iv.ZStart - z) / width
		w := schedule.Weight(blendS)

		trad := cfg.TCmb * (1 + z)
		if !xHActive {
			target := recombine.SahaIonization(nH, trad, constants.HIonizationK)
			relax := -1e4 * (s.XH - target)
			d.DXHDmz = schedule.Blend(d.DXHDmz, relax, w)
		}
		if !xHeActive {
			target := fHe * recombine.SahaIonization(nH, trad, constants.He1IonizationK)
			relax := -1e4 * (s.XHe - target)
			d.DXHeDmz = schedule.Blend(d.DXHeDmz, relax, w)
		}

		dz := 1e-3 * (1 + z)
		zP := z + dz
		tauP, err := bg.TauOfZ(zP)
		var dLnHDz float64
		if err == nil {
			stP, err2 := bg.AtTau(tauP, cosmo.Normal)
			if err2 == nil && st.H > 0 && stP.H > 0 {
				dLnHDz = (math.Log(stP.H) - math.Log(st.H)) / dz
			}
		}
		xP := s.XH - d.DXHDmz*dz
		var dLnXDz float64
		if s.XH > 0 && xP > 0 {
			dLnXDz = (math.Log(xP) - math.Log(s.XH)) / dz
		}

		var dTdz float64
		if tMatActive {
			dTdz, err = recombine.MatterTemperature(s, in, dLnHDz, dLnXDz, 1e-4)
			if err != nil {
				return nil, err
			}
		} else {
			dTdz = (trad - s.TMat) / (1 + z)
		}

		return []float64{d.DXHDmz, d.DXHeDmz, -dTdz}, nil
	}
}
