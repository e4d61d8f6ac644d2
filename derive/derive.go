// Package derive implements the derived-quantity pass (component C7):
// once all sample rows are filled, it post-processes the frozen tau
// and dkappa/dtau columns via spline differentiation/integration into
// the drag time, damping scale, optical-depth derivatives, visibility
// function and its derivatives, the variation rate, and the
// characteristic epochs z_rec/z_d/tau_fs/tau_cut. Grounded on
// original_source/thermodynamics.c's thermodynamics_calculate_remaining_quantities
// and the teacher's calc.Deriv/interpolate.Spline combination.
package derive

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cosmogo/thermohistory/calc"
	"github.com/cosmogo/thermohistory/interpolate"
)

// Columns is the set of derived columns this package computes, in
// increasing-tau order (matching the spline/integration convention;
// callers reverse to decreasing-z storage order if needed).
type Columns struct {
	Tau        []float64
	KappaDot   []float64 // dkappa/dtau
	KappaDDot  []float64 // d^2kappa/dtau^2
	KappaDDDot []float64 // d^3kappa/dtau^3
	Kappa      []float64 // -kappa(tau), i.e. the negative optical depth
	G          []float64 // visibility function
	GPrime     []float64
	GDPrime    []float64
	Rate       []float64 // smoothed variation rate
	TauDrag    []float64 // tau_d(tau)
}

// Epochs bundles the characteristic redshifts/times of spec.md §4.7
// steps 5-8.
type Epochs struct {
	ZRec    float64
	ZDrag   float64
	TauFS   float64
	TauCut  float64
}

// Params configures the pass.
type Params struct {
	ComputeDampingScale bool
	SmoothRadius        int // boxcar half-width for the variation-rate smoother
	FreeStreamTrigger   float64
	VisibilityCutThreshold float64
	ZRecMin, ZRecMax    float64
}

// Run computes Columns and Epochs from the frozen tau/kappaDot/R
// arrays (R = (3/4)*rho_b/rho_gamma at each tau, needed for the drag
// time and damping scale) and the matching z array (same order as
// tau, used only to report z_rec/z_d).
func Run(tau, z, kappaDot, rOfTau []float64, tauIni, kappaDotIni float64, p Params) (Columns, Epochs, error) {
	n := len(tau)
	if n < 3 || len(kappaDot) != n || len(z) != n || len(rOfTau) != n {
		return Columns{}, Epochs{}, fmt.Errorf("derive: tau/z/kappaDot/rOfTau must be matched and have >=3 points")
	}

	kdSpline := interpolate.NewSpline(tau, kappaDot)

	kappaDDot := make([]float64, n)
	kappaDDDot := make([]float64, n)
	for i, t := range tau {
		kappaDDot[i] = kdSpline.Deriv(t, 1)
		kappaDDDot[i] = kdSpline.Deriv(t, 2)
	}

	// kappa is an antiderivative of kappaDot anchored to 0 at tau[n-1]
	// (tau_today), so exp(kappa)=exp(-real_kappa) is 1 today and falls
	// toward 0 moving back to tau[0] (z_initial), per spec.md §3.
	kappa := make([]float64, n)
	for i := n - 2; i >= 0; i-- {
		kappa[i] = kappa[i+1] - kdSpline.Integrate(tau[i], tau[i+1])
	}

	g := make([]float64, n)
	gPrime := make([]float64, n)
	gDPrime := make([]float64, n)
	for i := range tau {
		expNegKappa := math.Exp(kappa[i])
		g[i] = kappaDot[i] * expNegKappa
		gPrime[i] = (kappaDDot[i] + kappaDot[i]*kappaDot[i]) * expNegKappa
		gDPrime[i] = (kappaDDDot[i] + 3*kappaDot[i]*kappaDDot[i] + kappaDot[i]*kappaDot[i]*kappaDot[i]) * expNegKappa
	}

	rate, err := variationRate(kappaDot, kappaDDot, kappaDDDot, p.SmoothRadius)
	if err != nil {
		return Columns{}, Epochs{}, err
	}

	tauDrag, err := dragTime(tau, kappaDot, rOfTau)
	if err != nil {
		return Columns{}, Epochs{}, err
	}

	epochs, err := findEpochs(tau, z, g, kappaDot, kappaDDot, kappaDDDot, tauDrag, p)
	if err != nil {
		return Columns{}, Epochs{}, err
	}

	return Columns{
		Tau: tau, KappaDot: kappaDot, KappaDDot: kappaDDot, KappaDDDot: kappaDDDot,
		Kappa: kappa, G: g, GPrime: gPrime, GDPrime: gDPrime, Rate: rate, TauDrag: tauDrag,
	}, epochs, nil
}

// dragTime computes tau_d(tau) = -integral_{tau_today}^{tau}
// (1/R)*(dkappa/dtau) dtau = integral_{tau}^{tau_today} (1/R)*(dkappa/dtau)
// dtau, the baryon drag optical depth, per spec.md §4.7 step 1, by
// splining the integrand in tau and integrating the spline. tau_d is
// anchored to 0 at tau[n-1] (tau_today) and grows moving back toward
// tau[0] (z_initial), crossing 1 at the drag epoch
// (original_source/thermodynamics.c's
// thermodynamics_calculate_conformal_drag_time).
func dragTime(tau, kappaDot, rOfTau []float64) ([]float64, error) {
	n := len(tau)
	integrand := make([]float64, n)
	for i := range tau {
		if rOfTau[i] == 0 {
			return nil, fmt.Errorf("derive: R=0 at tau=%g, cannot compute drag time", tau[i])
		}
		integrand[i] = kappaDot[i] / rOfTau[i]
	}
	sp := interpolate.NewSpline(tau, integrand)
	out := make([]float64, n)
	for i := n - 2; i >= 0; i-- {
		out[i] = out[i+1] + sp.Integrate(tau[i], tau[i+1])
	}
	return out, nil
}

// DampingScale computes r_d^2 per spec.md §4.7 step 2, given the
// precomputed R(tau) and kappaDot(tau) tables, the initial
// conformal time tauIni, and the initial dkappa/dtau at tauIni.
func DampingScale(tau, rOfTau, kappaDot []float64, tauIni, kappaDotIni float64) (float64, error) {
	n := len(tau)
	if n < 2 || len(rOfTau) != n || len(kappaDot) != n {
		return 0, fmt.Errorf("derive: mismatched arrays for damping scale")
	}
	if kappaDotIni == 0 {
		return 0, fmt.Errorf("derive: dkappa/dtau at tau_ini must be nonzero")
	}

	integrand := make([]float64, n)
	for i, r := range rOfTau {
		if kappaDot[i] == 0 {
			return 0, fmt.Errorf("derive: dkappa/dtau=0 at tau=%g", tau[i])
		}
		integrand[i] = (1 / kappaDot[i]) * ((r*r/(1+r) + 16.0/15.0) / (1 + r)) / 6
	}
	sp := interpolate.NewSpline(tau, integrand)

	boundary := tauIni / (3 * kappaDotIni) * (16.0 / (15.0 * 6.0 * 3.0))

	last := tau[n-1]
	integral := sp.Integrate(tauIni, last)
	bracket := boundary + integral
	return (2 * math.Pi) * (2 * math.Pi) * bracket, nil
}

// variationRate computes sqrt(kappaDot^2 + (kappaDDot/kappaDot)^2 +
// |kappaDDDot/kappaDot|) and boxcar-smooths it, per spec.md §4.7
// step 4.
func variationRate(kappaDot, kappaDDot, kappaDDDot []float64, radius int) ([]float64, error) {
	n := len(kappaDot)
	raw := make([]float64, n)
	for i := range kappaDot {
		if kappaDot[i] == 0 {
			return nil, fmt.Errorf("derive: dkappa/dtau=0 at index %d", i)
		}
		ratio1 := kappaDDot[i] / kappaDot[i]
		ratio2 := kappaDDDot[i] / kappaDot[i]
		raw[i] = math.Sqrt(kappaDot[i]*kappaDot[i] + ratio1*ratio1 + math.Abs(ratio2))
	}
	if radius <= 0 {
		return raw, nil
	}
	kernel := interpolate.NewTophatKernel(2*radius + 1)
	smoothed := make([]float64, n)
	kernel.ConvolveAt(raw, interpolate.Extension, smoothed)
	return smoothed, nil
}

func findEpochs(tau, z, g, kappaDot, kappaDDot, kappaDDDot, tauDrag []float64, p Params) (Epochs, error) {
	n := len(tau)

	iMax := floats.MaxIdx(g)
	if iMax == 0 || iMax == n-1 {
		return Epochs{}, fmt.Errorf("derive: visibility function has no interior maximum")
	}

	zRec := calc.QuadraticExtremum(z[iMax], z[iMax-1]-z[iMax], g[iMax+1], g[iMax], g[iMax-1])
	zRecMin, zRecMax := p.ZRecMin, p.ZRecMax
	if zRecMin == 0 && zRecMax == 0 {
		zRecMin, zRecMax = 800, 1500
	}
	if zRec <= zRecMin || zRec >= zRecMax {
		return Epochs{}, fmt.Errorf("derive: recombination redshift %g outside plausible range (%g, %g)", zRec, zRecMin, zRecMax)
	}

	zDrag, err := findZDrag(tau, z, tauDrag)
	if err != nil {
		return Epochs{}, err
	}

	trigger := p.FreeStreamTrigger
	if trigger <= 0 {
		trigger = 0.01
	}
	tauFS := findTauFreeStream(tau, kappaDot, iMax, trigger)

	cutThreshold := p.VisibilityCutThreshold
	if cutThreshold <= 0 {
		cutThreshold = 1e-4
	}
	tauCut := findTauCut(tau, g, g[iMax], cutThreshold)

	return Epochs{ZRec: zRec, ZDrag: zDrag, TauFS: tauFS, TauCut: tauCut}, nil
}

// findZDrag locates z_d, the smallest z where tau_d >= 1, by linear
// interpolation between bracketing samples (spec.md §4.7 step 6).
// tau_d decreases with increasing index (it is anchored to 0 at
// tau[n-1], tau_today), so the crossing runs from >=1 down to <1.
func findZDrag(tau, z, tauDrag []float64) (float64, error) {
	n := len(tau)
	for i := 0; i < n-1; i++ {
		if tauDrag[i] >= 1 && tauDrag[i+1] < 1 {
			frac := (tauDrag[i] - 1) / (tauDrag[i] - tauDrag[i+1])
			return z[i] + frac*(z[i+1]-z[i]), nil
		}
	}
	return 0, fmt.Errorf("derive: tau_d never reaches 1 across the tabulated range")
}

// findTauFreeStream locates the first time, moving back from z_rec,
// where (1/kappaDot)/tau < trigger (spec.md §4.7 step 7).
func findTauFreeStream(tau, kappaDot []float64, iRec int, trigger float64) float64 {
	for i := iRec; i >= 0; i-- {
		if kappaDot[i] == 0 {
			continue
		}
		if (1/kappaDot[i])/tau[i] < trigger {
			return tau[i]
		}
	}
	return tau[0]
}

// findTauCut locates the largest tau where g < gMax*cutThreshold
// (spec.md §4.7 step 8).
func findTauCut(tau, g []float64, gMax, cutThreshold float64) float64 {
	best := tau[0]
	for i, gi := range g {
		if gi < gMax*cutThreshold {
			best = tau[i]
		}
	}
	return best
}
