// Package shoot implements the optical-depth shooting procedure
// (component C6): inverting the relationship between reionization
// redshift and integrated optical depth via bisection. Grounded on the
// teacher's iterative-refinement style (los/analyze's shell-fit
// convergence loops) and on original_source/thermodynamics.c's
// thermodynamics_reionization_function_of_z bisection driver.
package shoot

import (
	"fmt"

	"github.com/cosmogo/thermohistory/interpolate"
)

// TauOfZReio computes the integrated optical depth produced by a
// trial reionization redshift: restore the cached pre-reionization
// state, re-integrate the reio phase with z_reio=zMid, and return the
// resulting tau_reio. Implemented by the caller (package thermo), which
// has access to the cached state and the evolve.Driver.
type TauOfZReio func(zMid float64) (tauReio float64, err error)

// Params configures the bisection of spec.md §4.6.
type Params struct {
	ZReioMax     float64
	StartFactor  float64 // fraction of Width subtracted from ZReioMax for the initial upper bracket
	Width        float64
	TolTau       float64 // relative tolerance on tau
	MaxIterations int
}

// Result is the outcome of a successful bisection.
type Result struct {
	ZReio     float64
	TauReio   float64
	Iterations int
}

// Bisect finds the z_reio producing tauTarget, to within
// p.TolTau*tauTarget, via bisection over the bracket
// [0, ZReioMax - StartFactor*Width].
func Bisect(tauTarget float64, eval TauOfZReio, p Params) (Result, error) {
	if tauTarget <= 0 {
		return Result{}, fmt.Errorf("shoot: tau_reio target must be positive, got %g", tauTarget)
	}
	if p.TolTau <= 0 {
		p.TolTau = 1e-3
	}
	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = 100
	}

	zInf, zSup := 0.0, p.ZReioMax-p.StartFactor*p.Width
	if zSup <= zInf {
		return Result{}, fmt.Errorf("shoot: degenerate initial bracket [%g, %g]", zInf, zSup)
	}

	tauInf, err := eval(zInf)
	if err != nil {
		return Result{}, fmt.Errorf("shoot: evaluating lower bracket: %w", err)
	}
	tauSup, err := eval(zSup)
	if err != nil {
		return Result{}, fmt.Errorf("shoot: evaluating upper bracket: %w", err)
	}
	if !between(tauTarget, tauInf, tauSup) {
		return Result{}, fmt.Errorf(
			"shoot: tau_reio target %g is outside the achievable bracket [%g, %g]",
			tauTarget, minf(tauInf, tauSup), maxf(tauInf, tauSup),
		)
	}

	increasing := tauSup > tauInf

	for iter := 1; iter <= maxIter; iter++ {
		zMid := 0.5 * (zInf + zSup)
		tauMid, err := eval(zMid)
		if err != nil {
			return Result{}, fmt.Errorf("shoot: evaluating z_reio=%g: %w", zMid, err)
		}

		if belowTarget(tauMid, tauTarget, increasing) {
			zInf, tauInf = zMid, tauMid
		} else {
			zSup, tauSup = zMid, tauMid
		}

		if (tauSup-tauInf) < tauTarget*p.TolTau && (tauInf-tauSup) < tauTarget*p.TolTau {
			return Result{ZReio: zMid, TauReio: tauMid, Iterations: iter}, nil
		}
	}

	return Result{}, fmt.Errorf("shoot: bisection did not converge in %d iterations", maxIter)
}

func belowTarget(tauMid, target float64, increasing bool) bool {
	if increasing {
		return tauMid < target
	}
	return tauMid > target
}

func between(x, a, b float64) bool {
	return (x >= a && x <= b) || (x >= b && x <= a)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// TauFromKappaDot integrates dkappa/dtau against tau from today (tau0)
// up to the reionization-start conformal time tauStart, by splining
// the integrand and integrating the spline, per spec.md §4.6.
func TauFromKappaDot(tau, kappaDot []float64, tau0, tauStart float64) (float64, error) {
	if len(tau) != len(kappaDot) || len(tau) < 2 {
		return 0, fmt.Errorf("shoot: tau and kappaDot must be matched and have >=2 points")
	}
	sp := interpolate.NewSpline(tau, kappaDot)
	lo, hi := tau0, tauStart
	if hi < lo {
		lo, hi = hi, lo
	}
	return sp.Integrate(lo, hi), nil
}
