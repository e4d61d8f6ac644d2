// Package energy models the scalar energy-injection callback the
// recombination kernel (package recombine) consumes: dark-matter
// annihilation/decay or PBH accretion/evaporation, reduced to a single
// energy_rate(z) -> J/m^3/s function. Grounded on the teacher's
// functional-collaborator style (cosmo.Background is queried the same
// way) and, for the integrated on-the-spot convolution, on
// gonum.org/v1/gonum/integrate — the modern successor to the legacy
// github.com/gonum/floats quadrature helpers the teacher's los/analyze
// package depended on.
package energy

import (
	"math"

	"gonum.org/v1/gonum/integrate"
)

// Rate is the on-the-spot energy-injection rate at redshift z, in
// J/m^3/s. A nil Rate is equivalent to the always-zero rate.
type Rate func(z float64) float64

// Zero is the no-injection rate, used when no exotic channel is
// configured.
func Zero(z float64) float64 { return 0 }

// ConstantFractionRate returns a Rate depositing a fixed fraction f of
// the critical density's rest-mass energy per Hubble time, a common
// toy parametrization for s-wave dark-matter annihilation:
// rate(z) = f * rhoCrit0 * c^2 * (1+z)^3 / tHubble0.
func ConstantFractionRate(f, rhoCrit0, cLight, tHubble0 float64) Rate {
	return func(z float64) float64 {
		return f * rhoCrit0 * cLight * cLight * math.Pow(1+z, 3) / tHubble0
	}
}

// PowerLawRate returns a Rate of the form amplitude * (1+z)^exponent,
// used as a simple stand-in for PBH evaporation/accretion channels
// whose z-scaling is well approximated by a single power law over the
// recombination epoch.
func PowerLawRate(amplitude, exponent float64) Rate {
	return func(z float64) float64 {
		return amplitude * math.Pow(1+z, exponent)
	}
}

// OnTheSpot reports whether the on-the-spot approximation is in
// effect: the locally-deposited energy equals the locally-produced
// energy, with no convolution over past injection history.
type OnTheSpot bool

// Integrated convolves an on-the-spot rate with the causal redshift
// kernel of spec.md §6:
//
//	factor * (1+z)^expZ / (1+zp)^expZp * exp((2/3)*factor*((1+z)^1.5 - (1+zp)^1.5))
//
// against zp in steps of deltaZ=1, starting at zp=z, until the
// integrand falls below 2% of its value at zp=z. It returns the
// Rate that should be used in place of the bare on-the-spot rate
// whenever the on-the-spot approximation is disabled.
func Integrated(onTheSpot Rate, factor, expZ, expZp, deltaZ float64) Rate {
	if deltaZ <= 0 {
		deltaZ = 1
	}
	return func(z float64) float64 {
		kernel := func(zp float64) float64 {
			return factor * math.Pow(1+z, expZ) / math.Pow(1+zp, expZp) *
				math.Exp((2.0/3.0)*factor*(math.Pow(1+z, 1.5)-math.Pow(1+zp, 1.5)))
		}

		first := kernel(z) * onTheSpot(z)
		if first == 0 {
			return 0
		}

		zps := []float64{z}
		vals := []float64{first}
		zp := z + deltaZ
		for {
			v := kernel(zp) * onTheSpot(zp)
			zps = append(zps, zp)
			vals = append(vals, v)
			if math.Abs(v) < 0.02*math.Abs(first) {
				break
			}
			zp += deltaZ
		}

		return integrate.Trapezoidal(zps, vals)
	}
}
