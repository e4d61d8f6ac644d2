// Package evolve drives a stiff ODE solver across the intervals the
// scheduler lays out (component C5), depositing samples onto the
// thermo table at each requested grid point. Grounded on the teacher's
// legacy gonum/matrix-based linear-algebra style in
// los/analyze/penna.go, reimplemented against the modern
// gonum.org/v1/gonum/mat for the Newton-iteration solves a stiff
// implicit stepper requires.
package evolve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DerivFunc computes the state derivative d(state)/d(-z) at the given
// backwards-integration coordinate mz = -z. It wraps the recombination
// kernel (package recombine), querying the background and
// energy-injection collaborators internally.
type DerivFunc func(mz float64, state []float64) ([]float64, error)

// Sample is one recorded row: the state (and, where the caller wants
// it, its derivative) at a requested z.
type Sample struct {
	Z     float64
	State []float64
	Deriv []float64
}

// SampleSink receives one Sample per requested output z, in the order
// the solver passes them (increasing mz, i.e. decreasing z, the order
// of Run's requestedZ).
type SampleSink func(s Sample) error

// Driver advances a stiff system across one scheduler interval using
// an implicit, second-order backward-differentiation-formula (BDF2)
// stepper with Newton iteration, the standard stiff-solver shape for
// Saha/Peebles-style recombination ODEs (original_source's use of
// ndf15, a variable-order BDF code, over this same system).
type Driver struct {
	Deriv     DerivFunc
	MaxNewton int     // Newton iterations per step before giving up
	Tol       float64 // Newton convergence tolerance (infinity norm of the residual)
	MaxSteps  int     // hard cap on internal steps per interval, a convergence guard
}

// NewDriver builds a Driver with the reference tolerances used
// throughout spec.md §8's scenarios.
func NewDriver(deriv DerivFunc) *Driver {
	return &Driver{Deriv: deriv, MaxNewton: 20, Tol: 1e-6, MaxSteps: 100000}
}

// Run integrates from mzStart to mzEnd (mzStart < mzEnd, since mz=-z
// increases as z decreases), starting from state0, calling sink at
// each point in requestedZ (given in z, not mz; must lie within
// [-mzEnd, -mzStart] and be supplied in the order the solver will
// reach them, i.e. decreasing z). It returns the final state at
// mzEnd.
func (d *Driver) Run(mzStart, mzEnd float64, state0 []float64, requestedZ []float64, sink SampleSink) ([]float64, error) {
	if mzEnd <= mzStart {
		return nil, fmt.Errorf("evolve: mzEnd=%g must exceed mzStart=%g", mzEnd, mzStart)
	}
	n := len(state0)
	if n == 0 {
		return nil, fmt.Errorf("evolve: empty state vector")
	}

	h := (mzEnd - mzStart) / 100
	if h <= 0 {
		return nil, fmt.Errorf("evolve: degenerate step size")
	}

	state := make([]float64, n)
	copy(state, state0)
	prevState := make([]float64, n)
	copy(prevState, state0)
	mz := mzStart

	reqIdx := 0
	steps := 0
	for mz < mzEnd {
		if steps >= d.MaxSteps {
			return nil, fmt.Errorf("evolve: exceeded %d steps integrating [%g, %g]", d.MaxSteps, mzStart, mzEnd)
		}
		steps++

		hStep := h
		if mz+hStep > mzEnd {
			hStep = mzEnd - mz
		}

		next, err := d.bdf2Step(mz, hStep, state, prevState, steps == 1)
		if err != nil {
			return nil, fmt.Errorf("evolve: step at mz=%g: %w", mz, err)
		}

		newMz := mz + hStep
		for reqIdx < len(requestedZ) && -requestedZ[reqIdx] <= newMz && -requestedZ[reqIdx] >= mz {
			zq := requestedZ[reqIdx]
			sampled := interpState(mz, newMz, state, next, -zq)
			if sink != nil {
				deriv, derr := d.Deriv(-zq, sampled)
				if derr != nil {
					return nil, fmt.Errorf("evolve: sampling at z=%g: %w", zq, derr)
				}
				if err := sink(Sample{Z: zq, State: sampled, Deriv: deriv}); err != nil {
					return nil, fmt.Errorf("evolve: sink at z=%g: %w", zq, err)
				}
			}
			reqIdx++
		}

		copy(prevState, state)
		copy(state, next)
		mz = newMz
	}

	return state, nil
}

func interpState(mz0, mz1 float64, s0, s1 []float64, mz float64) []float64 {
	out := make([]float64, len(s0))
	if mz1 == mz0 {
		copy(out, s1)
		return out
	}
	frac := (mz - mz0) / (mz1 - mz0)
	for i := range out {
		out[i] = s0[i] + frac*(s1[i]-s0[i])
	}
	return out
}

// bdf2Step takes one implicit BDF2 step: 3/2*y_{n+1} - 2*y_n +
// 1/2*y_{n-1} = h*f(mz_{n+1}, y_{n+1}), solved by Newton iteration with
// a finite-difference Jacobian. The first step of an interval has no
// y_{n-1} and is taken as a backward-Euler step instead:
// y_{n+1} - y_n = h*f(mz_{n+1}, y_{n+1}).
func (d *Driver) bdf2Step(mz, h float64, y, yPrev []float64, first bool) ([]float64, error) {
	c0, c1, c2 := 1.5, -2.0, 0.5
	if first {
		c0, c1, c2 = 1, -1, 0
	}
	n := len(y)
	guess := make([]float64, n)
	for i := range guess {
		guess[i] = y[i]
	}

	maxNewton := d.MaxNewton
	if maxNewton <= 0 {
		maxNewton = 20
	}
	tol := d.Tol
	if tol <= 0 {
		tol = 1e-6
	}

	for iter := 0; iter < maxNewton; iter++ {
		f, err := d.Deriv(mz+h, guess)
		if err != nil {
			return nil, err
		}
		res := make([]float64, n)
		for i := range res {
			res[i] = c0*guess[i] + c1*y[i] + c2*yPrev[i] - h*f[i]
		}

		if normInf(res) < tol {
			return guess, nil
		}

		jac, err := d.jacobian(mz, h, c0, guess, f)
		if err != nil {
			return nil, err
		}

		delta := mat.NewVecDense(n, nil)
		rhs := mat.NewVecDense(n, res)
		if err := delta.SolveVec(jac, rhs); err != nil {
			return nil, fmt.Errorf("newton: singular Jacobian: %w", err)
		}

		for i := range guess {
			guess[i] -= delta.AtVec(i)
		}
	}
	return nil, fmt.Errorf("newton: failed to converge in %d iterations at mz=%g", maxNewton, mz)
}

// jacobian computes d(residual)/d(y) ≈ c0*I - h*df/dy via forward
// differences, the same finite-difference approach the teacher uses
// for its profile-fit Jacobians (los/analyze/penna.go).
func (d *Driver) jacobian(mz, h, c0 float64, y, f0 []float64) (*mat.Dense, error) {
	n := len(y)
	jac := mat.NewDense(n, n, nil)
	const eps = 1e-6

	for j := 0; j < n; j++ {
		step := eps * math.Max(1, math.Abs(y[j]))
		yPerturbed := make([]float64, n)
		copy(yPerturbed, y)
		yPerturbed[j] += step

		fPerturbed, err := d.Deriv(mz+h, yPerturbed)
		if err != nil {
			return nil, err
		}

		for i := 0; i < n; i++ {
			dfdy := (fPerturbed[i] - f0[i]) / step
			entry := -h * dfdy
			if i == j {
				entry += c0
			}
			jac.Set(i, j, entry)
		}
	}
	return jac, nil
}

func normInf(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
