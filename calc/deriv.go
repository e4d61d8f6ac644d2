// Package calc provides small numerical-calculus helpers shared by the
// cosmology and recombination packages.
package calc

// Deriv computes the numerical derivative of a sequence of (x, y)
// points. Interior points use a central difference; the endpoints use
// a one-sided three-point formula. The result is second-order accurate
// only for uniformly spaced xs: the endpoint formulas take the spacing
// to be uniform and are not correct otherwise.
func Deriv(xs, ys []float64) []float64 {
	n := len(xs)
	if len(ys) != n {
		panic("calc: len(xs) != len(ys)")
	}
	if n < 3 {
		panic("calc: Deriv needs at least three points")
	}
	out := make([]float64, n)
	for i := 1; i < n-1; i++ {
		out[i] = (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1])
	}
	out[0] = (-3*ys[0] + 4*ys[1] - ys[2]) / (xs[2] - xs[0])
	out[n-1] = -(-3*ys[n-1] + 4*ys[n-2] - ys[n-3]) / (xs[n-1] - xs[n-3])
	return out
}

// QuadraticExtremum fits a parabola through three uniformly-spaced
// samples (x0-h, x0, x0+h) with values (yLo, yMid, yHi) and returns the
// location of its extremum, used to refine the recombination redshift
// from the peak of the visibility function (spec.md §4.7 step 5).
func QuadraticExtremum(x0, h, yLo, yMid, yHi float64) float64 {
	denom := yLo - 2*yMid + yHi
	if denom == 0 {
		return x0
	}
	return x0 + 0.5*h*(yLo-yHi)/denom
}
