// Package interpolate provides the low-level spline, linear, and
// bilinear interpolation primitives that the thermodynamics engine
// treats as a library (see spec.md §1, "low-level spline/quadrature
// primitives — assumed available as a library").
package interpolate

// Interpolator is a 1D interpolator over a table of (x, y) points.
type Interpolator interface {
	// Eval evaluates the interpolator at x. x must lie within the range
	// given at construction time.
	Eval(x float64) float64
	// EvalAll evaluates the interpolator at every point in xs. An
	// optional output slice can be supplied to avoid an allocation.
	EvalAll(xs []float64, out ...[]float64) []float64
}

// BiInterpolator is a 2D interpolator over a rectangular grid.
type BiInterpolator interface {
	Eval(x, y float64) float64
	EvalAll(xs, ys []float64, out ...[]float64) []float64
}

var (
	_ Interpolator   = &Spline{}
	_ Interpolator   = &Linear{}
	_ BiInterpolator = &BiLinear{}
)
