package interpolate

import "fmt"

type splineCoeff struct{ a, b, c, d float64 }

// Spline is a natural cubic spline through a table of (x, y) points. The
// table may be sorted in increasing or decreasing x order, matching the
// thermo table's decreasing-redshift convention (spec.md §3).
type Spline struct {
	xs, ys []float64
	y2s    []float64
	coeffs []splineCoeff
	xs_    searcher
}

// NewSpline builds a cubic spline through xs/ys. xs must be strictly
// monotone (increasing or decreasing) and len(xs) >= 2.
func NewSpline(xs, ys []float64) *Spline {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf("interpolate: len(xs)=%d != len(ys)=%d", len(xs), len(ys)))
	}
	if len(xs) <= 1 {
		panic("interpolate: spline needs at least two points")
	}
	sp := &Spline{xs: xs, ys: ys}
	sp.y2s = make([]float64, len(xs))
	sp.coeffs = make([]splineCoeff, len(xs)-1)
	sp.xs_.init(xs)
	sp.calcY2s()
	sp.calcCoeffs()
	return sp
}

func (sp *Spline) bsearch(x float64, mode CursorMode, cur *Cursor) int {
	return sp.xs_.search(x, mode, cur)
}

// Eval evaluates the spline at x using a fresh binary search.
func (sp *Spline) Eval(x float64) float64 { return sp.EvalCursor(x, Normal, nil) }

// EvalCursor evaluates the spline at x, optionally resuming from cur for
// a CloseBy lookup (spec.md §4.8).
func (sp *Spline) EvalCursor(x float64, mode CursorMode, cur *Cursor) float64 {
	i := sp.clampedIndex(x, mode, cur)
	dx := x - sp.xs[i]
	c := sp.coeffs[i]
	return c.a*dx*dx*dx + c.b*dx*dx + c.c*dx + c.d
}

func (sp *Spline) clampedIndex(x float64, mode CursorMode, cur *Cursor) int {
	if x == sp.xs[0] {
		return 0
	}
	if x == sp.xs[len(sp.xs)-1] {
		return len(sp.xs) - 2
	}
	return sp.bsearch(x, mode, cur)
}

func (sp *Spline) EvalAll(xs []float64, out ...[]float64) []float64 {
	var o []float64
	if len(out) == 0 {
		o = make([]float64, len(xs))
	} else {
		o = out[0]
	}
	var cur Cursor
	for i, x := range xs {
		o[i] = sp.EvalCursor(x, CloseBy, &cur)
	}
	return o
}

// Deriv evaluates the spline derivative of the given order (0-3) at x.
func (sp *Spline) Deriv(x float64, order int) float64 {
	i := sp.clampedIndex(x, Normal, nil)
	dx := x - sp.xs[i]
	c := sp.coeffs[i]
	switch order {
	case 0:
		return c.a*dx*dx*dx + c.b*dx*dx + c.c*dx + c.d
	case 1:
		return 3*c.a*dx*dx + 2*c.b*dx + c.c
	case 2:
		return 6*c.a*dx + 2*c.b
	case 3:
		return 6 * c.a
	default:
		return 0
	}
}

// Integrate integrates the spline from lo to hi (either order).
func (sp *Spline) Integrate(lo, hi float64) float64 {
	if lo > hi == sp.xs_.incr {
		return -sp.Integrate(hi, lo)
	}
	iLo := sp.clampedIndex(lo, Normal, nil)
	iHi := sp.clampedIndex(hi, Normal, nil)
	if iLo == iHi {
		return integTerm(&sp.coeffs[iLo], sp.xs[iLo], lo, hi)
	}
	sum := integTerm(&sp.coeffs[iLo], sp.xs[iLo], lo, sp.xs[iLo+1]) +
		integTerm(&sp.coeffs[iHi], sp.xs[iHi], sp.xs[iHi], hi)
	if iLo < iHi {
		for i := iLo + 1; i < iHi; i++ {
			sum += integTerm(&sp.coeffs[i], sp.xs[i], sp.xs[i], sp.xs[i+1])
		}
	} else {
		for i := iHi + 1; i < iLo; i++ {
			sum += integTerm(&sp.coeffs[i], sp.xs[i], sp.xs[i], sp.xs[i+1])
		}
	}
	return sum
}

// integTerm integrates the segment polynomial c, expanded about its
// node x0, from lo to hi.
func integTerm(c *splineCoeff, x0, lo, hi float64) float64 {
	prim := func(dx float64) float64 {
		return c.a*dx*dx*dx*dx/4 + c.b*dx*dx*dx/3 + c.c*dx*dx/2 + c.d*dx
	}
	return prim(hi-x0) - prim(lo-x0)
}

// calcY2s computes the second derivatives at every table point by
// solving the standard natural-spline tridiagonal system.
func (sp *Spline) calcY2s() {
	n := len(sp.xs)
	sp.y2s[0], sp.y2s[n-1] = 0, 0
	if n == 2 {
		return
	}

	as, bs := make([]float64, n-2), make([]float64, n-2)
	cs, rs := make([]float64, n-2), make([]float64, n-2)
	xs, ys := sp.xs, sp.ys
	for i := range rs {
		j := i + 1
		as[i] = (xs[j] - xs[j-1]) / 6
		bs[i] = (xs[j+1] - xs[j-1]) / 3
		cs[i] = (xs[j+1] - xs[j]) / 6
		rs[i] = (ys[j+1]-ys[j])/(xs[j+1]-xs[j]) -
			(ys[j]-ys[j-1])/(xs[j]-xs[j-1])
	}
	TriDiagAt(as, bs, cs, rs, sp.y2s[1:n-1])
}

func (sp *Spline) calcCoeffs() {
	xs, ys, y2s := sp.xs, sp.ys, sp.y2s
	for i := range sp.coeffs {
		dx := xs[i+1] - xs[i]
		sp.coeffs[i].a = (-y2s[i]/6 + y2s[i+1]/6) / dx
		sp.coeffs[i].b = y2s[i] / 2
		sp.coeffs[i].c = (ys[i+1]-ys[i])/dx + dx*(-y2s[i]/3-y2s[i+1]/6)
		sp.coeffs[i].d = ys[i]
	}
}

// SecondDerivatives returns the spline's second-derivative table, the
// companion array the thermo table keeps alongside each column
// (spec.md §3, "Companion arrays").
func (sp *Spline) SecondDerivatives() []float64 { return sp.y2s }

// TriDiagAt solves a tridiagonal system in place into out. See the
// general form documented on TriDiag.
func TriDiagAt(as, bs, cs, rs, out []float64) {
	if len(as) != len(bs) || len(as) != len(cs) || len(as) != len(out) || len(as) != len(rs) {
		panic("interpolate: mismatched tridiagonal system lengths")
	}
	if len(out) == 0 {
		return
	}
	tmp := make([]float64, len(as))
	beta := bs[0]
	if beta == 0 {
		panic("interpolate: singular tridiagonal system")
	}
	out[0] = rs[0] / beta
	for i := 1; i < len(out); i++ {
		tmp[i] = cs[i-1] / beta
		beta = bs[i] - as[i]*tmp[i]
		if beta == 0 {
			panic("interpolate: singular tridiagonal system")
		}
		out[i] = (rs[i] - as[i]*out[i-1]) / beta
	}
	for i := len(out) - 2; i >= 0; i-- {
		out[i] -= tmp[i+1] * out[i+1]
	}
}

// TriDiag solves the tridiagonal system
//
//	| b0 c0 ..    |   | u0 |   | r0 |
//	| a1 b1 c1 .. | * | u1 | = | r1 |
//	| ..          |   | .. |   | .. |
//	| ..    an bn |   | un |   | rn |
func TriDiag(as, bs, cs, rs []float64) []float64 {
	out := make([]float64, len(as))
	TriDiagAt(as, bs, cs, rs, out)
	return out
}
