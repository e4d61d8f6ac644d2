package interpolate

import "fmt"

// Linear is a piecewise-linear interpolator, used where the thermo
// table has a derivative discontinuity that a spline would ring across
// (spec.md §4.8, the half_tanh/inter reionization schemes).
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear builds a linear interpolator over a (possibly non-uniform,
// increasing or decreasing) table.
func NewLinear(xs, vals []float64) *Linear {
	if len(xs) != len(vals) {
		panic("interpolate: len(xs) != len(vals)")
	}
	lin := &Linear{}
	lin.xs.init(xs)
	lin.vals = vals
	return lin
}

func (lin *Linear) Eval(x float64) float64 { return lin.EvalCursor(x, Normal, nil) }

func (lin *Linear) EvalCursor(x float64, mode CursorMode, cur *Cursor) float64 {
	i1 := lin.xs.search(x, mode, cur)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]
	return (v2-v1)/(x2-x1)*(x-x1) + v1
}

func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	var o []float64
	if len(out) == 0 {
		o = make([]float64, len(xs))
	} else {
		o = out[0]
	}
	var cur Cursor
	for i, x := range xs {
		o[i] = lin.EvalCursor(x, CloseBy, &cur)
	}
	return o
}

// BiLinear is a bilinear interpolator over a rectangular (x, y) grid,
// used for the BBN helium table's (ωb, ΔNeff) -> YHe lookup
// (spec.md §6).
type BiLinear struct {
	xs, ys searcher
	vals   []float64
	nx     int
}

// NewBiLinear builds a bilinear interpolator. vals is indexed
// vals[ix + iy*len(xs)].
func NewBiLinear(xs, ys, vals []float64) *BiLinear {
	bi := &BiLinear{}
	bi.xs.init(xs)
	bi.ys.init(ys)
	bi.nx = len(xs)
	bi.vals = vals
	if len(xs)*len(ys) != len(vals) {
		panic(fmt.Sprintf("interpolate: len(vals)=%d but nx=%d ny=%d",
			len(vals), len(xs), len(ys)))
	}
	return bi
}

func (bi *BiLinear) Eval(x, y float64) float64 {
	ix1 := bi.xs.search(x, Normal, nil)
	iy1 := bi.ys.search(y, Normal, nil)
	ix2, iy2 := ix1+1, iy1+1

	x1, x2 := bi.xs.val(ix1), bi.xs.val(ix2)
	y1, y2 := bi.ys.val(iy1), bi.ys.val(iy2)

	i11, i12 := ix1+bi.nx*iy1, ix1+bi.nx*iy2
	i21, i22 := ix2+bi.nx*iy1, ix2+bi.nx*iy2
	v11, v12 := bi.vals[i11], bi.vals[i12]
	v21, v22 := bi.vals[i21], bi.vals[i22]

	dx, dy := x2-x1, y2-y1
	dx1, dx2 := x-x1, x2-x
	dy1, dy2 := y-y1, y2-y
	return (v11*dx2*dy2 + v12*dx2*dy1 + v21*dx1*dy2 + v22*dx1*dy1) / (dx * dy)
}

func (bi *BiLinear) EvalAll(xs, ys []float64, out ...[]float64) []float64 {
	var o []float64
	if len(out) == 0 {
		o = make([]float64, len(xs))
	} else {
		o = out[0]
	}
	for i := range xs {
		o[i] = bi.Eval(xs[i], ys[i])
	}
	return o
}
