package interpolate

import "fmt"

// CursorMode selects how a lookup locates its bracketing interval.
// Normal always does a fresh binary search; CloseBy resumes from the
// caller-supplied cursor, which is the fast path for monotone sweeps
// across z (spec.md §4.8 "two cursor modes").
type CursorMode int

const (
	Normal CursorMode = iota
	CloseBy
)

// Cursor is an opaque, caller-owned hint that makes repeated nearby
// lookups O(1) instead of O(log n). Its zero value is a valid starting
// point. A Cursor must not be shared between goroutines.
type Cursor struct {
	idx int
}

// searcher locates the bracketing interval [xs[i], xs[i+1]] for a query
// point, either over an explicit (possibly non-uniform) table or over an
// implicit uniform grid. Mirrors the teacher's bsearch-with-a-uniform-
// guess strategy used throughout the interpolation package.
type searcher struct {
	xs        []float64
	x0, dx    float64
	lim       float64
	n         int
	unif      bool
	incr      bool
}

func (s *searcher) init(xs []float64) {
	if len(xs) < 2 {
		panic("interpolate: table must have at least two points")
	}
	s.xs = xs
	s.x0 = xs[0]
	s.lim = xs[len(xs)-1]
	s.dx = (s.lim - s.x0) / float64(len(xs)-1)
	s.n = len(xs)
	s.unif = false
	s.incr = s.dx > 0
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	s.xs = nil
	s.x0 = x0
	s.dx = dx
	s.n = n
	s.lim = float64(n-1)*dx + x0
	s.unif = true
	s.incr = dx > 0
}

// search returns the index i such that x lies in [val(i), val(i+1)]
// (for increasing tables) using the cursor to skip the binary search
// when the previous lookup landed nearby.
func (s *searcher) search(x float64, mode CursorMode, cur *Cursor) int {
	if (x < s.x0) == s.incr && x != s.x0 {
		panic(fmt.Sprintf("interpolate: value %g below table start %g", x, s.x0))
	}
	if (x > s.lim) == s.incr && x != s.lim {
		panic(fmt.Sprintf("interpolate: value %g above table end %g", x, s.lim))
	}

	if s.unif {
		idx := int((x - s.x0) / s.dx)
		if idx >= s.n-1 {
			idx = s.n - 2
		}
		if idx < 0 {
			idx = 0
		}
		return idx
	}

	if mode == CloseBy && cur != nil {
		i := cur.idx
		if i >= 0 && i < s.n-1 && s.brackets(x, i) {
			return i
		}
	}

	// Guess assuming roughly uniform spacing, then fall back to binary
	// search — identical strategy to the teacher's Spline.bsearch.
	guess := int((x - s.xs[0]) / s.dx)
	if guess >= 0 && guess < s.n-1 && s.brackets(x, guess) {
		if cur != nil {
			cur.idx = guess
		}
		return guess
	}

	lo, hi := 0, s.n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.incr == (x >= s.xs[mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}
	if lo == s.n-1 {
		lo--
	}
	if cur != nil {
		cur.idx = lo
	}
	return lo
}

func (s *searcher) brackets(x float64, i int) bool {
	return (s.xs[i] <= x == s.incr) && (s.xs[i+1] >= x == s.incr)
}

func (s *searcher) val(i int) float64 {
	if s.unif {
		return float64(i)*s.dx + s.x0
	}
	return s.xs[i]
}
