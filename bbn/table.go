// Package bbn reads the BBN helium-abundance table and exposes it as a
// bilinear interpolator (ωb, ΔN_eff) -> Y_He. Grounded on the teacher's
// text-table parsing style (parse/config.go's line-oriented scanning)
// and its interpolate.BiLinear (math/interpolate/linear_interpolators.go
// in the reference pack).
package bbn

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cosmogo/thermohistory/interpolate"
)

// Table is a bilinear-interpolated BBN helium table, mapping
// (omega_b, delta_Neff) to Y_He.
type Table struct {
	omegaB    []float64
	deltaNeff []float64
	interp    *interpolate.BiLinear
}

// isCommentByte reports whether the byte b starts a comment or blank
// line, per spec.md §6: "first non-blank character has ASCII value
// <= 39" (covers '#', '%', and whitespace).
func isCommentByte(b byte) bool { return b <= 39 }

// Load reads a BBN table file. The format is whitespace-separated
// plain text: the first non-comment line holds two integers
// (N_omega, N_delta); each subsequent non-comment line holds three
// floats (omega_b, delta_Neff, Y_He), with omega_b varying fastest.
func Load(fname string) (*Table, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("bbn: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a BBN table from r in the format Load expects.
func Parse(r io.Reader) (*Table, error) {
	lines, err := readSignificantLines(r)
	if err != nil {
		return nil, fmt.Errorf("bbn: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("bbn: empty table")
	}

	nOmega, nDelta, err := parseDims(lines[0])
	if err != nil {
		return nil, fmt.Errorf("bbn: header: %w", err)
	}
	rows := lines[1:]
	want := nOmega * nDelta
	if len(rows) != want {
		return nil, fmt.Errorf(
			"bbn: header declares %d x %d = %d rows, found %d",
			nOmega, nDelta, want, len(rows),
		)
	}

	omegaSet := make([]float64, 0, nOmega)
	deltaSet := make([]float64, 0, nDelta)
	yHe := make([]float64, want)

	for i, line := range rows {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("bbn: row %d: expected 3 fields, got %d", i, len(fields))
		}
		ob, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bbn: row %d: omega_b: %w", i, err)
		}
		dn, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bbn: row %d: delta_Neff: %w", i, err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bbn: row %d: Y_He: %w", i, err)
		}
		yHe[i] = y

		iOmega := i % nOmega
		iDelta := i / nOmega
		if iDelta == 0 {
			omegaSet = append(omegaSet, ob)
		}
		if iOmega == 0 {
			deltaSet = append(deltaSet, dn)
		}
	}

	if len(omegaSet) != nOmega || len(deltaSet) != nDelta {
		return nil, fmt.Errorf("bbn: malformed grid: got %d omega_b and %d delta_Neff axis values",
			len(omegaSet), len(deltaSet))
	}

	return &Table{
		omegaB:    omegaSet,
		deltaNeff: deltaSet,
		interp:    interpolate.NewBiLinear(omegaSet, deltaSet, yHe),
	}, nil
}

func parseDims(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two integers, got %q", line)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("N_omega: %w", err)
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("N_delta: %w", err)
	}
	if n < 2 || m < 2 {
		return 0, 0, fmt.Errorf("table axes must have at least two points each, got (%d, %d)", n, m)
	}
	return n, m, nil
}

func readSignificantLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	var out []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) == 0 || isCommentByte(line[0]) {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// YHe returns the interpolated primordial helium mass fraction at the
// given baryon density parameter omega_b = Omega_b*h^2 and effective
// extra-neutrino-species count delta_Neff. It returns a descriptive
// error if the query falls outside the tabulated range.
func (t *Table) YHe(omegaB, deltaNeff float64) (float64, error) {
	lo, hi := t.omegaB[0], t.omegaB[len(t.omegaB)-1]
	if omegaB < minf(lo, hi) || omegaB > maxf(lo, hi) {
		return 0, fmt.Errorf("bbn: omega_b=%g outside tabulated range [%g, %g]", omegaB, lo, hi)
	}
	lo, hi = t.deltaNeff[0], t.deltaNeff[len(t.deltaNeff)-1]
	if deltaNeff < minf(lo, hi) || deltaNeff > maxf(lo, hi) {
		return 0, fmt.Errorf("bbn: delta_Neff=%g outside tabulated range [%g, %g]", deltaNeff, lo, hi)
	}
	return t.interp.Eval(omegaB, deltaNeff), nil
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
