package table

import (
	"math"

	"gonum.org/v1/gonum/interp"
)

// Interpolate returns a copy of t where every missing cell bracketed by known
// values in the same column is replaced by the straight-line value between its
// nearest known neighbours, by row order.
//
// Leading and trailing missing runs have no neighbour on one side and are left
// as NaN; nothing is extrapolated. The dataset name is preserved.
// The second return value is the number of cells that were filled. A gap
// bracketed by an infinite value has no finite line through it and stays NaN.
func Interpolate(t *Table) (*Table, int) {
	out := t.Clone()
	filled := 0
	for i := range out.Columns {
		filled += interpolateColumn(out.Columns[i].Values)
	}
	return out, filled
}

// interpolateColumn fills interior NaN gaps of vals in place.
func interpolateColumn(vals []float64) int {
	xs := make([]float64, 0, len(vals))
	ys := make([]float64, 0, len(vals))
	for i, v := range vals {
		if !math.IsNaN(v) {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}

	// Fewer than two known points leaves nothing to bracket a gap.
	if len(xs) < 2 || len(xs) == len(vals) {
		return 0
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return 0
	}

	first, last := int(xs[0]), int(xs[len(xs)-1])
	filled := 0
	for i := first + 1; i < last; i++ {
		if !math.IsNaN(vals[i]) {
			continue
		}
		v := pl.Predict(float64(i))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		vals[i] = v
		filled++
	}
	return filled
}
