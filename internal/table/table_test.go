package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func singleColumn(name string, vals ...float64) *Table {
	return &Table{Name: name, Columns: []Column{{Name: "signal", Values: vals}}}
}

func TestNew(t *testing.T) {
	tbl, err := New("cells", []string{"a", "b"}, [][]float64{{1, 2}, {3, 4}, {5, nan}})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []string{"a", "b"}, tbl.Headers())
	assert.Equal(t, []float64{1, 3, 5}, tbl.Columns[0].Values)
	assert.Equal(t, 1, tbl.CountMissing())

	_, err = New("bad", []string{"a", "b"}, [][]float64{{1}})
	assert.Error(t, err)
}

func TestColumnLookup(t *testing.T) {
	tbl, err := New("x", []string{"time", "value"}, [][]float64{{0, 10}})
	require.NoError(t, err)

	c, ok := tbl.Column("value")
	require.True(t, ok)
	assert.Equal(t, []float64{10}, c.Values)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestCountMissing_NilTable(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.CountMissing())
	assert.Equal(t, 0, tbl.Rows())
}

func TestEqual(t *testing.T) {
	a := singleColumn("s", 1, nan, 3)
	b := singleColumn("s", 1, nan, 3)
	assert.True(t, a.Equal(b))

	b.Name = "other"
	assert.False(t, a.Equal(b))

	c := singleColumn("s", 1, 2, 3)
	assert.False(t, a.Equal(c))
}

func TestClone_IsDeep(t *testing.T) {
	a := singleColumn("s", 1, 2)
	b := a.Clone()
	b.Columns[0].Values[0] = 99
	assert.Equal(t, 1.0, a.Columns[0].Values[0])
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name       string
		input      []float64
		want       []float64
		wantFilled int
	}{
		{
			name:       "single interior gap",
			input:      []float64{1, nan, 3},
			want:       []float64{1, 2, 3},
			wantFilled: 1,
		},
		{
			name:       "longer interior run",
			input:      []float64{0, nan, nan, nan, 8},
			want:       []float64{0, 2, 4, 6, 8},
			wantFilled: 3,
		},
		{
			name:       "leading gap is not extrapolated",
			input:      []float64{nan, 1, 2},
			want:       []float64{nan, 1, 2},
			wantFilled: 0,
		},
		{
			name:       "trailing gap is not extrapolated",
			input:      []float64{1, 2, nan, nan},
			want:       []float64{1, 2, nan, nan},
			wantFilled: 0,
		},
		{
			name:       "mixed edges and interior",
			input:      []float64{nan, 10, nan, 30, nan},
			want:       []float64{nan, 10, 20, 30, nan},
			wantFilled: 1,
		},
		{
			name:       "single known point",
			input:      []float64{nan, 5, nan},
			want:       []float64{nan, 5, nan},
			wantFilled: 0,
		},
		{
			name:       "all missing",
			input:      []float64{nan, nan},
			want:       []float64{nan, nan},
			wantFilled: 0,
		},
		{
			name:       "decreasing values",
			input:      []float64{3, nan, 1},
			want:       []float64{3, 2, 1},
			wantFilled: 1,
		},
		{
			name:       "gaps next to an infinite value stay missing",
			input:      []float64{1, nan, math.Inf(1), nan, nan, 4},
			want:       []float64{1, nan, math.Inf(1), nan, nan, 4},
			wantFilled: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, filled := Interpolate(singleColumn("series", tt.input...))
			assert.Equal(t, tt.wantFilled, filled)
			assert.True(t, got.Equal(singleColumn("series", tt.want...)),
				"got %v, want %v", got.Columns[0].Values, tt.want)
		})
	}
}

func TestInterpolate_NoMissingReturnsEqualTable(t *testing.T) {
	in, err := New("clean", []string{"a", "b"}, [][]float64{{1, 4}, {2, 5}, {3, 6}})
	require.NoError(t, err)

	out, filled := Interpolate(in)
	assert.Zero(t, filled)
	assert.True(t, in.Equal(out))
}

func TestInterpolate_PreservesNameAndInput(t *testing.T) {
	in := singleColumn("cell_line_7", 1, nan, 3)

	out, _ := Interpolate(in)
	assert.Equal(t, "cell_line_7", out.Name)
	assert.True(t, math.IsNaN(in.Columns[0].Values[1]), "input must not be mutated")
}

func TestInterpolate_ColumnsIndependent(t *testing.T) {
	in, err := New("two", []string{"a", "b"}, [][]float64{
		{1, nan},
		{nan, 10},
		{3, nan},
		{nan, 30},
	})
	require.NoError(t, err)

	out, filled := Interpolate(in)
	assert.Equal(t, 2, filled)

	a, _ := out.Column("a")
	b, _ := out.Column("b")
	assert.InDelta(t, 2.0, a.Values[1], 1e-12)
	assert.True(t, math.IsNaN(a.Values[3]))
	assert.True(t, math.IsNaN(b.Values[0]))
	assert.InDelta(t, 20.0, b.Values[2], 1e-12)
}
