// Package table holds the in-memory representation of an imported time series
// dataset: a named, ordered set of equally long numeric columns.
//
// Missing samples are stored as NaN. Every function in this package treats
// NaN as "no value present"; there is no separate validity mask.
package table

import (
	"fmt"
	"math"
)

// Column is a single named signal.
type Column struct {
	Name   string
	Values []float64
}

// Table is a named dataset of columns sharing the same row count.
// Name identifies the dataset (usually the source file's base name) and is
// carried unchanged through interpolation.
type Table struct {
	Name    string
	Columns []Column
}

// New builds a table from column headers and row-major values.
// Every row must have exactly len(headers) values.
func New(name string, headers []string, rows [][]float64) (*Table, error) {
	cols := make([]Column, len(headers))
	for i, h := range headers {
		cols[i] = Column{Name: h, Values: make([]float64, len(rows))}
	}

	for r, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", r, len(row), len(headers))
		}
		for c, v := range row {
			cols[c].Values[r] = v
		}
	}

	return &Table{Name: name, Columns: cols}, nil
}

// Rows returns the number of rows. A table without columns has zero rows.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Headers returns the column names in order.
func (t *Table) Headers() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// CountMissing returns the total number of NaN cells across all columns.
func (t *Table) CountMissing() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, c := range t.Columns {
		for _, v := range c.Values {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name, Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		vals := make([]float64, len(c.Values))
		copy(vals, c.Values)
		out.Columns[i] = Column{Name: c.Name, Values: vals}
	}
	return out
}

// Equal reports whether both tables have the same name, columns and values.
// Two NaN cells at the same position compare equal.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Name != o.Name || len(t.Columns) != len(o.Columns) {
		return false
	}
	for i := range t.Columns {
		a, b := t.Columns[i], o.Columns[i]
		if a.Name != b.Name || len(a.Values) != len(b.Values) {
			return false
		}
		for j := range a.Values {
			x, y := a.Values[j], b.Values[j]
			if math.IsNaN(x) && math.IsNaN(y) {
				continue
			}
			if x != y {
				return false
			}
		}
	}
	return true
}
