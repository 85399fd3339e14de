package eda

import (
	"math"

	"github.com/giygas/drugs-eda/dataset"
)

// CorrMatrix is a square Pearson correlation matrix. Undefined entries are NaN.
type CorrMatrix struct {
	Columns []string    `yaml:"columns"`
	Values  [][]float64 `yaml:"values"`
}

// Pearson computes the correlation over the positions where both x and y are valid.
// It is NaN with fewer than two such pairs or when either side does not vary.
func Pearson(x, y []dataset.Number) float64 {
	n := min(len(x), len(y))

	var xs, ys []float64
	for i := 0; i < n; i++ {
		if x[i].Valid && y[i].Valid {
			xs = append(xs, x[i].Value)
			ys = append(ys, y[i].Value)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(len(xs))
	my /= float64(len(ys))

	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}

	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

// Correlation computes the pairwise-complete correlation matrix of the numeric columns
// of t, in header order
func Correlation(t *dataset.Table) *CorrMatrix {
	cols := t.NumericHeader()
	data := make([][]dataset.Number, len(cols))
	for i, col := range cols {
		data[i] = t.Numbers(col)
	}

	m := &CorrMatrix{Columns: cols, Values: make([][]float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := Pearson(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// At returns the correlation between two named columns
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}
