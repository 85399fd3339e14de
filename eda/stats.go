// Package eda computes the descriptive aggregates of the drugs dataset: frequency
// tables, summary statistics, the rating histogram with its density curve, grouped
// box-plot statistics and the correlation matrix of the numeric columns.
//
// Every function takes the data it works on as a parameter and returns plain values,
// so the clean stage and the dashboard share the same computations.
package eda

import (
	"math"
	"sort"

	"github.com/giygas/drugs-eda/dataset"
)

// Summary is the describe() output of one numeric column
type Summary struct {
	Count  int     `yaml:"count" json:"count"`
	Mean   float64 `yaml:"mean" json:"mean"`
	Std    float64 `yaml:"std" json:"std"`
	Min    float64 `yaml:"min" json:"min"`
	Q1     float64 `yaml:"q1" json:"q1"`
	Median float64 `yaml:"median" json:"median"`
	Q3     float64 `yaml:"q3" json:"q3"`
	Max    float64 `yaml:"max" json:"max"`
}

// ColumnSummary pairs a column name with its Summary
type ColumnSummary struct {
	Column  string  `yaml:"column"`
	Summary Summary `yaml:"summary"`
}

// welford accumulates mean and variance in one pass
type welford struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

func newWelford() *welford {
	return &welford{min: math.Inf(1), max: math.Inf(-1)}
}

func (w *welford) add(x float64) {
	w.n++
	if x < w.min {
		w.min = x
	}
	if x > w.max {
		w.max = x
	}
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// std returns the sample standard deviation, NaN below two values
func (w *welford) std() float64 {
	if w.n < 2 {
		return math.NaN()
	}
	return math.Sqrt(w.m2 / float64(w.n-1))
}

// Valid returns the values of the valid numbers, dropping markers
func Valid(nums []dataset.Number) []float64 {
	out := make([]float64, 0, len(nums))
	for _, n := range nums {
		if n.Valid {
			out = append(out, n.Value)
		}
	}
	return out
}

// MeanStd returns the sample mean and sample standard deviation of xs.
// Both are NaN for an empty slice, the std is NaN for a single value.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	w := newWelford()
	for _, x := range xs {
		w.add(x)
	}
	return w.mean, w.std()
}

// Describe summarises the valid values of a numeric column
func Describe(nums []dataset.Number) Summary {
	xs := Valid(nums)
	if len(xs) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}

	w := newWelford()
	for _, x := range xs {
		w.add(x)
	}
	sorted := sortedCopy(xs)

	return Summary{
		Count:  w.n,
		Mean:   w.mean,
		Std:    w.std(),
		Min:    w.min,
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    w.max,
	}
}

// DescribeColumns summarises every numeric column of t in header order
func DescribeColumns(t *dataset.Table) []ColumnSummary {
	cols := t.NumericHeader()
	out := make([]ColumnSummary, 0, len(cols))
	for _, col := range cols {
		out = append(out, ColumnSummary{Column: col, Summary: Describe(t.Numbers(col))})
	}
	return out
}

func sortedCopy(xs []float64) []float64 {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	return cp
}

// quantile interpolates linearly between the closest ranks of a sorted slice
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
