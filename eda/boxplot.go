package eda

import (
	"math"

	"github.com/giygas/drugs-eda/dataset"
)

// whiskerFactor is the IQR multiple beyond which points are outliers
const whiskerFactor = 1.5

// BoxStats are the box-plot statistics of one group
type BoxStats struct {
	Group        string    `json:"group"`
	N            int       `json:"n"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// NewBoxStats computes quartiles, whiskers and outliers of values. The whiskers sit on
// the most extreme values within 1.5 IQR of the box.
func NewBoxStats(group string, values []float64) BoxStats {
	b := BoxStats{Group: group, N: len(values), Outliers: []float64{}}
	if len(values) == 0 {
		nan := math.NaN()
		b.Q1, b.Median, b.Q3, b.LowerWhisker, b.UpperWhisker = nan, nan, nan, nan, nan
		return b
	}

	sorted := sortedCopy(values)
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)

	iqr := b.Q3 - b.Q1
	lowFence := b.Q1 - whiskerFactor*iqr
	highFence := b.Q3 + whiskerFactor*iqr

	b.LowerWhisker = math.Inf(1)
	b.UpperWhisker = math.Inf(-1)
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}
	return b
}

// GroupBoxStats groups values by label, in order of first appearance, and computes the
// box statistics of each group. Markers are dropped and groups left without any valid
// value are omitted.
func GroupBoxStats(groups []string, values []dataset.Number) []BoxStats {
	order := []string{}
	buckets := make(map[string][]float64)

	for i, g := range groups {
		if i >= len(values) || !values[i].Valid {
			continue
		}
		if _, ok := buckets[g]; !ok {
			order = append(order, g)
		}
		buckets[g] = append(buckets[g], values[i].Value)
	}

	out := make([]BoxStats, 0, len(order))
	for _, g := range order {
		out = append(out, NewBoxStats(g, buckets[g]))
	}
	return out
}

// RatingsByClass computes the rating box statistics per drug class of t
func RatingsByClass(t *dataset.Table) []BoxStats {
	return GroupBoxStats(t.Texts(dataset.ColDrugClasses), t.Numbers(dataset.ColRating))
}

// ValueRange returns the smallest and largest value drawn by a set of box plots
func ValueRange(stats []BoxStats) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, b := range stats {
		if b.N == 0 {
			continue
		}
		lo = math.Min(lo, b.LowerWhisker)
		hi = math.Max(hi, b.UpperWhisker)
		for _, o := range b.Outliers {
			lo = math.Min(lo, o)
			hi = math.Max(hi, o)
		}
	}
	return lo, hi
}
