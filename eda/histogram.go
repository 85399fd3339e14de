package eda

import (
	"math"

	"github.com/giygas/drugs-eda/dataset"
)

const (
	// DefaultBins is the number of histogram bins used for ratings
	DefaultBins = 10
	kdeGridSize = 200
)

// Bin is one histogram bar. The last bin of a histogram includes its upper edge.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Point is a sample of the density curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Histogram holds the bins of the valid values and the density curve scaled to counts
type Histogram struct {
	N        int     `json:"n"`
	BinWidth float64 `json:"bin_width"`
	Bins     []Bin   `json:"bins"`
	Density  []Point `json:"density"`
}

// Empty reports whether the histogram has no data
func (h *Histogram) Empty() bool {
	return h == nil || h.N == 0
}

// MaxCount returns the tallest bar
func (h *Histogram) MaxCount() int {
	m := 0
	for _, b := range h.Bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// NewHistogram bins the valid numbers into equal-width bins over [min, max].
// When every value is the same v the range becomes [v-0.5, v+0.5].
// The density curve is a Gaussian KDE with Scott's bandwidth, omitted below two
// values or when the values do not vary.
func NewHistogram(nums []dataset.Number, bins int) *Histogram {
	if bins <= 0 {
		bins = DefaultBins
	}
	xs := Valid(nums)
	h := &Histogram{N: len(xs), Bins: []Bin{}, Density: []Point{}}
	if len(xs) == 0 {
		return h
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	h.BinWidth = width
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i].Lo = lo + float64(i)*width
		h.Bins[i].Hi = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Hi = hi

	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		h.Bins[i].Count++
	}

	h.Density = kde(xs, width)
	return h
}

// kde evaluates the Gaussian kernel density estimate over [min, max] and scales it
// by n times the bin width so that it overlays a count histogram.
func kde(xs []float64, binWidth float64) []Point {
	n := len(xs)
	if n < 2 {
		return []Point{}
	}
	_, std := MeanStd(xs)
	if math.IsNaN(std) || std == 0 {
		return []Point{}
	}

	bw := std * math.Pow(float64(n), -0.2)
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	norm := 1 / (float64(n) * bw * math.Sqrt(2*math.Pi))
	scale := float64(n) * binWidth
	step := (hi - lo) / float64(kdeGridSize-1)

	points := make([]Point, kdeGridSize)
	for i := range points {
		x := lo + float64(i)*step
		density := 0.0
		for _, xi := range xs {
			z := (x - xi) / bw
			density += math.Exp(-0.5 * z * z)
		}
		points[i] = Point{X: x, Y: density * norm * scale}
	}
	return points
}
