package charts

import (
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/giygas/drugs-eda/eda"
)

// RenderHistogram draws the histogram bars with the density curve on top
func RenderHistogram(w io.Writer, title, xLabel string, h *eda.Histogram, size Size) error {
	if h.Empty() {
		return RenderEmpty(w, title, size)
	}
	size = size.orDefault()

	lo := h.Bins[0].Lo
	hi := h.Bins[len(h.Bins)-1].Hi
	top := float64(h.MaxCount())
	for _, p := range h.Density {
		top = math.Max(top, p.Y)
	}
	top *= 1.1

	// Bars as one outlined step polygon, dropping to zero between bins
	xs := []float64{lo}
	ys := []float64{0}
	for _, b := range h.Bins {
		c := float64(b.Count)
		xs = append(xs, b.Lo, b.Hi, b.Hi)
		ys = append(ys, c, c, 0)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "count",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: colorOutline,
				StrokeWidth: 1,
				FillColor:   ColorHistogram.WithAlpha(160),
			},
		},
	}
	if len(h.Density) > 0 {
		dx := make([]float64, len(h.Density))
		dy := make([]float64, len(h.Density))
		for i, p := range h.Density {
			dx[i], dy[i] = p.X, p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "density",
			XValues: dx,
			YValues: dy,
			Style: chart.Style{
				StrokeColor: ColorHistogram,
				StrokeWidth: 2.5,
			},
		})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(30),
		XAxis: chart.XAxis{
			Name:  xLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: valueTicks(lo, hi, len(h.Bins)),
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: top},
			Ticks: countTicks(top),
		},
		Series: series,
	}
	return render(w, ch)
}
