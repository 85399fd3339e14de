package charts

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/giygas/drugs-eda/eda"
)

// RenderBar draws one vertical bar per category, in the order given
func RenderBar(w io.Writer, title, xLabel string, counts []eda.CategoryCount, color drawing.Color, size Size) error {
	if len(counts) == 0 {
		return RenderEmpty(w, title, size)
	}
	size = size.orDefault()

	top := 0
	labels := make([]string, len(counts))
	for i, c := range counts {
		labels[i] = c.Value
		if c.Count > top {
			top = c.Count
		}
	}
	p := plotRange{xMin: 0, xMax: float64(len(counts)), yMin: 0, yMax: float64(top) * 1.1}

	ch := chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(40),
		XAxis: chart.XAxis{
			Name:      xLabel,
			Range:     &chart.ContinuousRange{Min: p.xMin, Max: p.xMax},
			Ticks:     categoryTicks(labels),
			TickStyle: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: p.yMin, Max: p.yMax},
			Ticks: countTicks(p.yMax),
		},
		Series: []chart.Series{anchorSeries(p)},
	}

	barStyle := chart.Style{FillColor: color, StrokeColor: colorOutline, StrokeWidth: 1}
	ch.Elements = []chart.Renderable{
		func(r chart.Renderer, box chart.Box, defaults chart.Style) {
			for i, c := range counts {
				x := float64(i)
				bar := chart.Box{
					Left:   p.x(box, x+0.1),
					Right:  p.x(box, x+0.9),
					Top:    p.y(box, float64(c.Count)),
					Bottom: p.y(box, 0),
				}
				chart.Draw.Box(r, bar, barStyle)
			}
		},
	}
	return render(w, ch)
}
