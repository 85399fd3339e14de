package charts

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/giygas/drugs-eda/eda"
)

const (
	minSlotWidth = 18
	maxWidth     = 6000
)

// RenderBoxPlot draws one box per group, in the order given. The image grows wider
// when there are too many groups to fit the requested size.
func RenderBoxPlot(w io.Writer, title, xLabel, yLabel string, stats []eda.BoxStats, size Size) error {
	groups := make([]eda.BoxStats, 0, len(stats))
	for _, s := range stats {
		if s.N > 0 {
			groups = append(groups, s)
		}
	}
	if len(groups) == 0 {
		return RenderEmpty(w, title, size)
	}
	size = size.orDefault()
	if need := len(groups)*minSlotWidth + 120; need > size.Width {
		size.Width = min(need, maxWidth)
	}

	lo, hi := eda.ValueRange(groups)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	p := plotRange{xMin: 0, xMax: float64(len(groups)), yMin: lo - pad, yMax: hi + pad}

	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Group
	}

	ch := chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(40),
		XAxis: chart.XAxis{
			Name:      xLabel,
			Range:     &chart.ContinuousRange{Min: p.xMin, Max: p.xMax},
			Ticks:     categoryTicks(labels),
			TickStyle: chart.Style{TextRotationDegrees: 90},
		},
		YAxis: chart.YAxis{
			Name:  yLabel,
			Range: &chart.ContinuousRange{Min: p.yMin, Max: p.yMax},
			Ticks: valueTicks(p.yMin, p.yMax, 5),
		},
		Series: []chart.Series{anchorSeries(p)},
	}

	boxStyle := chart.Style{FillColor: colorBox, StrokeColor: colorOutline, StrokeWidth: 1}
	ch.Elements = []chart.Renderable{
		func(r chart.Renderer, box chart.Box, defaults chart.Style) {
			for i, g := range groups {
				center := float64(i) + 0.5
				left, right := p.x(box, center-0.3), p.x(box, center+0.3)
				cx := p.x(box, center)

				line := func(x1, y1, x2, y2 int) {
					r.SetStrokeColor(colorOutline)
					r.SetStrokeWidth(1)
					r.MoveTo(x1, y1)
					r.LineTo(x2, y2)
					r.Stroke()
				}

				// Whiskers and caps
				line(cx, p.y(box, g.LowerWhisker), cx, p.y(box, g.Q1))
				line(cx, p.y(box, g.Q3), cx, p.y(box, g.UpperWhisker))
				capLeft, capRight := p.x(box, center-0.15), p.x(box, center+0.15)
				line(capLeft, p.y(box, g.LowerWhisker), capRight, p.y(box, g.LowerWhisker))
				line(capLeft, p.y(box, g.UpperWhisker), capRight, p.y(box, g.UpperWhisker))

				chart.Draw.Box(r, chart.Box{
					Left:   left,
					Right:  right,
					Top:    p.y(box, g.Q3),
					Bottom: p.y(box, g.Q1),
				}, boxStyle)
				line(left, p.y(box, g.Median), right, p.y(box, g.Median))

				for _, o := range g.Outliers {
					r.SetStrokeColor(colorOutline)
					r.SetStrokeWidth(1)
					r.Circle(2.5, cx, p.y(box, o))
					r.Stroke()
				}
			}
		},
	}
	return render(w, ch)
}
