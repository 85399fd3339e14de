package charts

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/giygas/drugs-eda/eda"
)

// coolwarm anchors, from -1 to 1
var (
	coolwarmLow  = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	coolwarmMid  = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	coolwarmHigh = drawing.Color{R: 180, G: 4, B: 38, A: 255}
)

// Diverging maps a correlation in [-1, 1] onto a blue-white-red scale.
// NaN maps to gray.
func Diverging(v float64) drawing.Color {
	if math.IsNaN(v) {
		return colorMissing
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerp(coolwarmMid, coolwarmLow, -v)
	}
	return lerp(coolwarmMid, coolwarmHigh, v)
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// RenderHeatmap draws the correlation matrix as annotated cells, first column on the
// left and first row on top. Undefined correlations are left blank.
func RenderHeatmap(w io.Writer, title string, m *eda.CorrMatrix, size Size) error {
	if m == nil || len(m.Columns) == 0 {
		return RenderEmpty(w, title, size)
	}
	size = size.orDefault()

	k := len(m.Columns)
	p := plotRange{xMin: 0, xMax: float64(k), yMin: 0, yMax: float64(k)}

	yTicks := make([]chart.Tick, 0, k+2)
	yTicks = append(yTicks, chart.Tick{Value: 0, Label: ""})
	for i := k - 1; i >= 0; i-- {
		yTicks = append(yTicks, chart.Tick{Value: float64(k-i) - 0.5, Label: m.Columns[i]})
	}
	yTicks = append(yTicks, chart.Tick{Value: float64(k), Label: ""})

	ch := chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(20),
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: p.xMin, Max: p.xMax},
			Ticks: categoryTicks(m.Columns),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: p.yMin, Max: p.yMax},
			Ticks: yTicks,
		},
		Series: []chart.Series{anchorSeries(p)},
	}

	ch.Elements = []chart.Renderable{
		func(r chart.Renderer, box chart.Box, defaults chart.Style) {
			for i := 0; i < k; i++ {
				top := float64(k - i)
				for j := 0; j < k; j++ {
					v := m.Values[i][j]
					cell := chart.Box{
						Left:   p.x(box, float64(j)),
						Right:  p.x(box, float64(j+1)),
						Top:    p.y(box, top),
						Bottom: p.y(box, top-1),
					}
					chart.Draw.Box(r, cell, chart.Style{
						FillColor:   Diverging(v),
						StrokeColor: drawing.ColorWhite,
						StrokeWidth: 1,
					})
					if math.IsNaN(v) {
						continue
					}
					textColor := colorOutline
					if math.Abs(v) > 0.6 {
						textColor = drawing.ColorWhite
					}
					centeredText(r, defaults, fmt.Sprintf("%.2f", v),
						p.x(box, float64(j)+0.5), p.y(box, top-0.5), textColor)
				}
			}
		},
	}
	return render(w, ch)
}
