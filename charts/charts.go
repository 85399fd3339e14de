// Package charts renders the EDA aggregates as PNG images with go-chart.
//
// The histogram uses plain go-chart series. Bars, box plots and heatmap cells are drawn
// by chart elements that map data coordinates onto the canvas box, with a transparent
// anchor series fixing the ranges.
package charts

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// DefaultWidth and DefaultHeight are the image size of every chart
	DefaultWidth  = 900
	DefaultHeight = 540

	labelFontSize = 10
)

var (
	// ColorSkyBlue fills the top conditions bars
	ColorSkyBlue = drawing.ColorFromHex("87CEEB")
	// ColorSalmon fills the top side effects bars
	ColorSalmon = drawing.ColorFromHex("FA8072")
	// ColorHistogram fills the rating histogram
	ColorHistogram = drawing.ColorFromHex("4C72B0")

	colorOutline = drawing.ColorFromHex("333333")
	colorBox     = drawing.ColorFromHex("8FAADC")
	colorMissing = drawing.ColorFromHex("D9D9D9")
)

// Size is the pixel size of a rendered chart
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a zero Size is passed
var DefaultSize = Size{Width: DefaultWidth, Height: DefaultHeight}

func (s Size) orDefault() Size {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSize
	}
	return s
}

// plotRange maps data coordinates to canvas pixels
type plotRange struct {
	xMin, xMax float64
	yMin, yMax float64
}

func (p plotRange) x(box chart.Box, v float64) int {
	return box.Left + int(math.Round((v-p.xMin)/(p.xMax-p.xMin)*float64(box.Width())))
}

func (p plotRange) y(box chart.Box, v float64) int {
	return box.Bottom - int(math.Round((v-p.yMin)/(p.yMax-p.yMin)*float64(box.Height())))
}

// anchorSeries is an invisible series spanning the plot range, go-chart refuses to
// render a chart without any series
func anchorSeries(p plotRange) chart.Series {
	return chart.ContinuousSeries{
		Name:    "anchor",
		XValues: []float64{p.xMin, p.xMax},
		YValues: []float64{p.yMin, p.yMax},
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
			StrokeWidth: 0.1,
		},
	}
}

// categoryTicks places one labelled tick in the middle of each unit slot
func categoryTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: 0, Label: ""})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i) + 0.5, Label: truncate(l, 40)})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(labels)), Label: ""})
	return ticks
}

// valueTicks returns evenly spaced numeric ticks over [lo, hi]
func valueTicks(lo, hi float64, n int) []chart.Tick {
	ticks := make([]chart.Tick, 0, n+1)
	step := (hi - lo) / float64(n)
	for i := 0; i <= n; i++ {
		v := lo + float64(i)*step
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

// countTicks returns integer ticks from 0 up to top, about five of them
func countTicks(top float64) []chart.Tick {
	step := math.Max(1, math.Ceil(top/5))
	var ticks []chart.Tick
	for v := 0.0; v <= top; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// centeredText draws text centred on (x, y)
func centeredText(r chart.Renderer, defaults chart.Style, text string, x, y int, color drawing.Color) {
	style := chart.Style{Font: defaults.Font, FontSize: labelFontSize, FontColor: color}
	r.SetFont(defaults.Font)
	r.SetFontSize(labelFontSize)
	tb := r.MeasureText(text)
	chart.Draw.Text(r, text, x-tb.Width()/2, y+tb.Height()/2, style)
}

func background(bottom int) chart.Style {
	return chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: bottom}}
}

func render(w io.Writer, ch chart.Chart) error {
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", ch.Title, err)
	}
	return nil
}

// RenderEmpty renders a placeholder for a chart without data
func RenderEmpty(w io.Writer, title string, size Size) error {
	size = size.orDefault()
	p := plotRange{xMin: 0, xMax: 1, yMin: 0, yMax: 1}

	ch := chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(20),
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series:     []chart.Series{anchorSeries(p)},
	}
	ch.Elements = []chart.Renderable{
		func(r chart.Renderer, box chart.Box, defaults chart.Style) {
			centeredText(r, defaults, "No data for this selection", p.x(box, 0.5), p.y(box, 0.5), colorOutline)
		},
	}
	return render(w, ch)
}
