package dashboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/giygas/drugs-eda/charts"
)

// Chart names served by the dashboard
const (
	ChartRatings        = "ratings"
	ChartConditions     = "conditions"
	ChartSideEffects    = "side-effects"
	ChartRatingsByClass = "ratings-by-class"
)

// ChartNames lists the dashboard charts in page order
var ChartNames = []string{ChartRatings, ChartConditions, ChartSideEffects, ChartRatingsByClass}

// ErrUnknownChart is returned for a chart name outside ChartNames
var ErrUnknownChart = errors.New("unknown chart")

// chartSizes follow the figure proportions of each plot
var chartSizes = map[string]charts.Size{
	ChartRatings:        {Width: 600, Height: 400},
	ChartConditions:     {Width: 900, Height: 540},
	ChartSideEffects:    {Width: 900, Height: 540},
	ChartRatingsByClass: {Width: 1000, Height: 400},
}

// RenderChart renders one chart of v as PNG
func RenderChart(w io.Writer, name string, v *View) error {
	size, ok := chartSizes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}

	switch name {
	case ChartRatings:
		return charts.RenderHistogram(w, "Distribution of Ratings", "Rating", v.RatingHistogram, size)
	case ChartConditions:
		return charts.RenderBar(w, "Top Medical Conditions", "Medical Condition", v.TopConditions, charts.ColorSkyBlue, size)
	case ChartSideEffects:
		return charts.RenderBar(w, "Top Reported Side Effects", "Side Effect", v.TopSideEffects, charts.ColorSalmon, size)
	default:
		return charts.RenderBoxPlot(w, "Drug Ratings by Class", "Drug Class", "Rating", v.RatingsByClass, size)
	}
}
