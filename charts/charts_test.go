package charts

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/eda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePNG(t *testing.T, buf *bytes.Buffer, width, height int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, width, cfg.Width)
	assert.Equal(t, height, cfg.Height)
}

func ratings(vs ...float64) []dataset.Number {
	out := make([]dataset.Number, len(vs))
	for i, v := range vs {
		out[i] = dataset.Num(v)
	}
	return out
}

func TestRenderHistogram(t *testing.T) {
	h := eda.NewHistogram(ratings(1, 2, 2, 3, 5, 6.5, 7, 7, 8, 9.5, 10), eda.DefaultBins)

	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(&buf, "Distribution of Drug Ratings", "Rating", h, Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)
}

func TestRenderHistogramSingleValue(t *testing.T) {
	h := eda.NewHistogram(ratings(5, 5), eda.DefaultBins)

	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(&buf, "Distribution of Ratings", "Rating", h, Size{Width: 400, Height: 300}))
	requirePNG(t, &buf, 400, 300)
}

func TestRenderEmptyCharts(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, RenderHistogram(&buf, "empty", "Rating", eda.NewHistogram(nil, eda.DefaultBins), Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)

	buf.Reset()
	require.NoError(t, RenderBar(&buf, "empty", "Condition", nil, ColorSkyBlue, Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)

	buf.Reset()
	require.NoError(t, RenderBoxPlot(&buf, "empty", "Class", "Rating", nil, Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)

	buf.Reset()
	require.NoError(t, RenderHeatmap(&buf, "empty", &eda.CorrMatrix{}, Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)
}

func TestRenderBar(t *testing.T) {
	counts := []eda.CategoryCount{
		{Value: "Pain", Count: 12},
		{Value: "Acne", Count: 7},
		{Value: "A very long medical condition name that needs truncating on the axis", Count: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBar(&buf, "Top 10 Medical Conditions", "Medical Condition", counts, ColorSalmon, Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)
}

func TestRenderBoxPlot(t *testing.T) {
	stats := []eda.BoxStats{
		eda.NewBoxStats("Tetracyclines", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}),
		eda.NewBoxStats("Diuretics", []float64{7}),
		eda.NewBoxStats("Empty", nil),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBoxPlot(&buf, "Drug Ratings by Class", "Drug Class", "Rating", stats, Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)
}

func TestRenderBoxPlotGrowsWithGroups(t *testing.T) {
	stats := make([]eda.BoxStats, 100)
	for i := range stats {
		stats[i] = eda.NewBoxStats(string(rune('A'+i%26))+string(rune('a'+i/26)), []float64{float64(i % 10), 5})
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBoxPlot(&buf, "Drug Ratings by Class", "Drug Class", "Rating", stats, Size{}))
	requirePNG(t, &buf, 100*minSlotWidth+120, DefaultHeight)
}

func TestRenderHeatmap(t *testing.T) {
	m := &eda.CorrMatrix{
		Columns: []string{"rating", "no_of_reviews", "activity", "alcohol"},
		Values: [][]float64{
			{1, 0.42, -0.3, math.NaN()},
			{0.42, 1, 0.1, math.NaN()},
			{-0.3, 0.1, 1, math.NaN()},
			{math.NaN(), math.NaN(), math.NaN(), math.NaN()},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderHeatmap(&buf, "Correlation Heatmap", m, Size{}))
	requirePNG(t, &buf, DefaultWidth, DefaultHeight)
}

func TestDiverging(t *testing.T) {
	assert.Equal(t, coolwarmLow, Diverging(-1))
	assert.Equal(t, coolwarmMid, Diverging(0))
	assert.Equal(t, coolwarmHigh, Diverging(1))
	assert.Equal(t, coolwarmHigh, Diverging(3), "values are clamped")
	assert.Equal(t, colorMissing, Diverging(math.NaN()))
}
