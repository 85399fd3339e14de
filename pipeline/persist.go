package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/giygas/drugs-eda/charts"
	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/eda"
	"github.com/giygas/drugs-eda/features"
	"github.com/giygas/drugs-eda/logging"
)

// Output file names
const (
	CleanedFile          = "cleaned_drugs_dataset.csv"
	ConditionCountsFile  = "medical_condition_counts.csv"
	SideEffectCountsFile = "side_effect_counts.csv"
	DrugClassCountsFile  = "drug_classes_counts.csv"
	RatingsChartFile     = "ratings_distribution.png"
	ConditionsChartFile  = "top_conditions.png"
	SideEffectsChartFile = "top_side_effects.png"
	ByClassChartFile     = "ratings_by_class.png"
	HeatmapChartFile     = "correlation_heatmap.png"
	SummaryFile          = "eda_summary.yaml"
	FeaturesFile         = "features_scaled.csv"
)

type artifact struct {
	name  string
	write func(io.Writer) error
}

// renderCharts renders the five static charts in memory
func (r *Result) renderCharts() ([]artifact, error) {
	top := fmt.Sprintf("Top %d", r.TopN)
	specs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{RatingsChartFile, func(w io.Writer) error {
			return charts.RenderHistogram(w, "Distribution of Drug Ratings", "Rating", r.RatingHistogram, charts.Size{Width: 800, Height: 500})
		}},
		{ConditionsChartFile, func(w io.Writer) error {
			return charts.RenderBar(w, top+" Medical Conditions by Number of Drugs", "Medical Condition",
				r.Conditions.Top(r.TopN), charts.ColorSkyBlue, charts.Size{Width: 1000, Height: 600})
		}},
		{SideEffectsChartFile, func(w io.Writer) error {
			return charts.RenderBar(w, top+" Most Common Side Effects", "Side Effect",
				r.SideEffects.Top(r.TopN), charts.ColorSalmon, charts.Size{Width: 1000, Height: 600})
		}},
		{ByClassChartFile, func(w io.Writer) error {
			return charts.RenderBoxPlot(w, "Drug Ratings by Class", "Drug Class", "Rating", r.RatingsByClass, charts.Size{Width: 1200, Height: 600})
		}},
		{HeatmapChartFile, func(w io.Writer) error {
			return charts.RenderHeatmap(w, "Correlation Heatmap", r.Correlation, charts.Size{Width: 1000, Height: 600})
		}},
	}

	out := make([]artifact, 0, len(specs))
	for _, s := range specs {
		var buf bytes.Buffer
		if err := s.render(&buf); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", s.name, err)
		}
		png := buf.Bytes()
		out = append(out, artifact{name: s.name, write: func(w io.Writer) error {
			_, err := w.Write(png)
			return err
		}})
	}
	return out, nil
}

func (r *Result) artifacts(writeFeatures bool, rendered []artifact) []artifact {
	list := []artifact{
		{CleanedFile, func(w io.Writer) error { return dataset.WriteCSV(w, r.Table) }},
		{ConditionCountsFile, func(w io.Writer) error { return eda.WriteFrequencyCSV(w, r.Conditions) }},
		{SideEffectCountsFile, func(w io.Writer) error { return eda.WriteFrequencyCSV(w, r.SideEffects) }},
		{DrugClassCountsFile, func(w io.Writer) error { return eda.WriteFrequencyCSV(w, r.DrugClasses) }},
	}
	list = append(list, rendered...)
	if writeFeatures {
		list = append(list, artifact{FeaturesFile, func(w io.Writer) error { return features.WriteMatrixCSV(w, r.Features) }})
	}
	// The summary lists the outputs, so it goes last
	list = append(list, artifact{SummaryFile, func(w io.Writer) error { return r.WriteSummary(w) }})
	return list
}

// persist stages all files in a temporary directory inside dir and renames them into
// place once every file was written
func (r *Result) persist(dir string, writeFeatures bool, rendered []artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	staging, err := os.MkdirTemp(dir, ".drugs-eda-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			logging.Warn("Failed to remove staging directory", "path", staging, "error", err)
		}
	}()

	list := r.artifacts(writeFeatures, rendered)
	r.Outputs = make([]string, 0, len(list))
	for _, a := range list {
		r.Outputs = append(r.Outputs, a.name)
	}

	for _, a := range list {
		if err := writeFile(filepath.Join(staging, a.name), a.write); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.name, err)
		}
	}

	for _, a := range list {
		if err := os.Rename(filepath.Join(staging, a.name), filepath.Join(dir, a.name)); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", a.name, err)
		}
		logging.Debug("Output written", "file", filepath.Join(dir, a.name))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
