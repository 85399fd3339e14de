// Package pipeline runs the batch stage of drugs-eda: read the raw export, clean it,
// compute the exploratory aggregates and the feature matrix, then persist every
// artifact into the output directory in one atomic step.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"github.com/giygas/drugs-eda/cleaning"
	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/eda"
	"github.com/giygas/drugs-eda/features"
	"github.com/giygas/drugs-eda/interfaces"
	"github.com/giygas/drugs-eda/logging"
	"github.com/giygas/drugs-eda/validation"
)

// Options configures a pipeline run
type Options struct {
	InputPath     string
	OutputDir     string
	Cleaning      cleaning.Options
	WriteFeatures bool
	TopN          int
	// Progress receives a progress bar over the stages; nil disables it
	Progress io.Writer
}

// DefaultOptions returns the options of a plain `clean` run
func DefaultOptions() Options {
	return Options{
		InputPath: "drugs_side_effects_drugs_com.csv",
		OutputDir: ".",
		Cleaning:  cleaning.DefaultOptions(),
		TopN:      10,
	}
}

// Result holds everything one run computed
type Result struct {
	RunID        string
	StartedAt    time.Time
	InputPath    string
	InputColumns int

	Table   *dataset.Table
	Report  *cleaning.Report
	Quality *interfaces.DataQualityReport

	Describe        []eda.ColumnSummary
	Conditions      *eda.FrequencyTable
	SideEffects     *eda.FrequencyTable
	DrugClasses     *eda.FrequencyTable
	RatingHistogram *eda.Histogram
	RatingsByClass  []eda.BoxStats
	Correlation     *eda.CorrMatrix

	Encoder  *features.Encoder
	Scaler   *features.Scaler
	Features dataframe.DataFrame

	TopN int
	// Outputs lists the files written by Run, relative to the output directory
	Outputs []string
}

// Analyze cleans raw and computes every aggregate. It touches no file.
func Analyze(raw *dataset.RawTable, opt Options) (*Result, error) {
	if opt.TopN <= 0 {
		opt.TopN = DefaultOptions().TopN
	}

	validator := validation.NewDataValidator()
	if err := validator.ValidateSchema(raw.Header); err != nil {
		return nil, err
	}

	table, report, err := cleaning.Clean(raw, opt.Cleaning)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateCleaned(table); err != nil {
		return nil, fmt.Errorf("post-cleaning check failed: %w", err)
	}

	res := &Result{
		RunID:        uuid.NewString(),
		StartedAt:    time.Now(),
		InputPath:    opt.InputPath,
		InputColumns: len(raw.Header),
		Table:        table,
		Report:       report,
		Quality:      validator.ReportDataQuality(table),
		TopN:         opt.TopN,
	}

	res.Describe = eda.DescribeColumns(table)
	res.Conditions = eda.ColumnFrequencies(table, dataset.ColMedicalCondition)
	res.SideEffects = eda.ColumnFrequencies(table, dataset.ColSideEffects)
	res.DrugClasses = eda.ColumnFrequencies(table, dataset.ColDrugClasses)
	res.RatingHistogram = eda.NewHistogram(table.Numbers(dataset.ColRating), eda.DefaultBins)
	res.RatingsByClass = eda.RatingsByClass(table)
	res.Correlation = eda.Correlation(table)

	res.Encoder = features.FitEncoder(table)
	matrix, err := res.Encoder.Matrix(table)
	if err != nil {
		return nil, err
	}
	res.Features, res.Scaler, err = features.Standardize(matrix)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// stage names shown on the progress bar
var stages = []string{"read", "clean", "charts", "write"}

// Run executes the whole batch stage. On error nothing is left in the output directory.
func Run(ctx context.Context, opt Options) (*Result, error) {
	bar := newProgress(opt.Progress, len(stages))
	defer bar.finish()

	logging.Info("Pipeline started", "input", opt.InputPath, "output_dir", opt.OutputDir, "policy", opt.Cleaning.Policy)

	bar.stage("read")
	raw, err := dataset.ReadFile(opt.InputPath)
	if err != nil {
		return nil, err
	}
	logging.Info("Input loaded", "rows", humanize.Comma(int64(raw.Len())), "columns", len(raw.Header))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bar.stage("clean")
	res, err := Analyze(raw, opt)
	if err != nil {
		return nil, err
	}
	logging.Info("Dataset cleaned",
		"run_id", res.RunID,
		"rows", humanize.Comma(int64(res.Table.Len())),
		"parse_failures", res.Report.TotalParseFailures(),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bar.stage("charts")
	charts, err := res.renderCharts()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bar.stage("write")
	if err := res.persist(opt.OutputDir, opt.WriteFeatures, charts); err != nil {
		return nil, err
	}

	logging.Info("Pipeline finished",
		"run_id", res.RunID,
		"outputs", len(res.Outputs),
		"duration", time.Since(res.StartedAt).Round(time.Millisecond).String(),
	)
	return res, nil
}
