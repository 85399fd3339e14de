package pipeline

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/giygas/drugs-eda/cleaning"
	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/eda"
	"github.com/giygas/drugs-eda/features"
	"github.com/giygas/drugs-eda/interfaces"
)

// Summary is the machine-readable record of one run, written as eda_summary.yaml
type Summary struct {
	RunID       string    `yaml:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Input       struct {
		Path    string `yaml:"path"`
		Rows    int    `yaml:"rows"`
		Columns int    `yaml:"columns"`
	} `yaml:"input"`

	Cleaning     *cleaning.Report              `yaml:"cleaning"`
	MissingAfter map[string]int                `yaml:"missing_after"`
	Quality      *interfaces.DataQualityReport `yaml:"quality"`

	Rating   eda.Summary         `yaml:"rating"`
	Describe []eda.ColumnSummary `yaml:"describe"`

	TopConditions  []eda.CategoryCount `yaml:"top_medical_conditions"`
	TopSideEffects []eda.CategoryCount `yaml:"top_side_effects"`
	TopDrugClasses []eda.CategoryCount `yaml:"top_drug_classes"`

	Correlation struct {
		Columns []string    `yaml:"columns"`
		Values  [][]float64 `yaml:"values"`
	} `yaml:"correlation"`

	LabelMappings map[string][]string `yaml:"label_mappings"`
	Scaler        *features.Scaler    `yaml:"scaler"`
	Outputs       []string            `yaml:"outputs"`
}

// Summary builds the run summary
func (r *Result) Summary() *Summary {
	s := &Summary{
		RunID:          r.RunID,
		GeneratedAt:    r.StartedAt.UTC().Truncate(time.Second),
		Cleaning:       r.Report,
		MissingAfter:   make(map[string]int),
		Quality:        r.Quality,
		Rating:         eda.Describe(r.Table.Numbers(dataset.ColRating)),
		Describe:       r.Describe,
		TopConditions:  r.Conditions.Top(r.TopN),
		TopSideEffects: r.SideEffects.Top(r.TopN),
		TopDrugClasses: r.DrugClasses.Top(r.TopN),
		LabelMappings:  r.Encoder.Classes(),
		Scaler:         r.Scaler,
		Outputs:        r.Outputs,
	}
	s.Input.Path = r.InputPath
	s.Input.Rows = r.Report.Rows
	s.Input.Columns = r.InputColumns

	for col, n := range r.Quality.EmptyText {
		s.MissingAfter[col] = n
	}
	for col, n := range r.Quality.NumericMarkers {
		s.MissingAfter[col] = n
	}

	if r.Correlation != nil {
		s.Correlation.Columns = r.Correlation.Columns
		s.Correlation.Values = r.Correlation.Values
	}
	return s
}

// WriteSummary writes the run summary as YAML
func (r *Result) WriteSummary(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Summary()); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return enc.Close()
}
