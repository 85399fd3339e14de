// Package dashboard computes what the interactive page shows for one dropdown
// selection: the matching records, a preview and the data behind the four charts.
// Everything here is a pure function of the full table and the selection.
package dashboard

import (
	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/eda"
)

// All is the dropdown entry that disables a selector
const All = "All"

// Selection is the pair of dropdown values
type Selection struct {
	Condition string `json:"condition"`
	DrugClass string `json:"drug_class"`
}

// NewSelection normalises empty values to All
func NewSelection(condition, drugClass string) Selection {
	if condition == "" {
		condition = All
	}
	if drugClass == "" {
		drugClass = All
	}
	return Selection{Condition: condition, DrugClass: drugClass}
}

// IsAll reports whether neither selector is active
func (s Selection) IsAll() bool {
	return s.Condition == All && s.DrugClass == All
}

// Options tunes the view
type Options struct {
	PreviewRows   int
	TopN          int
	HistogramBins int
}

// DefaultOptions returns the options used by the dashboard page
func DefaultOptions() Options {
	return Options{PreviewRows: 20, TopN: 10, HistogramBins: eda.DefaultBins}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PreviewRows <= 0 {
		o.PreviewRows = d.PreviewRows
	}
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = d.HistogramBins
	}
	return o
}

// FilterOptions holds the dropdown entries, All first
type FilterOptions struct {
	Conditions  []string `json:"conditions"`
	DrugClasses []string `json:"drug_classes"`
}

// Filters returns All followed by the sorted distinct conditions and drug classes of t
func Filters(t *dataset.Table) FilterOptions {
	return NewFilterOptions(t.Distinct(dataset.ColMedicalCondition), t.Distinct(dataset.ColDrugClasses))
}

// NewFilterOptions prefixes already sorted distinct values with All
func NewFilterOptions(conditions, drugClasses []string) FilterOptions {
	return FilterOptions{
		Conditions:  append([]string{All}, conditions...),
		DrugClasses: append([]string{All}, drugClasses...),
	}
}

// Filter keeps the records matching every active selector exactly.
// An all-All selection returns t itself.
func Filter(t *dataset.Table, s Selection) *dataset.Table {
	if s.IsAll() {
		return t
	}
	return t.Filter(func(r *dataset.DrugRecord) bool {
		if s.Condition != All && r.MedicalCondition != s.Condition {
			return false
		}
		if s.DrugClass != All && r.DrugClasses != s.DrugClass {
			return false
		}
		return true
	})
}

// View is the filtered count, preview and chart data of one selection
type View struct {
	Selection Selection            `json:"selection"`
	Total     int                  `json:"total"`
	Count     int                  `json:"count"`
	Preview   []dataset.DrugRecord `json:"preview"`

	RatingHistogram *eda.Histogram      `json:"rating_histogram"`
	TopConditions   []eda.CategoryCount `json:"top_conditions"`
	TopSideEffects  []eda.CategoryCount `json:"top_side_effects"`
	RatingsByClass  []eda.BoxStats      `json:"ratings_by_class"`
}

// Build computes the view of s over full with the default options
func Build(full *dataset.Table, s Selection) *View {
	return BuildWith(full, s, DefaultOptions())
}

// BuildWith computes the view of s over full. The histogram and the box plot follow
// the selection; the top-N bar charts always describe the full table.
func BuildWith(full *dataset.Table, s Selection, opt Options) *View {
	opt = opt.withDefaults()
	s = NewSelection(s.Condition, s.DrugClass)
	filtered := Filter(full, s)

	return &View{
		Selection:       s,
		Total:           full.Len(),
		Count:           filtered.Len(),
		Preview:         filtered.Head(opt.PreviewRows),
		RatingHistogram: eda.NewHistogram(filtered.Numbers(dataset.ColRating), opt.HistogramBins),
		TopConditions:   eda.ColumnFrequencies(full, dataset.ColMedicalCondition).Top(opt.TopN),
		TopSideEffects:  eda.ColumnFrequencies(full, dataset.ColSideEffects).Top(opt.TopN),
		RatingsByClass:  eda.RatingsByClass(filtered),
	}
}
