// Package features builds the model-ready feature matrix of the drugs dataset: explicit
// label mappings for the categorical columns and a standard scaler for the fixed
// feature subset. The matrix is held in a gota DataFrame.
package features

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/giygas/drugs-eda/dataset"
)

// EncodedColumns are the categorical columns replaced by integer codes
var EncodedColumns = []string{
	dataset.ColCSA,
	dataset.ColRxOTC,
	dataset.ColGenericName,
	dataset.ColMedicalCondition,
	dataset.ColPregnancyCategory,
	dataset.ColSideEffects,
}

// FeatureColumns is the feature subset, in matrix order
var FeatureColumns = []string{
	dataset.ColGenericName,
	dataset.ColMedicalCondition,
	dataset.ColNoOfReviews,
	dataset.ColSideEffects,
	dataset.ColRating,
	dataset.ColCSA,
	dataset.ColPregnancyCategory,
	dataset.ColRxOTC,
	dataset.ColAlcohol,
}

// LabelMapping assigns the codes 0..k-1 to the sorted distinct values of one column
type LabelMapping struct {
	column  string
	classes []string
	codes   map[string]int
}

// NewLabelMapping builds the mapping of a column from all of its values
func NewLabelMapping(column string, values []string) *LabelMapping {
	codes := make(map[string]int)
	for _, v := range values {
		codes[v] = 0
	}
	classes := make([]string, 0, len(codes))
	for v := range codes {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	for i, v := range classes {
		codes[v] = i
	}
	return &LabelMapping{column: column, classes: classes, codes: codes}
}

// Column returns the column the mapping was built for
func (m *LabelMapping) Column() string { return m.column }

// Len returns the number of classes
func (m *LabelMapping) Len() int { return len(m.classes) }

// Classes returns the values in code order
func (m *LabelMapping) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// Code returns the code of a value
func (m *LabelMapping) Code(value string) (int, bool) {
	c, ok := m.codes[value]
	return c, ok
}

// Value returns the value of a code
func (m *LabelMapping) Value(code int) (string, bool) {
	if code < 0 || code >= len(m.classes) {
		return "", false
	}
	return m.classes[code], true
}

// Encode maps values to codes, -1 for values the mapping has never seen
func (m *LabelMapping) Encode(values []string) []int {
	out := make([]int, len(values))
	for i, v := range values {
		c, ok := m.codes[v]
		if !ok {
			c = -1
		}
		out[i] = c
	}
	return out
}

// Encoder holds one label mapping per encoded column
type Encoder struct {
	mappings map[string]*LabelMapping
}

// FitEncoder builds the label mappings of every encoded column from the full table
func FitEncoder(t *dataset.Table) *Encoder {
	e := &Encoder{mappings: make(map[string]*LabelMapping, len(EncodedColumns))}
	for _, col := range EncodedColumns {
		e.mappings[col] = NewLabelMapping(col, t.Texts(col))
	}
	return e
}

// Mapping returns the mapping of an encoded column, nil for other columns
func (e *Encoder) Mapping(column string) *LabelMapping {
	return e.mappings[column]
}

// Classes returns the classes of every encoded column
func (e *Encoder) Classes() map[string][]string {
	out := make(map[string][]string, len(e.mappings))
	for col, m := range e.mappings {
		out[col] = m.Classes()
	}
	return out
}

// Matrix builds the feature subset of t: encoded columns hold their codes and numeric
// columns their values, NaN for missing-numeric markers
func (e *Encoder) Matrix(t *dataset.Table) (dataframe.DataFrame, error) {
	columns := make([]series.Series, 0, len(FeatureColumns))

	for _, col := range FeatureColumns {
		values := make([]float64, t.Len())
		if m := e.Mapping(col); m != nil {
			for i, c := range m.Encode(t.Texts(col)) {
				values[i] = float64(c)
			}
		} else if dataset.IsNumericColumn(col) {
			for i, n := range t.Numbers(col) {
				values[i] = n.Float()
			}
		} else {
			return dataframe.DataFrame{}, fmt.Errorf("feature column %s is neither encoded nor numeric", col)
		}
		columns = append(columns, series.New(values, series.Float, col))
	}

	df := dataframe.New(columns...)
	if df.Err != nil {
		return df, fmt.Errorf("failed to build feature matrix: %w", df.Err)
	}
	return df, nil
}
