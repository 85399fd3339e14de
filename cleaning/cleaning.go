// Package cleaning turns the raw drugs export into the cleaned table: missing text cells
// become "Unknown", absent ratings and review counts become 0, activity percentages are
// coerced to fractions and the alcohol indicator is recoded to 0/1.
package cleaning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/logging"
)

// ErrParseFailure is returned under PolicyFail when a rating or review count cannot be parsed
var ErrParseFailure = errors.New("numeric parse failure")

// Policy decides what happens to rating and no_of_reviews cells that fail numeric parsing
type Policy string

const (
	// PolicyKeep leaves the missing-numeric marker in place and reports it
	PolicyKeep Policy = "keep"
	// PolicyZero re-imputes 0 after coercion
	PolicyZero Policy = "zero"
	// PolicyFail aborts the run on the first failure
	PolicyFail Policy = "fail"
)

// ParsePolicy parses a policy name, case-insensitively
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyKeep, PolicyZero, PolicyFail:
		return p, nil
	case "":
		return PolicyKeep, nil
	default:
		return "", fmt.Errorf("unknown numeric failure policy %q (want keep, zero or fail)", s)
	}
}

const defaultMaxSamples = 10

// Options configures Clean
type Options struct {
	Policy Policy
	// MaxSamples caps the parse failures kept verbatim in the report
	MaxSamples int
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{Policy: PolicyKeep, MaxSamples: defaultMaxSamples}
}

// ParseFailure is a single cell that could not be parsed as a number
type ParseFailure struct {
	Row    int    `yaml:"row" json:"row"`
	Column string `yaml:"column" json:"column"`
	Value  string `yaml:"value" json:"value"`
}

// Report describes what the cleaning pass changed
type Report struct {
	Rows          int            `yaml:"rows"`
	MissingBefore map[string]int `yaml:"missing_before"`
	Filled        map[string]int `yaml:"filled"`
	ParseFailures map[string]int `yaml:"parse_failures"`
	Reimputed     map[string]int `yaml:"reimputed,omitempty"`
	// AlcoholOther counts alcohol cells that were neither "X" nor a zero spelling
	AlcoholOther int            `yaml:"alcohol_other"`
	Samples      []ParseFailure `yaml:"samples,omitempty"`
	Policy       Policy         `yaml:"policy"`
}

func newReport(rows int, policy Policy) *Report {
	return &Report{
		Rows:          rows,
		MissingBefore: make(map[string]int),
		Filled:        make(map[string]int),
		ParseFailures: make(map[string]int),
		Reimputed:     make(map[string]int),
		Policy:        policy,
	}
}

// TotalParseFailures sums the parse failures of every column
func (r *Report) TotalParseFailures() int {
	total := 0
	for _, n := range r.ParseFailures {
		total += n
	}
	return total
}

func (r *Report) recordFailure(row int, col, value string, limit int) {
	r.ParseFailures[col]++
	if len(r.Samples) < limit {
		r.Samples = append(r.Samples, ParseFailure{Row: row, Column: col, Value: value})
	}
}

// FillText returns the cell, or UnknownValue when it is missing
func FillText(cell string) (string, bool) {
	if dataset.IsMissing(cell) {
		return dataset.UnknownValue, true
	}
	return cell, false
}

// CoerceActivity converts a percentage such as "  90 %" to a fraction. A missing cell
// yields the marker with ok=true, a malformed or infinite one the marker with ok=false.
func CoerceActivity(cell string) (dataset.Number, bool) {
	if dataset.IsMissing(cell) {
		return dataset.Missing(), true
	}
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cell)
	s = strings.TrimRight(s, "%")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return dataset.Missing(), false
	}
	return dataset.Num(v / 100), true
}

// CoerceNumber parses a rating or review count that already went through the fill step
func CoerceNumber(cell string) (dataset.Number, bool) {
	if dataset.IsMissing(cell) {
		return dataset.Num(0), true
	}
	return dataset.ParseNumber(cell)
}

// RecodeAlcohol maps the exact literal "X" to 1 and everything else to 0. other reports
// a value that was neither "X", missing nor a zero spelling, so " X " counts as other.
func RecodeAlcohol(cell string) (code int, other bool) {
	if cell == "X" {
		return 1, false
	}
	if dataset.IsMissing(cell) {
		return 0, false
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil && v == 0 {
		return 0, false
	}
	return 0, true
}

// Clean applies every cleaning step to raw and returns the typed table with a report of
// the changes. The raw table is not modified.
func Clean(raw *dataset.RawTable, opt Options) (*dataset.Table, *Report, error) {
	if err := raw.RequireColumns(dataset.RequiredColumns...); err != nil {
		return nil, nil, err
	}
	if opt.Policy == "" {
		opt.Policy = PolicyKeep
	}
	if opt.MaxSamples <= 0 {
		opt.MaxSamples = defaultMaxSamples
	}

	report := newReport(raw.Len(), opt.Policy)
	records := make([]dataset.DrugRecord, 0, raw.Len())

	for row := range raw.Rows {
		var rec dataset.DrugRecord
		line := row + 1

		for _, col := range dataset.TextColumns {
			value, filled := FillText(raw.Cell(row, col))
			if filled {
				report.MissingBefore[col]++
				report.Filled[col]++
			}
			rec.SetText(col, value)
		}

		for _, col := range []string{dataset.ColRating, dataset.ColNoOfReviews} {
			cell := raw.Cell(row, col)
			if dataset.IsMissing(cell) {
				report.MissingBefore[col]++
				report.Filled[col]++
			}
			n, ok := CoerceNumber(cell)
			if !ok {
				switch opt.Policy {
				case PolicyFail:
					return nil, report, fmt.Errorf("%w: column %s row %d value %q", ErrParseFailure, col, line, cell)
				case PolicyZero:
					n = dataset.Num(0)
					report.Reimputed[col]++
				}
				report.recordFailure(line, col, cell, opt.MaxSamples)
			}
			if col == dataset.ColRating {
				rec.Rating = n
			} else {
				rec.NoOfReviews = n
			}
		}

		activityCell := raw.Cell(row, dataset.ColActivity)
		if dataset.IsMissing(activityCell) {
			report.MissingBefore[dataset.ColActivity]++
		}
		activity, ok := CoerceActivity(activityCell)
		if !ok {
			report.recordFailure(line, dataset.ColActivity, activityCell, opt.MaxSamples)
		}
		rec.Activity = activity

		alcoholCell := raw.Cell(row, dataset.ColAlcohol)
		if dataset.IsMissing(alcoholCell) {
			report.MissingBefore[dataset.ColAlcohol]++
		}
		code, other := RecodeAlcohol(alcoholCell)
		if other {
			report.AlcoholOther++
		}
		rec.Alcohol = code

		rec.Extra = raw.ExtraCells(row)
		for k, v := range rec.Extra {
			if dataset.IsMissing(v) {
				rec.Extra[k] = ""
			}
		}

		records = append(records, rec)
	}

	for col, n := range report.ParseFailures {
		logging.Warn("Numeric values could not be parsed",
			"column", col,
			"count", n,
			"policy", string(opt.Policy))
	}
	if report.AlcoholOther > 0 {
		logging.Warn("Unexpected alcohol values recoded to 0", "count", report.AlcoholOther)
	}

	return dataset.NewTable(raw.Header, records), report, nil
}
