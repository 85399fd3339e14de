// Package validation provides schema, post-cleaning and user-input validation for the drugs dataset.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/interfaces"
	"github.com/giygas/drugs-eda/logging"
)

// MaxFilterValueLength bounds a dropdown value received in a query string
const MaxFilterValueLength = 300

// Dangerous patterns as strings (faster than regex for simple substring matching)
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "onmouseover=", "onfocus=", "eval(", "expression(",
	"../", "..\\", "%2e%2e", "file://",
}

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateSchema checks that every contractual column is present in a header
func (v *DataValidatorImpl) ValidateSchema(header []string) error {
	return dataset.NewRawTable(header, nil).RequireColumns(dataset.RequiredColumns...)
}

// ValidateCleaned checks that no text column is empty and that alcohol is 0 or 1.
// Numeric markers are allowed: they are reported, not rejected. A header-only table
// is valid.
func (v *DataValidatorImpl) ValidateCleaned(t *dataset.Table) error {
	if t == nil {
		return fmt.Errorf("no table")
	}

	if err := v.ValidateSchema(t.Header); err != nil {
		return err
	}

	for i := range t.Records {
		rec := &t.Records[i]
		for _, col := range dataset.TextColumns {
			if value, _ := rec.Text(col); value == "" {
				return fmt.Errorf("empty %s in record %d", col, i+1)
			}
		}
		if rec.Alcohol != 0 && rec.Alcohol != 1 {
			return fmt.Errorf("invalid alcohol value %d in record %d", rec.Alcohol, i+1)
		}
	}

	return nil
}

// ReportDataQuality generates a data quality report with all issues found
func (v *DataValidatorImpl) ReportDataQuality(t *dataset.Table) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		Rows:           t.Len(),
		EmptyText:      make(map[string]int),
		NumericMarkers: make(map[string]int),
		DuplicateRows:  []int{},
	}
	if t == nil {
		return report
	}

	seen := make(map[string]bool, t.Len())
	for i := range t.Records {
		rec := &t.Records[i]

		// Check 1: text cells left empty
		for _, col := range dataset.TextColumns {
			if value, _ := rec.Text(col); value == "" {
				report.EmptyText[col]++
			}
		}

		// Check 2: missing-numeric markers
		for _, col := range dataset.NumericColumns {
			if n, _ := rec.Numeric(col); !n.Valid {
				report.NumericMarkers[col]++
			}
		}

		// Check 3: values outside their expected ranges
		if rec.Rating.Valid && (rec.Rating.Value < 0 || rec.Rating.Value > 10) {
			report.RatingsOutOfRange++
		}
		if rec.Activity.Valid && (rec.Activity.Value < 0 || rec.Activity.Value > 1) {
			report.ActivityOutOfRange++
		}
		if rec.NoOfReviews.Valid && rec.NoOfReviews.Value < 0 {
			report.NegativeReviews++
		}

		// Check 4: fully duplicated records (store first 10 rows)
		key := recordKey(t.Header, rec)
		if seen[key] {
			report.DuplicateRecords++
			if len(report.DuplicateRows) < 10 {
				report.DuplicateRows = append(report.DuplicateRows, i+1)
			}
		}
		seen[key] = true
	}

	if report.DuplicateRecords > 0 {
		logging.Warn("Duplicate records detected",
			"count", report.DuplicateRecords,
			"rows", report.DuplicateRows,
		)
	}

	return report
}

func recordKey(header []string, rec *dataset.DrugRecord) string {
	var b strings.Builder
	for _, col := range header {
		b.WriteString(rec.Cell(col))
		b.WriteByte(0x1f)
	}
	return b.String()
}

// ValidateFilterValue validates a dropdown value. Empty values are accepted and mean "All".
func (v *DataValidatorImpl) ValidateFilterValue(value string) error {
	if len(value) > MaxFilterValueLength {
		return fmt.Errorf("filter value too long: maximum %d characters", MaxFilterValueLength)
	}

	if !utf8.ValidString(value) {
		return fmt.Errorf("filter value is not valid UTF-8")
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return fmt.Errorf("filter value contains control characters")
		}
	}

	lower := strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("filter value contains potentially dangerous content")
		}
	}

	return nil
}
