package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cell returns the raw cell of a row by column name, empty when the column is absent
func (t *RawTable) Cell(row int, col string) string {
	i, ok := t.Index(col)
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// ExtraCells returns the non-contractual cells of a row keyed by column name
func (t *RawTable) ExtraCells(row int) map[string]string {
	var extra map[string]string
	for i, h := range t.Header {
		if IsTextColumn(h) || IsNumericColumn(h) {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		if _, seen := extra[h]; !seen {
			extra[h] = t.Rows[row][i]
		}
	}
	return extra
}

// ParseNumber parses a plain numeric cell. Missing and unparseable cells become the
// marker, and so do infinities, which fail the parse.
func ParseNumber(cell string) (Number, bool) {
	if IsMissing(cell) {
		return Missing(), true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(v, 0) {
		return Missing(), false
	}
	return Num(v), true
}

// Decode turns an already cleaned raw table into typed records without applying any
// cleaning rule. Text cells are taken verbatim and numbers parsed strictly.
func Decode(raw *RawTable) (*Table, error) {
	if err := raw.RequireColumns(RequiredColumns...); err != nil {
		return nil, err
	}

	records := make([]DrugRecord, 0, raw.Len())
	for row := range raw.Rows {
		var rec DrugRecord
		for _, col := range TextColumns {
			cell := raw.Cell(row, col)
			if IsMissing(cell) {
				cell = ""
			}
			rec.SetText(col, cell)
		}

		rec.Rating, _ = ParseNumber(raw.Cell(row, ColRating))
		rec.NoOfReviews, _ = ParseNumber(raw.Cell(row, ColNoOfReviews))
		rec.Activity, _ = ParseNumber(raw.Cell(row, ColActivity))

		alcohol, _ := ParseNumber(raw.Cell(row, ColAlcohol))
		if alcohol.Valid && alcohol.Value == 1 {
			rec.Alcohol = 1
		}

		rec.Extra = raw.ExtraCells(row)
		records = append(records, rec)
	}

	return NewTable(raw.Header, records), nil
}

// CSVLoader loads a cleaned dataset CSV from disk
type CSVLoader struct{}

// NewCSVLoader creates a new CSVLoader
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load reads and decodes the cleaned CSV at path
func (l *CSVLoader) Load(path string) (*Table, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return table, nil
}
