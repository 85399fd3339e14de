package dataset

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Number is a numeric cell. Valid=false is the missing-numeric marker,
// distinct from a valid zero.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a valid Number
func Num(v float64) Number {
	if math.IsNaN(v) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// Missing returns the missing-numeric marker
func Missing() Number {
	return Number{}
}

// Float returns the value, or NaN for the marker
func (n Number) Float() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Value
}

// String formats the number the way it is written to CSV, empty for the marker
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalJSON encodes the marker as null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// DrugRecord is one row of the dataset: one drug / condition / side effect combination
type DrugRecord struct {
	GenericName       string `json:"generic_name"`
	DrugClasses       string `json:"drug_classes"`
	MedicalCondition  string `json:"medical_condition"`
	SideEffects       string `json:"side_effects"`
	RelatedDrugs      string `json:"related_drugs"`
	Rating            Number `json:"rating"`
	NoOfReviews       Number `json:"no_of_reviews"`
	Activity          Number `json:"activity"`
	Alcohol           int    `json:"alcohol"`
	CSA               string `json:"csa"`
	RxOTC             string `json:"rx_otc"`
	PregnancyCategory string `json:"pregnancy_category"`

	// Extra holds the non-contractual columns, carried through untouched
	Extra map[string]string `json:"extra,omitempty"`
}

// Text returns the value of a text column
func (r *DrugRecord) Text(col string) (string, bool) {
	switch col {
	case ColGenericName:
		return r.GenericName, true
	case ColDrugClasses:
		return r.DrugClasses, true
	case ColMedicalCondition:
		return r.MedicalCondition, true
	case ColSideEffects:
		return r.SideEffects, true
	case ColRelatedDrugs:
		return r.RelatedDrugs, true
	case ColCSA:
		return r.CSA, true
	case ColRxOTC:
		return r.RxOTC, true
	case ColPregnancyCategory:
		return r.PregnancyCategory, true
	}
	return "", false
}

// SetText sets the value of a text column
func (r *DrugRecord) SetText(col, value string) bool {
	switch col {
	case ColGenericName:
		r.GenericName = value
	case ColDrugClasses:
		r.DrugClasses = value
	case ColMedicalCondition:
		r.MedicalCondition = value
	case ColSideEffects:
		r.SideEffects = value
	case ColRelatedDrugs:
		r.RelatedDrugs = value
	case ColCSA:
		r.CSA = value
	case ColRxOTC:
		r.RxOTC = value
	case ColPregnancyCategory:
		r.PregnancyCategory = value
	default:
		return false
	}
	return true
}

// Numeric returns the value of a numeric column. alcohol is reported as a valid 0/1.
func (r *DrugRecord) Numeric(col string) (Number, bool) {
	switch col {
	case ColRating:
		return r.Rating, true
	case ColNoOfReviews:
		return r.NoOfReviews, true
	case ColActivity:
		return r.Activity, true
	case ColAlcohol:
		return Num(float64(r.Alcohol)), true
	}
	return Number{}, false
}

// Cell returns the formatted value of any column, contractual or extra
func (r *DrugRecord) Cell(col string) string {
	if v, ok := r.Text(col); ok {
		return v
	}
	if col == ColAlcohol {
		return strconv.Itoa(r.Alcohol)
	}
	if n, ok := r.Numeric(col); ok {
		return n.String()
	}
	return r.Extra[col]
}

// Table is an in-memory dataset: the header in file order and one record per row
type Table struct {
	Header  []string
	Records []DrugRecord
}

// NewTable creates a table with the given header
func NewTable(header []string, records []DrugRecord) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{Header: h, Records: records}
}

// Len returns the number of records
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Texts returns the values of a text column, one per record
func (t *Table) Texts(col string) []string {
	out := make([]string, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		v, _ := t.Records[i].Text(col)
		out = append(out, v)
	}
	return out
}

// Numbers returns the values of a numeric column, one per record
func (t *Table) Numbers(col string) []Number {
	out := make([]Number, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		n, _ := t.Records[i].Numeric(col)
		out = append(out, n)
	}
	return out
}

// NumericHeader returns the numeric columns in header order
func (t *Table) NumericHeader() []string {
	var cols []string
	for _, h := range t.Header {
		if IsNumericColumn(h) {
			cols = append(cols, h)
		}
	}
	return cols
}

// Filter returns a new table, sharing the header, with the records matching keep
func (t *Table) Filter(keep func(*DrugRecord) bool) *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{Header: t.Header}
	for i := range t.Records {
		if keep(&t.Records[i]) {
			out.Records = append(out.Records, t.Records[i])
		}
	}
	return out
}

// Head returns at most n leading records
func (t *Table) Head(n int) []DrugRecord {
	if n > t.Len() {
		n = t.Len()
	}
	if n <= 0 {
		return []DrugRecord{}
	}
	head := make([]DrugRecord, n)
	copy(head, t.Records[:n])
	return head
}

// Distinct returns the sorted distinct non-empty values of a text column
func (t *Table) Distinct(col string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	if t == nil {
		return out
	}
	for i := range t.Records {
		v, _ := t.Records[i].Text(col)
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
