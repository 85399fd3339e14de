// Package dataset provides reading, decoding and writing of the drugs / side effects /
// medical conditions dataset. It owns the contractual column names, the typed DrugRecord
// entity and the Table that every processing stage receives as a parameter.
package dataset

// Contractual column names of the drugs export
const (
	ColGenericName       = "generic_name"
	ColDrugClasses       = "drug_classes"
	ColMedicalCondition  = "medical_condition"
	ColSideEffects       = "side_effects"
	ColRelatedDrugs      = "related_drugs"
	ColRating            = "rating"
	ColNoOfReviews       = "no_of_reviews"
	ColActivity          = "activity"
	ColAlcohol           = "alcohol"
	ColCSA               = "csa"
	ColRxOTC             = "rx_otc"
	ColPregnancyCategory = "pregnancy_category"
)

// RequiredColumns lists every column the cleaning steps depend on
var RequiredColumns = []string{
	ColGenericName,
	ColDrugClasses,
	ColMedicalCondition,
	ColSideEffects,
	ColRelatedDrugs,
	ColRating,
	ColNoOfReviews,
	ColActivity,
	ColAlcohol,
	ColCSA,
	ColRxOTC,
	ColPregnancyCategory,
}

// TextColumns are the free-text and categorical columns
var TextColumns = []string{
	ColGenericName,
	ColDrugClasses,
	ColMedicalCondition,
	ColSideEffects,
	ColRelatedDrugs,
	ColCSA,
	ColRxOTC,
	ColPregnancyCategory,
}

// NumericColumns are the columns holding numbers once cleaned
var NumericColumns = []string{
	ColRating,
	ColNoOfReviews,
	ColActivity,
	ColAlcohol,
}

// UnknownValue replaces missing text cells
const UnknownValue = "Unknown"

// missingTokens are the cell spellings a dataframe CSV reader treats as NA
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a raw cell counts as a missing value
func IsMissing(cell string) bool {
	_, ok := missingTokens[cell]
	return ok
}

// IsTextColumn reports whether col is one of the text columns
func IsTextColumn(col string) bool {
	for _, c := range TextColumns {
		if c == col {
			return true
		}
	}
	return false
}

// IsNumericColumn reports whether col is one of the numeric columns
func IsNumericColumn(col string) bool {
	for _, c := range NumericColumns {
		if c == col {
			return true
		}
	}
	return false
}
