// Package interfaces defines the contracts shared by the dashboard components
// so that storage, loading, validation and scheduling can be swapped in tests.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/drugs-eda/dataset"
)

// DataQualityReport summarises quality issues found in a cleaned table
type DataQualityReport struct {
	Rows int `yaml:"rows" json:"rows"`
	// EmptyText counts, per text column, cells that are still empty after cleaning
	EmptyText map[string]int `yaml:"empty_text" json:"empty_text"`
	// NumericMarkers counts, per numeric column, cells holding the missing-numeric marker
	NumericMarkers     map[string]int `yaml:"numeric_markers" json:"numeric_markers"`
	RatingsOutOfRange  int            `yaml:"ratings_out_of_range" json:"ratings_out_of_range"`
	ActivityOutOfRange int            `yaml:"activity_out_of_range" json:"activity_out_of_range"`
	NegativeReviews    int            `yaml:"negative_reviews" json:"negative_reviews"`
	DuplicateRecords   int            `yaml:"duplicate_records" json:"duplicate_records"`
	DuplicateRows      []int          `yaml:"duplicate_rows,omitempty" json:"duplicate_rows,omitempty"` // first 10
}

// DataStore defines the contract for the dashboard data storage.
// The table is swapped atomically so readers always see one consistent dataset.
type DataStore interface {
	GetTable() *dataset.Table
	GetConditions() []string
	GetDrugClasses() []string
	GetLastUpdated() time.Time
	GetSourceModTime() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(startTime time.Time)

	UpdateData(table *dataset.Table, sourceModTime time.Time)
	BeginUpdate() bool
	EndUpdate()
}

// DatasetLoader loads a cleaned dataset from disk
type DatasetLoader interface {
	Load(path string) (*dataset.Table, error)
}

// Scheduler manages the lifecycle of the background dataset reload
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the dashboard endpoints
type HTTPHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	ServeView(w http.ResponseWriter, r *http.Request)
	ServeFilters(w http.ResponseWriter, r *http.Request)
	ServeChart(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports the health of the loaded dataset
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextReload returns the next scheduled reload, zero when reloading is disabled
	CalculateNextReload() time.Time
}

// DataValidator defines the contract for data validation operations
type DataValidator interface {
	// ValidateSchema checks that every contractual column is present in a header
	ValidateSchema(header []string) error

	// ValidateCleaned checks the post-cleaning invariants of a table
	ValidateCleaned(t *dataset.Table) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(t *dataset.Table) *DataQualityReport

	// ValidateFilterValue validates a dropdown value received from a client
	ValidateFilterValue(value string) error
}
