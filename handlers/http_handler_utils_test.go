package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/drugs-eda/dashboard"
	"github.com/giygas/drugs-eda/data"
	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/interfaces"
	"github.com/giygas/drugs-eda/validation"
)

// ============================================================================
// TEST DATA FACTORY
// ============================================================================

// TestDataFactory creates consistent test data across all tests
type TestDataFactory struct{}

func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{}
}

var factoryConditions = []string{"Acne", "Hypertension", "Depression", "Pain"}
var factoryClasses = []string{"Tetracyclines", "ACE inhibitors", "SSRI antidepressants", "Opioids"}

// CreateRecord creates one cleaned record. Every 20th record is a Diabetes drug.
func (f *TestDataFactory) CreateRecord(i int) dataset.DrugRecord {
	condition := factoryConditions[i%len(factoryConditions)]
	class := factoryClasses[i%len(factoryClasses)]
	if i%20 == 0 {
		condition, class = "Diabetes", "Biguanides"
	}
	return dataset.DrugRecord{
		GenericName:       fmt.Sprintf("drug-%03d", i),
		DrugClasses:       class,
		MedicalCondition:  condition,
		SideEffects:       fmt.Sprintf("side effect %d", i%7),
		RelatedDrugs:      "Unknown",
		Rating:            dataset.Num(float64(i%10) + 0.5),
		NoOfReviews:       dataset.Num(float64(i * 3)),
		Activity:          dataset.Num(float64(i%100) / 100),
		Alcohol:           i % 2,
		CSA:               "N",
		RxOTC:             "Rx",
		PregnancyCategory: "C",
	}
}

// CreateTable creates a table of count records with the contractual header
func (f *TestDataFactory) CreateTable(count int) *dataset.Table {
	records := make([]dataset.DrugRecord, count)
	for i := 0; i < count; i++ {
		records[i] = f.CreateRecord(i)
	}
	return dataset.NewTable(dataset.RequiredColumns, records)
}

// CreateDataContainer creates a container holding count records
func (f *TestDataFactory) CreateDataContainer(count int) *data.DataContainer {
	dc := data.NewDataContainer()
	dc.UpdateData(f.CreateTable(count), time.Now().Add(-time.Hour))
	dc.SetServerStartTime(time.Now().Add(-time.Minute))
	return dc
}

// ============================================================================
// MOCK BUILDERS
// ============================================================================

type MockDataStoreBuilder struct {
	store *MockDataStore
}

func NewMockDataStoreBuilder() *MockDataStoreBuilder {
	return &MockDataStoreBuilder{
		store: &MockDataStore{
			table:       dataset.NewTable(dataset.RequiredColumns, nil),
			lastUpdated: time.Now(),
		},
	}
}

func (b *MockDataStoreBuilder) WithTable(table *dataset.Table) *MockDataStoreBuilder {
	b.store.table = table
	return b
}

func (b *MockDataStoreBuilder) WithRecords(count int) *MockDataStoreBuilder {
	return b.WithTable(NewTestDataFactory().CreateTable(count))
}

func (b *MockDataStoreBuilder) WithUpdating(updating bool) *MockDataStoreBuilder {
	b.store.updating = updating
	return b
}

func (b *MockDataStoreBuilder) Build() *MockDataStore {
	return b.store
}

type MockDataValidatorBuilder struct {
	validator *MockDataValidator
}

func NewMockDataValidatorBuilder() *MockDataValidatorBuilder {
	return &MockDataValidatorBuilder{validator: &MockDataValidator{real: validation.NewDataValidator()}}
}

func (b *MockDataValidatorBuilder) WithFilterError(err error) *MockDataValidatorBuilder {
	b.validator.filterError = err
	return b
}

func (b *MockDataValidatorBuilder) Build() *MockDataValidator {
	return b.validator
}

type MockHealthCheckerBuilder struct {
	checker *MockHealthChecker
}

func NewMockHealthCheckerBuilder() *MockHealthCheckerBuilder {
	return &MockHealthCheckerBuilder{
		checker: &MockHealthChecker{
			status:     "healthy",
			details:    map[string]any{"records": 100},
			httpStatus: http.StatusOK,
		},
	}
}

func (b *MockHealthCheckerBuilder) WithStatus(status string, httpStatus int) *MockHealthCheckerBuilder {
	b.checker.status = status
	b.checker.httpStatus = httpStatus
	return b
}

func (b *MockHealthCheckerBuilder) Build() *MockHealthChecker {
	return b.checker
}

// newTestHandler builds a handler over count factory records
func newTestHandler(count int) *HTTPHandlerImpl {
	store := NewMockDataStoreBuilder().WithRecords(count).Build()
	return NewHTTPHandler(store, NewMockDataValidatorBuilder().Build(),
		NewMockHealthCheckerBuilder().Build(), dashboard.DefaultOptions()).(*HTTPHandlerImpl)
}

// newTestRouter routes the handler the way the server does
func newTestRouter(h interfaces.HTTPHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Get("/api/view", h.ServeView)
	r.Get("/api/filters", h.ServeFilters)
	r.Get("/charts/{chart}.png", h.ServeChart)
	r.Get("/health", h.HealthCheck)
	return r
}

// ============================================================================
// HTTP TEST HELPER
// ============================================================================

// HTTPTestHelper provides utilities for HTTP handler testing
type HTTPTestHelper struct {
	t *testing.T
}

func NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	return &HTTPTestHelper{t: t}
}

// ExecuteRequest executes an HTTP handler with given parameters
func (h *HTTPTestHelper) ExecuteRequest(handler http.HandlerFunc, method, path string, urlParams map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)

	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range urlParams {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// AssertJSONResponse asserts that response contains valid JSON with expected status
func (h *HTTPTestHelper) AssertJSONResponse(resp *httptest.ResponseRecorder, expectedStatus int, target any) {
	h.t.Helper()
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d", expectedStatus, resp.Code)
	}

	if err := json.Unmarshal(resp.Body.Bytes(), target); err != nil {
		h.t.Errorf("Response should be valid JSON, got error: %v", err)
	}
}

// AssertErrorResponse asserts that response contains an error with expected status
func (h *HTTPTestHelper) AssertErrorResponse(resp *httptest.ResponseRecorder, expectedStatus int) {
	h.t.Helper()
	var errorResp map[string]any
	h.AssertJSONResponse(resp, expectedStatus, &errorResp)

	for _, field := range []string{"error", "message", "code"} {
		if _, ok := errorResp[field]; !ok {
			h.t.Errorf("Error response should have %s field", field)
		}
	}
	if errorResp["code"] != float64(expectedStatus) {
		h.t.Errorf("Expected code %d, got %v", expectedStatus, errorResp["code"])
	}
}

// ============================================================================
// MOCK IMPLEMENTATIONS
// ============================================================================

// MockDataStore implements interfaces.DataStore for testing
type MockDataStore struct {
	table       *dataset.Table
	updating    bool
	lastUpdated time.Time
	modTime     time.Time
	startTime   time.Time
}

var _ interfaces.DataStore = (*MockDataStore)(nil)

func (m *MockDataStore) GetTable() *dataset.Table      { return m.table }
func (m *MockDataStore) GetConditions() []string       { return m.table.Distinct(dataset.ColMedicalCondition) }
func (m *MockDataStore) GetDrugClasses() []string      { return m.table.Distinct(dataset.ColDrugClasses) }
func (m *MockDataStore) GetLastUpdated() time.Time     { return m.lastUpdated }
func (m *MockDataStore) GetSourceModTime() time.Time   { return m.modTime }
func (m *MockDataStore) IsUpdating() bool              { return m.updating }
func (m *MockDataStore) GetServerStartTime() time.Time { return m.startTime }

func (m *MockDataStore) SetServerStartTime(startTime time.Time) { m.startTime = startTime }

func (m *MockDataStore) UpdateData(table *dataset.Table, sourceModTime time.Time) {
	m.table = table
	m.modTime = sourceModTime
	m.lastUpdated = time.Now()
}

func (m *MockDataStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *MockDataStore) EndUpdate() {
	m.updating = false
}

// MockDataValidator delegates to the real validator unless an error is injected
type MockDataValidator struct {
	real        interfaces.DataValidator
	filterError error
}

var _ interfaces.DataValidator = (*MockDataValidator)(nil)

func (m *MockDataValidator) ValidateSchema(header []string) error {
	return m.real.ValidateSchema(header)
}

func (m *MockDataValidator) ValidateCleaned(t *dataset.Table) error {
	return m.real.ValidateCleaned(t)
}

func (m *MockDataValidator) ReportDataQuality(t *dataset.Table) *interfaces.DataQualityReport {
	return m.real.ReportDataQuality(t)
}

func (m *MockDataValidator) ValidateFilterValue(value string) error {
	if m.filterError != nil {
		return m.filterError
	}
	return m.real.ValidateFilterValue(value)
}

// MockHealthChecker implements interfaces.HealthChecker for testing
type MockHealthChecker struct {
	status     string
	details    map[string]any
	httpStatus int
}

var _ interfaces.HealthChecker = (*MockHealthChecker)(nil)

func (m *MockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.details, m.httpStatus
}

func (m *MockHealthChecker) CalculateNextReload() time.Time {
	return time.Time{}
}
