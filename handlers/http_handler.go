// Package handlers provides the HTTP handlers of the dashboard: the HTML page, the
// JSON view and filter options, the chart images and the health check.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/drugs-eda/dashboard"
	"github.com/giygas/drugs-eda/interfaces"
	"github.com/giygas/drugs-eda/logging"
	"github.com/giygas/drugs-eda/metrics"
)

// Query parameters of a selection
const (
	ParamCondition = "condition"
	ParamDrugClass = "drug_class"
)

var errNotLoaded = errors.New("dataset not loaded")

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
	options       dashboard.Options
}

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator,
	healthChecker interfaces.HealthChecker, options dashboard.Options) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
		options:       options,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// selection reads the dropdown values of a request. Absent parameters mean All.
func (h *HTTPHandlerImpl) selection(r *http.Request) (dashboard.Selection, error) {
	query := r.URL.Query()
	condition := query.Get(ParamCondition)
	drugClass := query.Get(ParamDrugClass)

	if err := h.validator.ValidateFilterValue(condition); err != nil {
		return dashboard.Selection{}, fmt.Errorf("invalid %s: %w", ParamCondition, err)
	}
	if err := h.validator.ValidateFilterValue(drugClass); err != nil {
		return dashboard.Selection{}, fmt.Errorf("invalid %s: %w", ParamDrugClass, err)
	}
	return dashboard.NewSelection(condition, drugClass), nil
}

// view builds the view of the request selection over the current table and writes
// the error response itself when it cannot
func (h *HTTPHandlerImpl) view(w http.ResponseWriter, r *http.Request) (*dashboard.View, bool) {
	sel, err := h.selection(r)
	if err != nil {
		logging.Warn("Unusual user input", "query", r.URL.RawQuery, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	table := h.dataStore.GetTable()
	if table.Len() == 0 {
		h.RespondWithError(w, http.StatusServiceUnavailable, errNotLoaded.Error())
		return nil, false
	}
	return dashboard.BuildWith(table, sel, h.options), true
}

// ServeView returns the JSON view of the selection
func (h *HTTPHandlerImpl) ServeView(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, v)
}

// ServeFilters returns the dropdown entries
func (h *HTTPHandlerImpl) ServeFilters(w http.ResponseWriter, r *http.Request) {
	if h.dataStore.GetTable().Len() == 0 {
		h.RespondWithError(w, http.StatusServiceUnavailable, errNotLoaded.Error())
		return
	}
	filters := dashboard.NewFilterOptions(h.dataStore.GetConditions(), h.dataStore.GetDrugClasses())
	h.RespondWithJSON(w, http.StatusOK, filters)
}

// ServeChart renders one chart of the selection as PNG. Charts are rendered on every
// request.
func (h *HTTPHandlerImpl) ServeChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")
	if !slices.Contains(dashboard.ChartNames, name) {
		h.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Unknown chart %q", name))
		return
	}

	v, ok := h.view(w, r)
	if !ok {
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := dashboard.RenderChart(&buf, name, v); err != nil {
		logging.Error("Failed to render chart", "chart", name, "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}
	metrics.ChartRendersTotal.WithLabelValues(name).Inc()
	logging.Debug("Chart rendered",
		"chart", name,
		"condition", v.Selection.Condition,
		"drug_class", v.Selection.DrugClass,
		"bytes", buf.Len(),
		"duration", time.Since(start).String(),
	)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Warn("Failed to write chart", "chart", name, "error", err)
	}
}

// HealthCheck returns the health of the served dataset
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.healthChecker.HealthCheck()

	response := map[string]any{
		"status": status,
		"data":   details,
	}
	h.RespondWithJSON(w, httpStatus, response)
}
