// Package health reports whether the dashboard has a dataset to serve.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/drugs-eda/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore  interfaces.DataStore
	nextReload func() time.Time
}

// NewHealthChecker creates a health checker. nextReload may be nil when the
// dataset is never reloaded.
func NewHealthChecker(dataStore interfaces.DataStore, nextReload func() time.Time) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore:  dataStore,
		nextReload: nextReload,
	}
}

// HealthCheck returns the status, the details served on /health and the HTTP code.
// The server is unhealthy until a non-empty table is loaded.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	records := h.dataStore.GetTable().Len()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	switch {
	case records == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"records":      records,
		"conditions":   len(h.dataStore.GetConditions()),
		"drug_classes": len(h.dataStore.GetDrugClasses()),
		"is_updating":  isUpdating,
	}

	if !lastUpdate.IsZero() {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["data_age_hours"] = math.Round(time.Since(lastUpdate).Hours()*10) / 10
	}
	if modTime := h.dataStore.GetSourceModTime(); !modTime.IsZero() {
		data["source_modified"] = modTime.Format(time.RFC3339)
	}
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = math.Round(time.Since(start).Seconds())
	}
	if next := h.CalculateNextReload(); !next.IsZero() {
		data["next_reload"] = next.Format(time.RFC3339)
	}

	return status, data, httpStatus
}

// CalculateNextReload returns the next scheduled reload, zero when reloading is disabled
func (h *HealthCheckerImpl) CalculateNextReload() time.Time {
	if h.nextReload == nil {
		return time.Time{}
	}
	return h.nextReload()
}
