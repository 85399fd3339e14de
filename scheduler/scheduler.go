// Package scheduler loads the cleaned dataset into the data container and, when a
// reload interval is configured, re-reads it with gocron whenever the file changed.
package scheduler

import (
	"fmt"
	"os"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/drugs-eda/interfaces"
	"github.com/giygas/drugs-eda/logging"
	"github.com/giygas/drugs-eda/metrics"
	"github.com/giygas/drugs-eda/validation"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Reload results, also used as metric labels
const (
	ResultLoaded    = "loaded"
	ResultUnchanged = "unchanged"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Scheduler owns the load of the cleaned CSV at path
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.DatasetLoader
	validator interfaces.DataValidator
	path      string
	interval  time.Duration
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler. A zero interval loads once and never reloads.
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.DatasetLoader, path string, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validation.NewDataValidator(),
		path:      path,
		interval:  interval,
		scheduler: s,
	}
}

// Start performs the initial load and schedules the reload job
func (s *Scheduler) Start() error {
	if _, err := s.reload(true); err != nil {
		logging.Error("Failed to perform initial data load", "path", s.path, "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	if s.interval <= 0 {
		logging.Info("Dataset reload disabled", "path", s.path)
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		if _, err := s.reload(false); err != nil {
			// The previous table stays in place
			logging.Error("Failed to reload dataset", "path", s.path, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reload: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Dataset reload scheduled", "path", s.path, "interval", s.interval.String())
	return nil
}

// Stop stops the reload job
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextReload returns the next scheduled reload, zero when reloading is disabled
func (s *Scheduler) NextReload() time.Time {
	if s.interval <= 0 || !s.scheduler.IsRunning() {
		return time.Time{}
	}
	_, next := s.scheduler.NextRun()
	return next
}

// reload loads and validates the file and swaps it in. Unless force is set, a file
// whose modification time matches the loaded one is left alone.
func (s *Scheduler) reload(force bool) (string, error) {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Reload already in progress, skipping...")
		metrics.DatasetReloadsTotal.WithLabelValues(ResultSkipped).Inc()
		return ResultSkipped, nil
	}
	defer s.dataStore.EndUpdate()

	result, err := s.load(force)
	metrics.DatasetReloadsTotal.WithLabelValues(result).Inc()
	return result, err
}

func (s *Scheduler) load(force bool) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return ResultFailed, fmt.Errorf("failed to stat dataset %s: %w", s.path, err)
	}
	if !force && info.ModTime().Equal(s.dataStore.GetSourceModTime()) {
		logging.Debug("Dataset unchanged, skipping reload", "path", s.path)
		return ResultUnchanged, nil
	}

	start := time.Now()
	table, err := s.loader.Load(s.path)
	if err != nil {
		return ResultFailed, fmt.Errorf("failed to load dataset: %w", err)
	}
	if err := s.validator.ValidateCleaned(table); err != nil {
		return ResultFailed, fmt.Errorf("dataset failed validation: %w", err)
	}

	report := s.validator.ReportDataQuality(table)
	if report.RatingsOutOfRange > 0 || report.NegativeReviews > 0 {
		logging.Warn("Dataset has out-of-range values",
			"ratings_out_of_range", report.RatingsOutOfRange,
			"negative_reviews", report.NegativeReviews,
		)
	}

	s.dataStore.UpdateData(table, info.ModTime())
	metrics.DatasetRecords.Set(float64(table.Len()))
	logging.Info("Dataset loaded",
		"path", s.path,
		"records", table.Len(),
		"duration", time.Since(start).String(),
	)
	return ResultLoaded, nil
}
