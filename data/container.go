// Package data holds the cleaned dataset served by the dashboard. The table and the
// dropdown values derived from it are swapped atomically on reload, so a request
// always sees one consistent snapshot.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/drugs-eda/dataset"
	"github.com/giygas/drugs-eda/interfaces"
	"github.com/giygas/drugs-eda/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// snapshot is the unit of atomic replacement
type snapshot struct {
	table         *dataset.Table
	conditions    []string
	drugClasses   []string
	sourceModTime time.Time
	lastUpdated   time.Time
}

// DataContainer holds the current snapshot
type DataContainer struct {
	current         atomic.Pointer[snapshot]
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container holding an empty table
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.current.Store(&snapshot{
		table:       dataset.NewTable(dataset.RequiredColumns, nil),
		conditions:  []string{},
		drugClasses: []string{},
	})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

func (dc *DataContainer) load() *snapshot {
	if s := dc.current.Load(); s != nil {
		return s
	}
	logging.Warn("Data container has no snapshot")
	return &snapshot{table: dataset.NewTable(dataset.RequiredColumns, nil)}
}

// GetTable returns the current table. Callers must not modify it.
func (dc *DataContainer) GetTable() *dataset.Table {
	return dc.load().table
}

// GetConditions returns the sorted distinct medical conditions of the current table
func (dc *DataContainer) GetConditions() []string {
	return dc.load().conditions
}

// GetDrugClasses returns the sorted distinct drug classes of the current table
func (dc *DataContainer) GetDrugClasses() []string {
	return dc.load().drugClasses
}

// GetLastUpdated returns when the table was last swapped in
func (dc *DataContainer) GetLastUpdated() time.Time {
	return dc.load().lastUpdated
}

// GetSourceModTime returns the modification time of the file the table was read from
func (dc *DataContainer) GetSourceModTime() time.Time {
	return dc.load().sourceModTime
}

// IsUpdating returns true if a reload is in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if startTime, ok := dc.serverStartTime.Load().(time.Time); ok {
		return startTime
	}
	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData derives the dropdown values of table and swaps everything in at once.
// A nil table is stored as an empty one.
func (dc *DataContainer) UpdateData(table *dataset.Table, sourceModTime time.Time) {
	if table == nil {
		table = dataset.NewTable(dataset.RequiredColumns, nil)
	}
	dc.current.Store(&snapshot{
		table:         table,
		conditions:    table.Distinct(dataset.ColMedicalCondition),
		drugClasses:   table.Distinct(dataset.ColDrugClasses),
		sourceModTime: sourceModTime,
		lastUpdated:   time.Now(),
	})
}

// BeginUpdate marks the start of a reload.
// Returns true if the reload can proceed, false if another one is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
