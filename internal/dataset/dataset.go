// Package dataset loads the BLS occupation file into immutable in-memory records.
package dataset

import (
	"github.com/sells-group/career-explorer/internal/model"
)

// LoadStats counts what happened to each source row.
type LoadStats struct {
	Rows       int `json:"rows"`
	Loaded     int `json:"loaded"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	NullSalary int `json:"null_salary"`
	NullJobs   int `json:"null_jobs"`
	NullGrowth int `json:"null_growth"`
}

// Dataset is a read-only set of occupation records indexed by exact name.
type Dataset struct {
	records []model.OccupationRecord
	byName  map[string]int
	Stats   LoadStats
}

// New indexes records by name. The first record with a given name wins;
// later duplicates are dropped and counted. Positions are reassigned to
// slice order.
func New(records []model.OccupationRecord) *Dataset {
	d := &Dataset{
		records: make([]model.OccupationRecord, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		d.Stats.Rows++
		if _, dup := d.byName[r.Name]; dup {
			d.Stats.Duplicates++
			continue
		}
		r.Position = len(d.records)
		d.byName[r.Name] = r.Position
		d.records = append(d.records, r)
		d.Stats.Loaded++
		if r.MedianSalary == nil {
			d.Stats.NullSalary++
		}
		if r.Jobs == nil {
			d.Stats.NullJobs++
		}
		if r.GrowthRate == nil {
			d.Stats.NullGrowth++
		}
	}
	return d
}

// Lookup returns the record with the given occupation name.
func (d *Dataset) Lookup(name string) (model.OccupationRecord, bool) {
	i, ok := d.byName[name]
	if !ok {
		return model.OccupationRecord{}, false
	}
	return d.records[i], true
}

// Records returns a copy of all records in source order.
func (d *Dataset) Records() []model.OccupationRecord {
	out := make([]model.OccupationRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Len returns the number of distinct occupations.
func (d *Dataset) Len() int {
	return len(d.records)
}
