// Package explorer ties the dataset, the major mapping and the aggregation
// together behind the queries the CLI and HTTP server answer.
package explorer

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/career-explorer/internal/aggregate"
	"github.com/sells-group/career-explorer/internal/apperr"
	"github.com/sells-group/career-explorer/internal/config"
	"github.com/sells-group/career-explorer/internal/dataset"
	"github.com/sells-group/career-explorer/internal/mapping"
	"github.com/sells-group/career-explorer/internal/model"
	"github.com/sells-group/career-explorer/internal/view"
)

// Explorer answers comparison and drill-down queries. It is immutable after
// New and safe for concurrent use.
type Explorer struct {
	table *mapping.Table
	agg   *aggregate.Aggregation
	stats dataset.LoadStats
	rows  int
}

// New aggregates ds against table once.
func New(ds *dataset.Dataset, table *mapping.Table) *Explorer {
	agg := aggregate.Build(ds, table)
	zap.L().Info("explorer: aggregated",
		zap.Int("majors", table.Len()),
		zap.Int("majors_with_data", len(agg.Majors())),
		zap.Int("occupations", ds.Len()),
		zap.Int("unmatched", agg.Diagnostics.UnmatchedTotal),
	)
	return &Explorer{table: table, agg: agg, stats: ds.Stats, rows: ds.Len()}
}

// Open loads the mapping and the dataset named by cfg and builds an Explorer.
func Open(ctx context.Context, cfg *config.Config) (*Explorer, error) {
	table, err := mapping.LoadFile(cfg.Mapping.Path)
	if err != nil {
		return nil, eris.Wrap(err, "explorer: load mapping")
	}
	ds, err := dataset.Load(ctx, cfg.Dataset.Path, dataset.Options{SheetIndex: cfg.Dataset.Sheet})
	if err != nil {
		return nil, eris.Wrap(err, "explorer: load dataset")
	}
	return New(ds, table), nil
}

// CompareRequest selects and orders the majors to compare. Majors and Preset
// are combined; an empty selection compares nothing.
type CompareRequest struct {
	Majors     []string
	Preset     string
	SortKey    string
	Descending bool
}

// Compare validates req and returns the comparison view. Unknown majors,
// presets and sort keys are invalid arguments.
func (e *Explorer) Compare(req CompareRequest) (view.Comparison, error) {
	key := view.SortAverageSalary
	if req.SortKey != "" {
		k, err := view.ParseSortKey(req.SortKey)
		if err != nil {
			return view.Comparison{}, err
		}
		key = k
	}

	var chosen []string
	if req.Preset != "" {
		majors, err := view.QuickSelect(e.table, req.Preset)
		if err != nil {
			return view.Comparison{}, err
		}
		chosen = append(chosen, majors...)
	}
	for _, m := range req.Majors {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if !e.table.Has(m) {
			return view.Comparison{}, apperr.InvalidArgument("unknown major %q", m)
		}
		chosen = append(chosen, m)
	}

	return view.Compare(e.agg.Summaries(), chosen, key, req.Descending)
}

// Detail is the drill-down for one major.
type Detail struct {
	Major       string                   `json:"major"`
	HasData     bool                     `json:"has_data"`
	Summary     model.MajorSummary       `json:"summary"`
	Occupations []model.OccupationRecord `json:"occupations"`
}

// Detail returns the summary and career options of major. A major the
// mapping does not know is InvalidArgument; a known major without data yields
// HasData == false.
func (e *Explorer) Detail(major string) (Detail, error) {
	major = strings.TrimSpace(major)
	if !e.table.Has(major) {
		return Detail{}, apperr.InvalidArgument("unknown major %q", major)
	}
	s, ok := e.agg.Summary(major)
	return Detail{
		Major:       major,
		HasData:     ok,
		Summary:     s,
		Occupations: e.agg.DetailFor(major),
	}, nil
}

// QuickSelect returns the majors named by a preset mode.
func (e *Explorer) QuickSelect(mode string) ([]string, error) {
	return view.QuickSelect(e.table, mode)
}

// Majors returns every mapped major, sorted.
func (e *Explorer) Majors() []string {
	return e.table.AllMajors()
}

// DefaultMajors returns the curated first-run selection.
func (e *Explorer) DefaultMajors() []string {
	return e.table.DefaultMajors()
}

// HasData reports whether major has a summary.
func (e *Explorer) HasData(major string) bool {
	_, ok := e.agg.Summary(major)
	return ok
}

// Occupations returns the records behind major's summary, most jobs first.
func (e *Explorer) Occupations(major string) []model.OccupationRecord {
	return e.agg.DetailFor(major)
}

// Summaries returns every per-major summary, sorted by major.
func (e *Explorer) Summaries() []model.MajorSummary {
	majors := e.agg.Majors()
	out := make([]model.MajorSummary, 0, len(majors))
	for _, m := range majors {
		s, _ := e.agg.Summary(m)
		out = append(out, s)
	}
	return out
}

// Report describes the loaded data and its quality problems.
type Report struct {
	Occupations    int                   `json:"occupations"`
	Majors         int                   `json:"majors"`
	MajorsWithData int                   `json:"majors_with_data"`
	Load           dataset.LoadStats     `json:"load"`
	Aggregation    aggregate.Diagnostics `json:"aggregation"`
}

// Diagnostics returns the load and aggregation report.
func (e *Explorer) Diagnostics() Report {
	return Report{
		Occupations:    e.rows,
		Majors:         e.table.Len(),
		MajorsWithData: len(e.agg.Majors()),
		Load:           e.stats,
		Aggregation:    e.agg.Diagnostics,
	}
}
