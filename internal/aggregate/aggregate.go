// Package aggregate joins the occupation dataset against the major mapping and
// computes per-major labor-market summaries.
package aggregate

import (
	"cmp"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/sells-group/career-explorer/internal/model"
)

// Occupations resolves occupation names to records by exact match.
type Occupations interface {
	Lookup(name string) (model.OccupationRecord, bool)
}

// Majors lists majors and the occupations mapped to each.
type Majors interface {
	AllMajors() []string
	OccupationsFor(major string) []string
}

// Diagnostics counts data-quality problems found while aggregating.
// Null counts are per resolved (major, occupation) pair.
type Diagnostics struct {
	Unmatched      map[string][]string `json:"unmatched"`
	UnmatchedTotal int                 `json:"unmatched_total"`
	EmptyMajors    []string            `json:"empty_majors"`
	NullSalary     int                 `json:"null_salary"`
	NullJobs       int                 `json:"null_jobs"`
	NullGrowth     int                 `json:"null_growth"`
}

// Aggregation is the read-only result of joining a dataset with a mapping.
type Aggregation struct {
	summaries   map[string]model.MajorSummary
	details     map[string][]model.OccupationRecord
	Diagnostics Diagnostics
}

// BuildSummaries returns the summary of every major with at least one
// resolved occupation.
func BuildSummaries(occs Occupations, majors Majors) map[string]model.MajorSummary {
	return Build(occs, majors).Summaries()
}

// Build aggregates every major in the mapping. Occupation names missing from
// the dataset are dropped and logged; majors with no resolved occupation are
// left out of the result. Build is a pure function of its inputs.
func Build(occs Occupations, majors Majors) *Aggregation {
	a := &Aggregation{
		summaries: make(map[string]model.MajorSummary),
		details:   make(map[string][]model.OccupationRecord),
		Diagnostics: Diagnostics{
			Unmatched: make(map[string][]string),
		},
	}
	log := zap.L()

	for _, major := range majors.AllMajors() {
		resolved := a.resolve(major, majors.OccupationsFor(major), occs)
		if len(resolved) == 0 {
			a.Diagnostics.EmptyMajors = append(a.Diagnostics.EmptyMajors, major)
			log.Warn("major has no occupations in dataset, excluding", zap.String("major", major))
			continue
		}

		a.summaries[major] = summarize(major, resolved)
		a.details[major] = detailOrder(resolved)
	}

	if n := a.Diagnostics.UnmatchedTotal; n > 0 {
		log.Warn("unmatched occupation names dropped",
			zap.Int("count", n),
			zap.Int("majors_affected", len(a.Diagnostics.Unmatched)),
		)
	}
	return a
}

// resolve looks up each distinct occupation name of one major.
func (a *Aggregation) resolve(major string, names []string, occs Occupations) []model.OccupationRecord {
	seen := make(map[string]bool, len(names))
	resolved := make([]model.OccupationRecord, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		rec, ok := occs.Lookup(name)
		if !ok {
			a.Diagnostics.Unmatched[major] = append(a.Diagnostics.Unmatched[major], name)
			a.Diagnostics.UnmatchedTotal++
			zap.L().Warn("occupation not found in dataset",
				zap.String("major", major),
				zap.String("occupation", name),
			)
			continue
		}

		if rec.MedianSalary == nil {
			a.Diagnostics.NullSalary++
		}
		if rec.Jobs == nil {
			a.Diagnostics.NullJobs++
		}
		if rec.GrowthRate == nil {
			a.Diagnostics.NullGrowth++
		}
		resolved = append(resolved, rec)
	}
	return resolved
}

// summarize computes the statistics of one major over its resolved records.
func summarize(major string, recs []model.OccupationRecord) model.MajorSummary {
	s := model.MajorSummary{
		Major:       major,
		CareerCount: len(recs),
	}

	var salarySum, growthSum, weightedSum float64
	var weightJobs int64
	for _, r := range recs {
		s.TotalJobs += r.JobsOr(0)

		if r.MedianSalary != nil {
			v := *r.MedianSalary
			if s.SalaryCount == 0 || v < s.MinSalary {
				s.MinSalary = v
			}
			if s.SalaryCount == 0 || v > s.MaxSalary {
				s.MaxSalary = v
			}
			salarySum += v
			s.SalaryCount++
		}

		if r.GrowthRate != nil {
			growthSum += *r.GrowthRate
			s.GrowthCount++
			if r.Jobs != nil && *r.Jobs > 0 {
				weightedSum += *r.GrowthRate * float64(*r.Jobs)
				weightJobs += *r.Jobs
			}
		}
	}

	if s.SalaryCount > 0 {
		s.AverageSalary = salarySum / float64(s.SalaryCount)
	}
	if s.GrowthCount > 0 {
		s.AverageGrowth = growthSum / float64(s.GrowthCount)
	}
	if weightJobs > 0 {
		s.WeightedGrowth = weightedSum / float64(weightJobs)
	}

	s.TopOccupations = topBySalary(recs, model.TopOccupationCount)
	return s
}

// topBySalary returns the names of the n highest-paid records. Null salaries
// sort last; equal salaries keep dataset order.
func topBySalary(recs []model.OccupationRecord, n int) []string {
	ranked := slices.Clone(recs)
	slices.SortStableFunc(ranked, func(a, b model.OccupationRecord) int {
		if c := compareNullableDesc(a.MedianSalary, b.MedianSalary); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})

	names := make([]string, 0, min(n, len(ranked)))
	for _, r := range ranked[:min(n, len(ranked))] {
		names = append(names, r.Name)
	}
	return names
}

// detailOrder sorts records for the drill-down view: most jobs first, null
// job counts last, ties in dataset order.
func detailOrder(recs []model.OccupationRecord) []model.OccupationRecord {
	out := slices.Clone(recs)
	slices.SortStableFunc(out, func(a, b model.OccupationRecord) int {
		if c := compareNullableDesc(a.Jobs, b.Jobs); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}

// compareNullableDesc orders larger values first and nil after any value.
func compareNullableDesc[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*b, *a)
	}
}

// Summaries returns a deep copy of the per-major summaries.
func (a *Aggregation) Summaries() map[string]model.MajorSummary {
	out := make(map[string]model.MajorSummary, len(a.summaries))
	for major, s := range a.summaries {
		out[major] = cloneSummary(s)
	}
	return out
}

// Summary returns a copy of the summary for one major.
func (a *Aggregation) Summary(major string) (model.MajorSummary, bool) {
	s, ok := a.summaries[major]
	return cloneSummary(s), ok
}

func cloneSummary(s model.MajorSummary) model.MajorSummary {
	s.TopOccupations = slices.Clone(s.TopOccupations)
	return s
}

// Majors returns the majors that have a summary, sorted by name.
func (a *Aggregation) Majors() []string {
	return slices.Sorted(maps.Keys(a.summaries))
}

// DetailFor returns the full records behind a major's summary, most jobs
// first. Unknown majors and majors without resolved occupations yield an
// empty slice.
func (a *Aggregation) DetailFor(major string) []model.OccupationRecord {
	recs, ok := a.details[major]
	if !ok {
		return []model.OccupationRecord{}
	}
	return slices.Clone(recs)
}
