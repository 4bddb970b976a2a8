// Package view projects major summaries into sorted comparison tables.
package view

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/sells-group/career-explorer/internal/apperr"
	"github.com/sells-group/career-explorer/internal/model"
)

// SortKey names the summary field a comparison is ordered by.
type SortKey string

const (
	SortAverageSalary SortKey = "averageSalary"
	SortMinSalary     SortKey = "minSalary"
	SortMaxSalary     SortKey = "maxSalary"
	SortTotalJobs     SortKey = "totalJobs"
	SortAverageGrowth SortKey = "averageGrowth"
	SortCareerCount   SortKey = "careerCount"
	SortMajor         SortKey = "major"
)

// SortKeys lists every accepted sort key.
var SortKeys = []SortKey{
	SortAverageSalary,
	SortMinSalary,
	SortMaxSalary,
	SortTotalJobs,
	SortAverageGrowth,
	SortCareerCount,
	SortMajor,
}

var comparators = map[SortKey]func(a, b model.MajorSummary) int{
	SortAverageSalary: func(a, b model.MajorSummary) int { return cmp.Compare(a.AverageSalary, b.AverageSalary) },
	SortMinSalary:     func(a, b model.MajorSummary) int { return cmp.Compare(a.MinSalary, b.MinSalary) },
	SortMaxSalary:     func(a, b model.MajorSummary) int { return cmp.Compare(a.MaxSalary, b.MaxSalary) },
	SortTotalJobs:     func(a, b model.MajorSummary) int { return cmp.Compare(a.TotalJobs, b.TotalJobs) },
	SortAverageGrowth: func(a, b model.MajorSummary) int { return cmp.Compare(a.AverageGrowth, b.AverageGrowth) },
	SortCareerCount:   func(a, b model.MajorSummary) int { return cmp.Compare(a.CareerCount, b.CareerCount) },
	SortMajor:         func(a, b model.MajorSummary) int { return strings.Compare(a.Major, b.Major) },
}

// ParseSortKey validates s. Matching ignores case, so "averagesalary" and
// "AverageSalary" both resolve.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", apperr.InvalidArgument("unknown sort key %q", s)
}

// Select returns the summaries of the chosen majors ordered by key.
//
// An empty choice selects nothing. Chosen names without a summary are
// skipped. Rows start in alphabetical order and the sort is stable, so equal
// keys stay alphabetical in both directions.
func Select(summaries map[string]model.MajorSummary, chosen []string, key SortKey, descending bool) ([]model.MajorSummary, error) {
	compare, ok := comparators[key]
	if !ok {
		return nil, apperr.InvalidArgument("unknown sort key %q", key)
	}

	want := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		want[c] = true
	}

	rows := make([]model.MajorSummary, 0, len(want))
	for _, major := range slices.Sorted(maps.Keys(summaries)) {
		if want[major] {
			rows = append(rows, summaries[major])
		}
	}

	slices.SortStableFunc(rows, func(a, b model.MajorSummary) int {
		if descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return rows, nil
}

// Preset names a fixed major selection.
type Preset string

const (
	PresetTop15 Preset = "top15"
	PresetAll   Preset = "all"
)

// topPresetSize caps the curated preset.
const topPresetSize = 15

// MajorLister is the part of the mapping table the presets read.
type MajorLister interface {
	AllMajors() []string
	DefaultMajors() []string
}

// QuickSelect resolves a preset: "top15" is the first fifteen curated
// defaults, "all" is every mapped major.
func QuickSelect(table MajorLister, mode string) ([]string, error) {
	switch Preset(strings.ToLower(mode)) {
	case PresetTop15:
		defaults := table.DefaultMajors()
		return defaults[:min(topPresetSize, len(defaults))], nil
	case PresetAll:
		return table.AllMajors(), nil
	default:
		return nil, apperr.InvalidArgument("unknown preset %q (valid: top15, all)", mode)
	}
}
