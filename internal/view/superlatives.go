package view

import (
	"slices"
	"strings"

	"github.com/sells-group/career-explorer/internal/model"
)

// Leader is the major that holds the top value for one metric.
type Leader struct {
	Major string  `json:"major"`
	Value float64 `json:"value"`
}

// Superlatives holds the arg-max major per headline metric.
type Superlatives struct {
	OK              bool   `json:"ok"`
	HighestSalary   Leader `json:"highest_salary"`
	MostJobs        Leader `json:"most_jobs"`
	FastestGrowth   Leader `json:"fastest_growth"`
	MostCareerPaths Leader `json:"most_career_paths"`
}

// ComputeSuperlatives finds the leader of each metric among rows. On ties
// the first row wins. Empty input yields OK == false.
func ComputeSuperlatives(rows []model.MajorSummary) Superlatives {
	if len(rows) == 0 {
		return Superlatives{}
	}

	first := rows[0]
	s := Superlatives{
		OK:              true,
		HighestSalary:   Leader{first.Major, first.AverageSalary},
		MostJobs:        Leader{first.Major, float64(first.TotalJobs)},
		FastestGrowth:   Leader{first.Major, first.AverageGrowth},
		MostCareerPaths: Leader{first.Major, float64(first.CareerCount)},
	}
	for _, r := range rows[1:] {
		takeIfGreater(&s.HighestSalary, r.Major, r.AverageSalary)
		takeIfGreater(&s.MostJobs, r.Major, float64(r.TotalJobs))
		takeIfGreater(&s.FastestGrowth, r.Major, r.AverageGrowth)
		takeIfGreater(&s.MostCareerPaths, r.Major, float64(r.CareerCount))
	}
	return s
}

func takeIfGreater(l *Leader, major string, v float64) {
	if v > l.Value {
		l.Major = major
		l.Value = v
	}
}

// Comparison is one rendered state of the comparison table.
type Comparison struct {
	Rows         []model.MajorSummary `json:"rows"`
	SortKey      SortKey              `json:"sort_key"`
	Descending   bool                 `json:"descending"`
	Superlatives Superlatives         `json:"superlatives"`
}

// Compare selects and sorts the chosen majors and computes their
// superlatives. Superlative ties go to the alphabetically first major,
// whatever the display order.
func Compare(summaries map[string]model.MajorSummary, chosen []string, key SortKey, descending bool) (Comparison, error) {
	rows, err := Select(summaries, chosen, key, descending)
	if err != nil {
		return Comparison{}, err
	}

	byName := slices.Clone(rows)
	slices.SortFunc(byName, func(a, b model.MajorSummary) int { return strings.Compare(a.Major, b.Major) })

	return Comparison{
		Rows:         rows,
		SortKey:      key,
		Descending:   descending,
		Superlatives: ComputeSuperlatives(byName),
	}, nil
}
