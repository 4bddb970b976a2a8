package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sells-group/career-explorer/internal/model"
	"github.com/sells-group/career-explorer/internal/view"
)

// DescriptionLimit is how many characters of an occupation description the
// detail view prints.
const DescriptionLimit = 500

// Comparison writes the comparison table followed by the key statistics.
func Comparison(out io.Writer, c view.Comparison) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MAJOR\tAVG SALARY\tSALARY RANGE\tJOBS\tGROWTH\tCAREERS\tTOP CAREERS")
	_, _ = fmt.Fprintln(w, "-----\t----------\t------------\t----\t------\t-------\t-----------")
	for _, r := range c.Rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.Major,
			Salary(r.AverageSalary),
			SalaryRange(r.MinSalary, r.MaxSalary),
			Jobs(r.TotalJobs),
			Growth(r.AverageGrowth),
			r.CareerCount,
			strings.Join(r.TopOccupations, ", "),
		)
	}
	_ = w.Flush()

	if !c.Superlatives.OK {
		return
	}
	s := c.Superlatives
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "KEY STATISTICS")
	_, _ = fmt.Fprintf(out, "  Highest avg salary: %s (%s)\n", s.HighestSalary.Major, Salary(s.HighestSalary.Value))
	_, _ = fmt.Fprintf(out, "  Most job openings:  %s (%s)\n", s.MostJobs.Major, Jobs(int64(s.MostJobs.Value)))
	_, _ = fmt.Fprintf(out, "  Fastest growth:     %s (%s)\n", s.FastestGrowth.Major, Growth(s.FastestGrowth.Value))
	_, _ = fmt.Fprintf(out, "  Most career paths:  %s (%d careers)\n", s.MostCareerPaths.Major, int(s.MostCareerPaths.Value))
}

// Detail writes the drill-down for one major: headline stats then every
// career option.
func Detail(out io.Writer, s model.MajorSummary, recs []model.OccupationRecord) {
	_, _ = fmt.Fprintf(out, "Career paths for %s\n\n", s.Major)
	_, _ = fmt.Fprintf(out, "  Average salary:     %s (range %s)\n", Salary(s.AverageSalary), SalaryRange(s.MinSalary, s.MaxSalary))
	_, _ = fmt.Fprintf(out, "  Total job openings: %s\n", Jobs(s.TotalJobs))
	_, _ = fmt.Fprintf(out, "  Average growth:     %s\n\n", Growth(s.WeightedGrowth))

	for _, r := range recs {
		_, _ = fmt.Fprintf(out, "%s - %s\n", r.Name, orDash(r.SalaryText))
		_, _ = fmt.Fprintf(out, "  Median annual salary:  %s\n", orDash(r.SalaryText))
		jobs := "-"
		if r.Jobs != nil {
			jobs = Jobs(*r.Jobs)
		}
		_, _ = fmt.Fprintf(out, "  Number of jobs:        %s\n", jobs)
		_, _ = fmt.Fprintf(out, "  Job outlook:           %s\n", orDash(r.OutlookText))
		_, _ = fmt.Fprintf(out, "  Entry level education: %s\n", orDash(r.EntryEducation))
		if r.Description != "" {
			_, _ = fmt.Fprintf(out, "  What they do: %s\n", Truncate(r.Description, DescriptionLimit))
		}
		_, _ = fmt.Fprintln(out)
	}
}

// MajorList writes one major per line, marking those without data.
func MajorList(out io.Writer, majors []string, hasData func(string) bool) {
	for _, m := range majors {
		if hasData != nil && !hasData(m) {
			_, _ = fmt.Fprintf(out, "%s (no data)\n", m)
			continue
		}
		_, _ = fmt.Fprintln(out, m)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
