package export

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet names in the exported workbook.
const (
	SummarySheet    = "Summary"
	OccupationSheet = "Occupations"
)

var (
	summaryHeader = []string{
		"Major", "Avg Median Salary", "Min Salary", "Max Salary", "Total Job Openings",
		"Avg Growth Rate (%)", "Weighted Growth Rate (%)", "Career Paths", "Top 3 Careers",
	}
	occupationHeader = []string{
		"Major", "Rank", "Occupation", "Median Salary", "Number of Jobs",
		"Job Outlook (%)", "Entry Level Education",
	}
)

// XLSXSink writes a snapshot to an Excel workbook, replacing any file at Path.
type XLSXSink struct {
	Path string
}

// Name implements Sink.
func (s *XLSXSink) Name() string { return "xlsx" }

// Write implements Sink.
func (s *XLSXSink) Write(ctx context.Context, snap *Snapshot) (int64, error) {
	f := xlsx.NewFile()

	sums, err := f.AddSheet(SummarySheet)
	if err != nil {
		return 0, eris.Wrap(err, "xlsx: add summary sheet")
	}
	occs, err := f.AddSheet(OccupationSheet)
	if err != nil {
		return 0, eris.Wrap(err, "xlsx: add occupation sheet")
	}
	writeHeader(sums, summaryHeader)
	writeHeader(occs, occupationHeader)

	var n int64
	for _, sum := range snap.Summaries {
		if err := ctx.Err(); err != nil {
			return 0, eris.Wrap(err, "xlsx: write")
		}

		row := sums.AddRow()
		row.AddCell().SetString(sum.Major)
		row.AddCell().SetFloat(sum.AverageSalary)
		row.AddCell().SetFloat(sum.MinSalary)
		row.AddCell().SetFloat(sum.MaxSalary)
		row.AddCell().SetInt64(sum.TotalJobs)
		row.AddCell().SetFloat(sum.AverageGrowth)
		row.AddCell().SetFloat(sum.WeightedGrowth)
		row.AddCell().SetInt(sum.CareerCount)
		row.AddCell().SetString(strings.Join(sum.TopOccupations, ", "))
		n++

		for rank, r := range snap.Occupations[sum.Major] {
			row := occs.AddRow()
			row.AddCell().SetString(sum.Major)
			row.AddCell().SetInt(rank + 1)
			row.AddCell().SetString(r.Name)
			cell := row.AddCell()
			if r.MedianSalary != nil {
				cell.SetFloat(*r.MedianSalary)
			}
			cell = row.AddCell()
			if r.Jobs != nil {
				cell.SetInt64(*r.Jobs)
			}
			cell = row.AddCell()
			if r.GrowthRate != nil {
				cell.SetFloat(*r.GrowthRate)
			}
			row.AddCell().SetString(r.EntryEducation)
			n++
		}
	}

	if err := f.Save(s.Path); err != nil {
		return 0, eris.Wrapf(err, "xlsx: save %s", s.Path)
	}
	return n, nil
}

func writeHeader(sheet *xlsx.Sheet, cols []string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}
