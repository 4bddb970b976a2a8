package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/career-explorer/internal/explorer"
	"github.com/sells-group/career-explorer/internal/render"
	"github.com/sells-group/career-explorer/internal/view"
)

var (
	compareMajors []string
	comparePreset string
	compareSort   string
	compareAsc    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare majors side by side",
	Long:  "Prints average salary, salary range, job openings, growth, career paths and top careers per major. Without --majors or --preset the curated top15 selection is shown.",
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := loadExplorer(cmd.Context(), "query")
		if err != nil {
			return err
		}
		return runCompare(cmd.OutOrStdout(), exp, explorer.CompareRequest{
			Majors:     compareMajors,
			Preset:     comparePreset,
			SortKey:    compareSort,
			Descending: !compareAsc,
		})
	},
}

type comparer interface {
	Compare(req explorer.CompareRequest) (view.Comparison, error)
}

func runCompare(out io.Writer, exp comparer, req explorer.CompareRequest) error {
	if len(req.Majors) == 0 && req.Preset == "" {
		req.Preset = string(view.PresetTop15)
	}
	c, err := exp.Compare(req)
	if err != nil {
		return err
	}
	render.Comparison(out, c)
	return nil
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareMajors, "majors", nil, "majors to compare (comma-separated)")
	compareCmd.Flags().StringVar(&comparePreset, "preset", "", "quick selection: top15 or all")
	compareCmd.Flags().StringVar(&compareSort, "sort", string(view.SortAverageSalary), "sort key: averageSalary, minSalary, maxSalary, totalJobs, averageGrowth, careerCount, major")
	compareCmd.Flags().BoolVar(&compareAsc, "asc", false, "sort ascending")
	rootCmd.AddCommand(compareCmd)
}
