package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/career-explorer/internal/render"
)

var majorsDefaults bool

var majorsCmd = &cobra.Command{
	Use:   "majors",
	Short: "List mapped majors",
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := loadExplorer(cmd.Context(), "query")
		if err != nil {
			return err
		}
		writeMajors(cmd.OutOrStdout(), exp, majorsDefaults)
		return nil
	},
}

type majorLister interface {
	Majors() []string
	DefaultMajors() []string
	HasData(major string) bool
}

func writeMajors(out io.Writer, exp majorLister, defaultsOnly bool) {
	majors := exp.Majors()
	if defaultsOnly {
		majors = exp.DefaultMajors()
	}
	render.MajorList(out, majors, exp.HasData)
}

func init() {
	majorsCmd.Flags().BoolVar(&majorsDefaults, "defaults", false, "list only the curated default selection")
	rootCmd.AddCommand(majorsCmd)
}
