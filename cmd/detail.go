package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/career-explorer/internal/explorer"
	"github.com/sells-group/career-explorer/internal/render"
)

var detailCmd = &cobra.Command{
	Use:   "detail <major>",
	Short: "Show every career option for one major",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := loadExplorer(cmd.Context(), "query")
		if err != nil {
			return err
		}
		return runDetail(cmd.OutOrStdout(), exp, strings.Join(args, " "))
	},
}

type detailer interface {
	Detail(major string) (explorer.Detail, error)
}

func runDetail(out io.Writer, exp detailer, major string) error {
	d, err := exp.Detail(major)
	if err != nil {
		return err
	}
	if !d.HasData {
		_, _ = fmt.Fprintf(out, "No occupation data found for %s\n", d.Major)
		return nil
	}
	render.Detail(out, d.Summary, d.Occupations)
	return nil
}

func init() {
	rootCmd.AddCommand(detailCmd)
}
