package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/career-explorer/internal/config"
	"github.com/sells-group/career-explorer/internal/db"
	"github.com/sells-group/career-explorer/internal/export"
)

var (
	exportSQLite   bool
	exportXLSX     bool
	exportPostgres bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write per-major summaries to SQLite, Excel or Postgres",
	Long:  "Exports every major summary and its occupations. With no sink flags, every sink with a configured destination is written.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		exp, err := loadExplorer(ctx, "export")
		if err != nil {
			return err
		}

		sinks, closeFn, err := buildSinks(ctx, cfg.Export, exportSQLite, exportXLSX, exportPostgres)
		if err != nil {
			return err
		}
		defer closeFn()

		snap := export.NewSnapshot(exp)
		results, err := export.Run(ctx, snap, sinks...)
		if err != nil {
			return err
		}
		writeExportResults(cmd.OutOrStdout(), snap, results)
		return nil
	},
}

// buildSinks picks the sinks to write. Explicit flags select sinks; with no
// flags every configured destination is used.
func buildSinks(ctx context.Context, ec config.ExportConfig, sqlite, xlsx, postgres bool) ([]export.Sink, func(), error) {
	all := !sqlite && !xlsx && !postgres
	var sinks []export.Sink
	closeFn := func() {}

	if sqlite || (all && ec.SQLitePath != "") {
		if ec.SQLitePath == "" {
			return nil, closeFn, eris.New("export: export.sqlite_path is not set")
		}
		sinks = append(sinks, &export.SQLiteSink{Path: ec.SQLitePath})
	}
	if xlsx || (all && ec.XLSXPath != "") {
		if ec.XLSXPath == "" {
			return nil, closeFn, eris.New("export: export.xlsx_path is not set")
		}
		sinks = append(sinks, &export.XLSXSink{Path: ec.XLSXPath})
	}
	if postgres || (all && ec.DatabaseURL != "") {
		if ec.DatabaseURL == "" {
			return nil, closeFn, eris.New("export: export.database_url is not set")
		}
		pool, err := db.Connect(ctx, ec.DatabaseURL)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = pool.Close
		sinks = append(sinks, &export.PostgresSink{Pool: pool})
	}
	return sinks, closeFn, nil
}

func writeExportResults(out io.Writer, snap *export.Snapshot, results []export.Result) {
	_, _ = fmt.Fprintf(out, "Export %s (%d majors)\n\n", snap.ID, len(snap.Summaries))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SINK\tROWS")
	_, _ = fmt.Fprintln(w, "----\t----")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", r.Sink, r.Rows)
	}
	_ = w.Flush()
}

func init() {
	exportCmd.Flags().BoolVar(&exportSQLite, "sqlite", false, "write to export.sqlite_path")
	exportCmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "write to export.xlsx_path")
	exportCmd.Flags().BoolVar(&exportPostgres, "postgres", false, "write to export.database_url")
	rootCmd.AddCommand(exportCmd)
}
