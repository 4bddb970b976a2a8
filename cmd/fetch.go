package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/career-explorer/internal/dataset"
)

var (
	fetchURL string
	fetchOut string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the occupation dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchURL != "" {
			cfg.Dataset.URL = fetchURL
		}
		if fetchOut != "" {
			cfg.Dataset.Path = fetchOut
		}
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		d := dataset.NewDownloader(dataset.DownloadOptions{
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
			RatePerSec: cfg.Fetch.RatePerSec,
		})
		n, err := d.DownloadToFile(cmd.Context(), cfg.Dataset.URL, cfg.Dataset.Path)
		if err != nil {
			return err
		}

		zap.L().Info("dataset downloaded",
			zap.String("url", cfg.Dataset.URL),
			zap.String("path", cfg.Dataset.Path),
			zap.Int64("bytes", n),
		)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", n, cfg.Dataset.Path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "dataset URL (default from config)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "output path (default dataset.path)")
	rootCmd.AddCommand(fetchCmd)
}
