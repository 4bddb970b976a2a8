package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/career-explorer/internal/config"
	"github.com/sells-group/career-explorer/internal/explorer"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "career-explorer",
	Short: "Compare college majors by the careers they lead to",
	Long:  "Joins BLS occupation data with a major-to-occupation mapping and compares majors by salary, job openings, growth and career paths.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadExplorer validates the config for mode and opens the explorer.
func loadExplorer(ctx context.Context, mode string) (*explorer.Explorer, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	return explorer.Open(ctx, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
