package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishnuk/fuelwatch/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "fuelwatch",
	Short: "Fuel price tracker for Sam's Club locations",
	Long:  "Collects daily fuel prices from known club fuel centers, keeps append-only history in sqlite, and serves trend, history, and export queries.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
