package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishnuk/fuelwatch/internal/pipeline"
)

// statusReport summarizes today's scraping activity.
type statusReport struct {
	Day                string `json:"day"`
	Attempts           int    `json:"attempts"`
	Succeeded          int    `json:"succeeded"`
	Failed             int    `json:"failed"`
	LocationsAttempted int    `json:"locations_attempted"`
	LocationsTracked   int    `json:"locations_tracked"`
	LocationsStale     int    `json:"locations_stale"`
	AllFresh           bool   `json:"all_fresh"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's scraping status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		reg, err := loadRegistry(ctx, st)
		if err != nil {
			return err
		}

		day := time.Now().UTC().Format("2006-01-02")
		stats, err := st.AttemptStats(ctx, day)
		if err != nil {
			return err
		}

		plan, err := pipeline.NewGatekeeper(st).PlanRun(ctx, reg.All(), day)
		if err != nil {
			return err
		}

		report := statusReport{
			Day:                day,
			Attempts:           stats.Attempts,
			Succeeded:          stats.Succeeded,
			Failed:             stats.Failed,
			LocationsAttempted: stats.LocationsAttempted,
			LocationsTracked:   reg.Len(),
			LocationsStale:     len(plan),
			AllFresh:           len(plan) == 0,
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
