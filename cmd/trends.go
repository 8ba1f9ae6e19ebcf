package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishnuk/fuelwatch/internal/query"
)

var (
	trendsLocation string
	trendsDays     int
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show per-fuel price trends for a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		trends, err := query.Trends(ctx, st, trendsLocation, trendsDays, time.Now())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trends)
	},
}

var lowestCmd = &cobra.Command{
	Use:   "lowest",
	Short: "Show the cheapest club per fuel type",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		lowest, err := query.Lowest(ctx, st)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lowest)
	},
}

func init() {
	trendsCmd.Flags().StringVar(&trendsLocation, "location", "", "location id (required)")
	trendsCmd.Flags().IntVar(&trendsDays, "days", 7, "trailing window in days")
	_ = trendsCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(lowestCmd)
}
