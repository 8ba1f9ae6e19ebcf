package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishnuk/fuelwatch/internal/store"
)

var (
	historyLocation string
	historyDays     int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show price history for a window of days",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		now := time.Now().UTC()
		obs, err := st.History(ctx, store.HistoryFilter{
			LocationID: historyLocation,
			Since:      now.AddDate(0, 0, -historyDays),
			Until:      now,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(obs)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyLocation, "location", "", "location id (empty = all locations)")
	historyCmd.Flags().IntVar(&historyDays, "days", 30, "trailing window in days")
	rootCmd.AddCommand(historyCmd)
}
