package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vishnuk/fuelwatch/internal/fetcher"
	"github.com/vishnuk/fuelwatch/internal/pipeline"
	"github.com/vishnuk/fuelwatch/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape today's prices for stale locations",
	Long:  "Plans the set of locations lacking live prices for today and runs the fetch-validate-fallback sequence over them. Locations already scraped today are skipped without any network activity.",
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

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    cfg.Fetch.Timeout(),
			MaxRetries: cfg.Fetch.MaxRetries,
			HostRate:   rate.Limit(cfg.Fetch.HostRatePerSec),
			HostBurst:  cfg.Fetch.HostBurst,
		})

		p := pipeline.New(st, f, scrape.NewHTMLExtractor(), cfg.Scrape.MaxConcurrent)

		summary, err := p.Run(ctx, reg)
		if err != nil {
			return eris.Wrap(err, "scrape run")
		}

		zap.L().Info("scrape complete",
			zap.Int("planned", summary.Planned),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("fell_back", summary.FellBack),
			zap.Int("failed", summary.Failed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
