package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishnuk/fuelwatch/internal/model"
	"github.com/vishnuk/fuelwatch/internal/scrape"
)

var (
	priceLocation string
	priceFuel     string
	priceText     string
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Manage manual price entries",
}

var pricesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a manually observed price",
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
		loc, err := reg.Get(priceLocation)
		if err != nil {
			return err
		}

		fuel := model.FuelType(priceFuel)
		switch fuel {
		case model.FuelRegular, model.FuelPremium, model.FuelDiesel:
		default:
			return eris.Errorf("unknown fuel type %q (want Regular, Premium, or Diesel)", priceFuel)
		}

		price, err := scrape.ParsePrice(priceText)
		if err != nil {
			return err
		}

		// Manual entries come from a person reading the pump sign; locations
		// are synced first so the observation has a catalog row to join.
		if err := st.UpsertLocation(ctx, loc); err != nil {
			return err
		}
		obs, err := st.AppendObservation(ctx, model.PriceObservation{
			LocationID: loc.ID,
			FuelType:   fuel,
			Price:      price,
			ObservedAt: time.Now().UTC(),
			Origin:     model.OriginManual,
		})
		if err != nil {
			return err
		}

		zap.L().Info("manual price recorded",
			zap.String("location", obs.LocationID),
			zap.String("fuel_type", string(obs.FuelType)),
			zap.Float64("price", obs.Price),
		)
		return nil
	},
}

func init() {
	pricesAddCmd.Flags().StringVar(&priceLocation, "location", "", "location id (required)")
	pricesAddCmd.Flags().StringVar(&priceFuel, "fuel", "", "fuel type: Regular, Premium, or Diesel (required)")
	pricesAddCmd.Flags().StringVar(&priceText, "price", "", "price, e.g. 3.45 or $3.45 (required)")
	_ = pricesAddCmd.MarkFlagRequired("location")
	_ = pricesAddCmd.MarkFlagRequired("fuel")
	_ = pricesAddCmd.MarkFlagRequired("price")

	pricesCmd.AddCommand(pricesAddCmd)
	rootCmd.AddCommand(pricesCmd)
}
