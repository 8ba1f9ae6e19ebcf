package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishnuk/fuelwatch/internal/model"
)

var (
	clubID      string
	clubName    string
	clubCity    string
	clubURL     string
	clubFuelURL string
	clubAddress string
)

var clubsCmd = &cobra.Command{
	Use:   "clubs",
	Short: "Manage the location catalog",
}

var clubsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a new club",
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
		if _, err := reg.Get(clubID); err == nil {
			return eris.Errorf("club %q is already tracked", clubID)
		}

		loc := model.Location{
			ID:            clubID,
			DisplayName:   clubName,
			City:          clubCity,
			ClubURL:       clubURL,
			FuelCenterURL: clubFuelURL,
			KnownAddress:  clubAddress,
			Source:        model.LocationSourceManual,
		}
		if err := loc.Validate(); err != nil {
			return err
		}
		if err := st.UpsertLocation(ctx, loc); err != nil {
			return err
		}

		zap.L().Info("club added",
			zap.String("id", loc.ID),
			zap.String("club_url", loc.ClubURL),
		)
		return nil
	},
}

var clubsSetAddressCmd = &cobra.Command{
	Use:   "set-address",
	Short: "Update the known address for a tracked club",
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
		loc, err := reg.Get(clubID)
		if err != nil {
			return err
		}

		if err := reg.SetKnownAddress(clubID, clubAddress); err != nil {
			return err
		}
		loc, _ = reg.Get(clubID)
		if err := st.UpsertLocation(ctx, loc); err != nil {
			return err
		}

		zap.L().Info("address updated",
			zap.String("id", clubID),
			zap.String("address", clubAddress),
		)
		return nil
	},
}

func init() {
	clubsAddCmd.Flags().StringVar(&clubID, "id", "", "location id (required)")
	clubsAddCmd.Flags().StringVar(&clubName, "name", "", "display name (required)")
	clubsAddCmd.Flags().StringVar(&clubCity, "city", "", "expected city for address validation (required)")
	clubsAddCmd.Flags().StringVar(&clubURL, "club-url", "", "club page URL (required)")
	clubsAddCmd.Flags().StringVar(&clubFuelURL, "fuel-url", "", "fuel center URL (optional)")
	clubsAddCmd.Flags().StringVar(&clubAddress, "address", "", "known address (optional)")
	_ = clubsAddCmd.MarkFlagRequired("id")
	_ = clubsAddCmd.MarkFlagRequired("name")
	_ = clubsAddCmd.MarkFlagRequired("city")
	_ = clubsAddCmd.MarkFlagRequired("club-url")

	clubsSetAddressCmd.Flags().StringVar(&clubID, "id", "", "location id (required)")
	clubsSetAddressCmd.Flags().StringVar(&clubAddress, "address", "", "new known address (required)")
	_ = clubsSetAddressCmd.MarkFlagRequired("id")
	_ = clubsSetAddressCmd.MarkFlagRequired("address")

	clubsCmd.AddCommand(clubsAddCmd)
	clubsCmd.AddCommand(clubsSetAddressCmd)
	rootCmd.AddCommand(clubsCmd)
}
