package query

import (
	"context"

	"github.com/vishnuk/fuelwatch/internal/model"
	"github.com/vishnuk/fuelwatch/internal/store"
)

// LowestPrice identifies the cheapest club for one fuel grade.
type LowestPrice struct {
	LocationID  string  `json:"location_id"`
	DisplayName string  `json:"display_name"`
	Address     string  `json:"address"`
	Price       float64 `json:"price"`
}

// Lowest finds the cheapest latest price per fuel type across the catalog.
func Lowest(ctx context.Context, st store.Store) (map[model.FuelType]LowestPrice, error) {
	locs, err := st.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[model.FuelType]LowestPrice)
	for _, loc := range locs {
		latest, err := st.Latest(ctx, loc.ID)
		if err != nil {
			return nil, err
		}
		for fuel, obs := range latest {
			best, seen := out[fuel]
			if !seen || obs.Price < best.Price {
				out[fuel] = LowestPrice{
					LocationID:  loc.ID,
					DisplayName: loc.DisplayName,
					Address:     loc.KnownAddress,
					Price:       obs.Price,
				}
			}
		}
	}
	return out, nil
}
