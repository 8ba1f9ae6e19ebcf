// Package query holds the read-only consumers of the price store: trend
// aggregation, lowest-price reporting, and CSV export.
package query

import (
	"context"
	"time"

	"github.com/vishnuk/fuelwatch/internal/model"
	"github.com/vishnuk/fuelwatch/internal/store"
)

// Trends computes per-fuel statistics over a trailing window ending at now.
// Fuel types with no samples in the window are omitted.
func Trends(ctx context.Context, st store.Store, locationID string, windowDays int, now time.Time) (map[model.FuelType]model.FuelTrend, error) {
	since := now.UTC().AddDate(0, 0, -windowDays)
	obs, err := st.History(ctx, store.HistoryFilter{
		LocationID: locationID,
		Since:      since,
		Until:      now.UTC(),
	})
	if err != nil {
		return nil, err
	}

	trends := make(map[model.FuelType]model.FuelTrend)
	for _, o := range obs {
		t, ok := trends[o.FuelType]
		if !ok {
			t = model.FuelTrend{Min: o.Price, Max: o.Price}
		}
		if o.Price < t.Min {
			t.Min = o.Price
		}
		if o.Price > t.Max {
			t.Max = o.Price
		}
		// History is ordered by observed_at ascending, so the last sample
		// seen is the current price.
		t.Current = o.Price
		t.Average = (t.Average*float64(t.SampleCount) + o.Price) / float64(t.SampleCount+1)
		t.SampleCount++
		trends[o.FuelType] = t
	}
	return trends, nil
}
