package pipeline

import (
	"context"

	"github.com/vishnuk/fuelwatch/internal/model"
	"github.com/vishnuk/fuelwatch/internal/store"
)

// Gatekeeper decides which locations still need scraping on a given day.
// A location is fresh once a live observation exists for every tracked fuel
// type on that calendar day; fresh locations produce zero network activity.
type Gatekeeper struct {
	store store.Store
}

// NewGatekeeper creates a gatekeeper backed by the given store.
func NewGatekeeper(st store.Store) *Gatekeeper {
	return &Gatekeeper{store: st}
}

// NeedsScrape reports whether the location lacks a live observation for any
// tracked fuel type on the given day. A location with no history at all is
// always stale.
func (g *Gatekeeper) NeedsScrape(ctx context.Context, loc model.Location, day string) (bool, error) {
	for _, fuel := range model.TrackedFuelTypes() {
		have, err := g.store.HasLiveObservation(ctx, loc.ID, fuel, day)
		if err != nil {
			return false, err
		}
		if !have {
			return true, nil
		}
	}
	return false, nil
}

// PlanRun returns the subset of locations needing scraping on the given day,
// preserving input order.
func (g *Gatekeeper) PlanRun(ctx context.Context, locs []model.Location, day string) ([]model.Location, error) {
	var plan []model.Location
	for _, loc := range locs {
		stale, err := g.NeedsScrape(ctx, loc, day)
		if err != nil {
			return nil, err
		}
		if stale {
			plan = append(plan, loc)
		}
	}
	return plan, nil
}
