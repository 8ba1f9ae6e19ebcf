package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/vishnuk/fuelwatch/internal/model"
)

// ErrDuplicateLive is returned by AppendObservation when a second live
// observation for the same location, fuel type, and calendar day would be
// written. The gatekeeper should have excluded the location, so hitting this
// indicates a planning or concurrency bug.
var ErrDuplicateLive = eris.New("store: duplicate live observation for day")

// HistoryFilter specifies criteria for history queries. A zero LocationID
// means all locations.
type HistoryFilter struct {
	LocationID string    `json:"location_id,omitempty"`
	Since      time.Time `json:"since,omitempty"`
	Until      time.Time `json:"until,omitempty"`
}

// AttemptStats summarizes scraping activity for one calendar day.
type AttemptStats struct {
	Attempts           int `json:"attempts"`
	Succeeded          int `json:"succeeded"`
	Failed             int `json:"failed"`
	LocationsAttempted int `json:"locations_attempted"`
}

// Store defines the persistence interface for price history and the
// scraping audit log. Observations and attempts are append-only.
type Store interface {
	// Observations
	AppendObservation(ctx context.Context, obs model.PriceObservation) (*model.PriceObservation, error)
	Latest(ctx context.Context, locationID string) (map[model.FuelType]model.PriceObservation, error)
	History(ctx context.Context, filter HistoryFilter) ([]model.PriceObservation, error)
	HasLiveObservation(ctx context.Context, locationID string, fuel model.FuelType, day string) (bool, error)

	// Attempt log
	LogAttempt(ctx context.Context, attempt model.ScrapeAttempt) error
	AttemptStats(ctx context.Context, day string) (*AttemptStats, error)

	// Locations
	UpsertLocation(ctx context.Context, loc model.Location) error
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
