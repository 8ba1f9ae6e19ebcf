package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// FuelType is one of the tracked fuel grades.
type FuelType string

const (
	FuelRegular FuelType = "Regular"
	FuelPremium FuelType = "Premium"
	FuelDiesel  FuelType = "Diesel"
)

// TrackedFuelTypes lists the grades every location is expected to report.
func TrackedFuelTypes() []FuelType {
	return []FuelType{FuelRegular, FuelPremium, FuelDiesel}
}

// Origin records how a price observation was produced.
type Origin string

const (
	OriginLive           Origin = "live"
	OriginManual         Origin = "manual"
	OriginCachedFallback Origin = "cached-fallback"
)

// PriceObservation is one append-only price sample for a location and grade.
type PriceObservation struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	FuelType   FuelType  `json:"fuel_type"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
	Origin     Origin    `json:"origin"`
}

// Validate checks the invariants enforced at the append boundary.
func (o PriceObservation) Validate() error {
	if o.LocationID == "" {
		return eris.New("observation: location id is required")
	}
	if o.FuelType == "" {
		return eris.New("observation: fuel type is required")
	}
	if o.Price < 0 {
		return eris.Errorf("observation: price must be non-negative, got %.3f", o.Price)
	}
	switch o.Origin {
	case OriginLive, OriginManual, OriginCachedFallback:
	default:
		return eris.Errorf("observation: unknown origin %q", o.Origin)
	}
	return nil
}

// Day returns the calendar day of the observation in UTC.
func (o PriceObservation) Day() string {
	return o.ObservedAt.UTC().Format("2006-01-02")
}

// AttemptOutcome tags the result of one scraping attempt.
type AttemptOutcome string

const (
	OutcomeSuccess         AttemptOutcome = "success"
	OutcomeAddressMismatch AttemptOutcome = "address_mismatch"
	OutcomeFetchFailed     AttemptOutcome = "fetch_failed"
	OutcomeBotProtection   AttemptOutcome = "bot_protection"
	OutcomeParseFailed     AttemptOutcome = "parse_failed"
)

// ScrapeAttempt is an append-only audit record of one attempt at a location.
type ScrapeAttempt struct {
	ID          string         `json:"id"`
	LocationID  string         `json:"location_id"`
	AttemptedAt time.Time      `json:"attempted_at"`
	Outcome     AttemptOutcome `json:"outcome"`
	Detail      string         `json:"detail,omitempty"`
}

// RunSummary reports the per-outcome counts of one gatekeeper+pipeline run.
type RunSummary struct {
	Planned   int `json:"planned"`
	Succeeded int `json:"succeeded"`
	FellBack  int `json:"fell_back"`
	Failed    int `json:"failed"`
}

// FuelTrend summarizes one fuel grade over a trailing window.
type FuelTrend struct {
	Current     float64 `json:"current"`
	Average     float64 `json:"average"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	SampleCount int     `json:"sample_count"`
}
