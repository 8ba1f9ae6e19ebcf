// Package pipeline orchestrates the daily scrape: the gatekeeper plans the
// stale location set, each planned location runs the fetch-validate-fallback
// sequence, and every outcome lands in the store as an audit row.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vishnuk/fuelwatch/internal/fetcher"
	"github.com/vishnuk/fuelwatch/internal/model"
	"github.com/vishnuk/fuelwatch/internal/registry"
	"github.com/vishnuk/fuelwatch/internal/scrape"
	"github.com/vishnuk/fuelwatch/internal/store"
)

// locOutcome classifies what one planned location produced.
type locOutcome int

const (
	locSucceeded locOutcome = iota
	locFellBack
	locFailed
)

// Pipeline runs the fetch-validate-fallback sequence over planned locations.
type Pipeline struct {
	store         store.Store
	fetch         fetcher.Fetcher
	extract       scrape.Extractor
	maxConcurrent int
	now           func() time.Time // injectable for testing
}

// New creates a pipeline. maxConcurrent bounds in-flight fetches; values
// outside 1..4 are clamped to keep the upstream site happy.
func New(st store.Store, f fetcher.Fetcher, ex scrape.Extractor, maxConcurrent int) *Pipeline {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if maxConcurrent > 4 {
		maxConcurrent = 4
	}
	return &Pipeline{
		store:         st,
		fetch:         f,
		extract:       ex,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (p *Pipeline) WithNow(fn func() time.Time) *Pipeline {
	p.now = fn
	return p
}

// Run syncs the registry catalog into the store, plans the stale location
// set for today, and processes each planned location. Ordinary scraping
// failures are absorbed into the summary; only store invariant violations
// and infrastructure errors abort the run.
func (p *Pipeline) Run(ctx context.Context, reg *registry.Registry) (*model.RunSummary, error) {
	locs := reg.All()
	for _, loc := range locs {
		if err := p.store.UpsertLocation(ctx, loc); err != nil {
			return nil, err
		}
	}

	today := p.now().UTC().Format("2006-01-02")
	plan, err := NewGatekeeper(p.store).PlanRun(ctx, locs, today)
	if err != nil {
		return nil, err
	}

	summary := &model.RunSummary{Planned: len(plan)}
	if len(plan) == 0 {
		zap.L().Info("all locations fresh, skipping scrape", zap.String("day", today))
		return summary, nil
	}

	zap.L().Info("scrape planned",
		zap.String("day", today),
		zap.Int("stale", len(plan)),
		zap.Int("total", len(locs)),
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)

	for _, loc := range plan {
		loc := loc
		// Cooperative abort between locations: already-written locations
		// stay valid.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome, err := p.processLocation(gctx, loc)
			if err != nil {
				return err
			}
			mu.Lock()
			switch outcome {
			case locSucceeded:
				summary.Succeeded++
			case locFellBack:
				summary.FellBack++
			case locFailed:
				summary.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// processLocation runs the fetch, block detect, extract, validate, parse
// sequence for one location, degrading to cached prices on any scraping
// failure. Exactly one attempt row is written per call.
func (p *Pipeline) processLocation(ctx context.Context, loc model.Location) (locOutcome, error) {
	fuelURL := loc.FuelURL()
	log := zap.L().With(zap.String("location", loc.ID), zap.String("url", fuelURL))

	page, err := p.fetch.Fetch(ctx, fuelURL)
	if err != nil {
		// A non-2xx response still carries a body; a bot interstitial there
		// is more informative than the status code.
		if page != nil {
			if blocked, btype := scrape.DetectBlock(page.StatusCode, page.Header, page.Body); blocked {
				log.Warn("bot protection detected", zap.String("block_type", string(btype)))
				return p.fallback(ctx, loc, model.OutcomeBotProtection, string(btype))
			}
		}
		log.Warn("fetch failed", zap.Error(err))
		return p.fallback(ctx, loc, model.OutcomeFetchFailed, err.Error())
	}

	if blocked, btype := scrape.DetectBlock(page.StatusCode, page.Header, page.Body); blocked {
		log.Warn("bot protection detected", zap.String("block_type", string(btype)))
		return p.fallback(ctx, loc, model.OutcomeBotProtection, string(btype))
	}

	cands, err := p.extract.Extract(page.Body)
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
		return p.fallback(ctx, loc, model.OutcomeParseFailed, err.Error())
	}

	if err := scrape.ValidateAddress(cands.AddressText, loc.City); err != nil {
		log.Warn("address mismatch",
			zap.String("candidate", cands.AddressText),
			zap.String("expected_city", loc.City),
		)
		return p.fallback(ctx, loc, model.OutcomeAddressMismatch, err.Error())
	}

	// Parse each grade independently; a bad grade is dropped, not fatal,
	// unless nothing parses at all.
	prices := make(map[model.FuelType]float64, len(cands.Prices))
	for fuel, text := range cands.Prices {
		v, err := scrape.ParsePrice(text)
		if err != nil {
			log.Warn("unparsable price dropped",
				zap.String("fuel_type", string(fuel)),
				zap.String("text", text),
			)
			continue
		}
		prices[fuel] = v
	}
	if len(prices) == 0 {
		log.Warn("no parsable prices on page")
		return p.fallback(ctx, loc, model.OutcomeParseFailed, "no parsable prices")
	}

	now := p.now().UTC()
	day := now.Format("2006-01-02")
	written := 0
	for fuel, price := range prices {
		// Write-per-fuel-type is idempotent: a grade that already has a live
		// row today (location re-planned for a missing grade) is skipped.
		have, err := p.store.HasLiveObservation(ctx, loc.ID, fuel, day)
		if err != nil {
			return locFailed, err
		}
		if have {
			continue
		}
		_, err = p.store.AppendObservation(ctx, model.PriceObservation{
			LocationID: loc.ID,
			FuelType:   fuel,
			Price:      price,
			ObservedAt: now,
			Origin:     model.OriginLive,
		})
		if err != nil {
			// ErrDuplicateLive means the gatekeeper should have excluded
			// this location; surface it rather than absorbing.
			return locFailed, eris.Wrapf(err, "append live observation %s/%s", loc.ID, fuel)
		}
		written++
	}

	if err := p.store.LogAttempt(ctx, model.ScrapeAttempt{
		LocationID:  loc.ID,
		AttemptedAt: now,
		Outcome:     model.OutcomeSuccess,
		Detail:      fmt.Sprintf("prices=%d", written),
	}); err != nil {
		return locFailed, err
	}

	log.Info("scraped live prices", zap.Int("prices", written))
	return locSucceeded, nil
}

// fallback re-emits the most recent cached price per fuel type. With no
// history the location simply yields nothing for this run; that is recorded,
// not raised.
func (p *Pipeline) fallback(ctx context.Context, loc model.Location, outcome model.AttemptOutcome, detail string) (locOutcome, error) {
	now := p.now().UTC()
	latest, err := p.store.Latest(ctx, loc.ID)
	if err != nil {
		return locFailed, err
	}

	if len(latest) == 0 {
		if err := p.store.LogAttempt(ctx, model.ScrapeAttempt{
			LocationID:  loc.ID,
			AttemptedAt: now,
			Outcome:     outcome,
			Detail:      detail + "; no-history",
		}); err != nil {
			return locFailed, err
		}
		zap.L().Warn("fallback found no history", zap.String("location", loc.ID))
		return locFailed, nil
	}

	for fuel, prev := range latest {
		if _, err := p.store.AppendObservation(ctx, model.PriceObservation{
			LocationID: loc.ID,
			FuelType:   fuel,
			Price:      prev.Price,
			ObservedAt: now,
			Origin:     model.OriginCachedFallback,
		}); err != nil {
			return locFailed, eris.Wrapf(err, "append fallback observation %s/%s", loc.ID, fuel)
		}
	}

	if err := p.store.LogAttempt(ctx, model.ScrapeAttempt{
		LocationID:  loc.ID,
		AttemptedAt: now,
		Outcome:     outcome,
		Detail:      detail + "; fell back to cached prices",
	}); err != nil {
		return locFailed, err
	}

	zap.L().Info("fell back to cached prices",
		zap.String("location", loc.ID),
		zap.Int("prices", len(latest)),
	)
	return locFellBack, nil
}
