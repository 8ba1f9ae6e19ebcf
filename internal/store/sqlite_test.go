package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuk/fuelwatch/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedLocation(t *testing.T, s Store, id, city string) {
	t.Helper()
	require.NoError(t, s.UpsertLocation(context.Background(), model.Location{
		ID:          id,
		DisplayName: id,
		City:        city,
		ClubURL:     "https://www.samsclub.com/club/" + id,
		Source:      model.LocationSourceRegistry,
	}))
}

func TestAppendObservation(t *testing.T) {
	t.Run("LiveAccepted", func(t *testing.T) {
		s := newTestSQLite(t)
		ctx := context.Background()
		seedLocation(t, s, "tempe", "Tempe")

		obs, err := s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe",
			FuelType:   model.FuelRegular,
			Price:      3.45,
			ObservedAt: time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC),
			Origin:     model.OriginLive,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, obs.ID)
		assert.Equal(t, "2025-08-26", obs.Day())
	})

	t.Run("DuplicateLiveSameDayRejected", func(t *testing.T) {
		s := newTestSQLite(t)
		ctx := context.Background()
		seedLocation(t, s, "tempe", "Tempe")

		morning := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
		_, err := s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe", FuelType: model.FuelRegular, Price: 3.45,
			ObservedAt: morning, Origin: model.OriginLive,
		})
		require.NoError(t, err)

		_, err = s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe", FuelType: model.FuelRegular, Price: 3.50,
			ObservedAt: morning.Add(4 * time.Hour), Origin: model.OriginLive,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateLive)
	})

	t.Run("LiveDifferentDayAccepted", func(t *testing.T) {
		s := newTestSQLite(t)
		ctx := context.Background()
		seedLocation(t, s, "tempe", "Tempe")

		day1 := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
		_, err := s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe", FuelType: model.FuelRegular, Price: 3.45,
			ObservedAt: day1, Origin: model.OriginLive,
		})
		require.NoError(t, err)

		_, err = s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe", FuelType: model.FuelRegular, Price: 3.50,
			ObservedAt: day1.AddDate(0, 0, 1), Origin: model.OriginLive,
		})
		require.NoError(t, err)
	})

	t.Run("FallbackAndManualNotDeduped", func(t *testing.T) {
		s := newTestSQLite(t)
		ctx := context.Background()
		seedLocation(t, s, "tempe", "Tempe")

		at := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
		for _, origin := range []model.Origin{model.OriginManual, model.OriginManual, model.OriginCachedFallback, model.OriginCachedFallback} {
			_, err := s.AppendObservation(ctx, model.PriceObservation{
				LocationID: "tempe", FuelType: model.FuelRegular, Price: 3.45,
				ObservedAt: at, Origin: origin,
			})
			require.NoError(t, err)
			at = at.Add(time.Minute)
		}
	})

	t.Run("NegativePriceRejected", func(t *testing.T) {
		s := newTestSQLite(t)
		ctx := context.Background()
		seedLocation(t, s, "tempe", "Tempe")

		_, err := s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe", FuelType: model.FuelRegular, Price: -0.01,
			Origin: model.OriginManual,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-negative")
	})

	t.Run("UnknownOriginRejected", func(t *testing.T) {
		s := newTestSQLite(t)
		ctx := context.Background()
		seedLocation(t, s, "tempe", "Tempe")

		_, err := s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe", FuelType: model.FuelRegular, Price: 3.45,
			Origin: "telepathy",
		})
		require.Error(t, err)
	})
}

func TestLatest(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedLocation(t, s, "tempe", "Tempe")

	base := time.Date(2025, 8, 24, 9, 0, 0, 0, time.UTC)
	samples := []struct {
		fuel   model.FuelType
		price  float64
		offset time.Duration
		origin model.Origin
	}{
		{model.FuelRegular, 3.40, 0, model.OriginLive},
		{model.FuelRegular, 3.50, 24 * time.Hour, model.OriginLive},
		{model.FuelPremium, 3.90, 24 * time.Hour, model.OriginLive},
		{model.FuelRegular, 3.60, 48 * time.Hour, model.OriginCachedFallback},
	}
	for _, smp := range samples {
		_, err := s.AppendObservation(ctx, model.PriceObservation{
			LocationID: "tempe", FuelType: smp.fuel, Price: smp.price,
			ObservedAt: base.Add(smp.offset), Origin: smp.origin,
		})
		require.NoError(t, err)
	}

	latest, err := s.Latest(ctx, "tempe")
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.InDelta(t, 3.60, latest[model.FuelRegular].Price, 0.001)
	assert.Equal(t, model.OriginCachedFallback, latest[model.FuelRegular].Origin)
	assert.InDelta(t, 3.90, latest[model.FuelPremium].Price, 0.001)

	empty, err := s.Latest(ctx, "nowhere")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHistory(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedLocation(t, s, "tempe", "Tempe")
	seedLocation(t, s, "avondale", "Avondale")

	base := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 5; day++ {
		for _, loc := range []string{"tempe", "avondale"} {
			_, err := s.AppendObservation(ctx, model.PriceObservation{
				LocationID: loc, FuelType: model.FuelRegular, Price: 3.40 + float64(day)*0.05,
				ObservedAt: base.AddDate(0, 0, day), Origin: model.OriginLive,
			})
			require.NoError(t, err)
		}
	}

	t.Run("SingleLocationAscending", func(t *testing.T) {
		obs, err := s.History(ctx, HistoryFilter{LocationID: "tempe"})
		require.NoError(t, err)
		require.Len(t, obs, 5)
		for i := 1; i < len(obs); i++ {
			assert.True(t, !obs[i].ObservedAt.Before(obs[i-1].ObservedAt))
		}
	})

	t.Run("AllLocationsOrderedByLocationThenTime", func(t *testing.T) {
		obs, err := s.History(ctx, HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, obs, 10)
		assert.Equal(t, "avondale", obs[0].LocationID)
		assert.Equal(t, "tempe", obs[9].LocationID)
	})

	t.Run("WindowFilter", func(t *testing.T) {
		obs, err := s.History(ctx, HistoryFilter{
			LocationID: "tempe",
			Since:      base.AddDate(0, 0, 2),
			Until:      base.AddDate(0, 0, 3),
		})
		require.NoError(t, err)
		assert.Len(t, obs, 2)
	})
}

func TestHasLiveObservation(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedLocation(t, s, "tempe", "Tempe")

	at := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
	_, err := s.AppendObservation(ctx, model.PriceObservation{
		LocationID: "tempe", FuelType: model.FuelRegular, Price: 3.45,
		ObservedAt: at, Origin: model.OriginLive,
	})
	require.NoError(t, err)
	_, err = s.AppendObservation(ctx, model.PriceObservation{
		LocationID: "tempe", FuelType: model.FuelDiesel, Price: 3.85,
		ObservedAt: at, Origin: model.OriginCachedFallback,
	})
	require.NoError(t, err)

	have, err := s.HasLiveObservation(ctx, "tempe", model.FuelRegular, "2025-08-26")
	require.NoError(t, err)
	assert.True(t, have)

	// Fallback rows do not count as live coverage.
	have, err = s.HasLiveObservation(ctx, "tempe", model.FuelDiesel, "2025-08-26")
	require.NoError(t, err)
	assert.False(t, have)

	have, err = s.HasLiveObservation(ctx, "tempe", model.FuelRegular, "2025-08-27")
	require.NoError(t, err)
	assert.False(t, have)
}

func TestAttemptLog(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	at := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
	attempts := []model.ScrapeAttempt{
		{LocationID: "tempe", AttemptedAt: at, Outcome: model.OutcomeSuccess, Detail: "prices=3"},
		{LocationID: "avondale", AttemptedAt: at, Outcome: model.OutcomeFetchFailed, Detail: "timeout; no-history"},
		{LocationID: "tucson", AttemptedAt: at, Outcome: model.OutcomeBotProtection, Detail: "captcha"},
		{LocationID: "tempe", AttemptedAt: at.AddDate(0, 0, -1), Outcome: model.OutcomeSuccess},
	}
	for _, a := range attempts {
		require.NoError(t, s.LogAttempt(ctx, a))
	}

	stats, err := s.AttemptStats(ctx, "2025-08-26")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Attempts)
	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 3, stats.LocationsAttempted)

	empty, err := s.AttemptStats(ctx, "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Attempts)
}

func TestLocations(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	loc := model.Location{
		ID:            "tempe",
		DisplayName:   "Tempe",
		City:          "Tempe",
		ClubURL:       "https://www.samsclub.com/club/4956-tempe-az",
		FuelCenterURL: "https://www.samsclub.com/club/4956-tempe-az/fuel-center",
		KnownAddress:  "Tempe, AZ",
		Source:        model.LocationSourceRegistry,
	}
	require.NoError(t, s.UpsertLocation(ctx, loc))

	got, err := s.GetLocation(ctx, "tempe")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tempe", got.DisplayName)
	assert.Equal(t, "Tempe, AZ", got.KnownAddress)

	// Address update replaces the catalog row, not the history.
	loc.KnownAddress = "1234 S Emerald Dr, Tempe, AZ 85281"
	require.NoError(t, s.UpsertLocation(ctx, loc))

	got, err = s.GetLocation(ctx, "tempe")
	require.NoError(t, err)
	assert.Equal(t, "1234 S Emerald Dr, Tempe, AZ 85281", got.KnownAddress)

	missing, err := s.GetLocation(ctx, "nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := s.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
