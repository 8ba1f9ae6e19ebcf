package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuk/fuelwatch/internal/model"
)

func TestSeed(t *testing.T) {
	reg := Seed()
	assert.Equal(t, 13, reg.Len())

	tempe, err := reg.Get("tempe")
	require.NoError(t, err)
	assert.Equal(t, "Tempe", tempe.DisplayName)
	assert.Equal(t, "Tempe", tempe.City)
	assert.Equal(t, model.LocationSourceRegistry, tempe.Source)
	assert.Equal(t, "https://www.samsclub.com/club/4956-tempe-az/fuel-center", tempe.FuelURL())

	all := reg.All()
	require.Len(t, all, 13)
	// All returns locations in id order.
	assert.Equal(t, "avondale", all[0].ID)
	assert.Equal(t, "yuma", all[len(all)-1].ID)
}

func TestGetUnknownLocation(t *testing.T) {
	reg := Seed()
	_, err := reg.Get("las-vegas")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestAdd(t *testing.T) {
	reg := New()
	err := reg.Add(model.Location{
		ID:          "kingman",
		DisplayName: "Kingman",
		City:        "Kingman",
		ClubURL:     "https://www.samsclub.com/club/9999-kingman-az",
		Source:      model.LocationSourceManual,
	})
	require.NoError(t, err)

	got, err := reg.Get("kingman")
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestAddDuplicateRejected(t *testing.T) {
	reg := Seed()
	err := reg.Add(model.Location{
		ID:          "tempe",
		DisplayName: "Tempe Again",
		City:        "Tempe",
		ClubURL:     "https://www.samsclub.com/club/4956-tempe-az",
	})
	assert.ErrorIs(t, err, ErrLocationExists)
}

func TestAddInvalidLocationRejected(t *testing.T) {
	reg := New()
	err := reg.Add(model.Location{DisplayName: "No ID"})
	assert.Error(t, err)
	assert.Zero(t, reg.Len())
}

func TestPutReplacesExistingEntry(t *testing.T) {
	reg := Seed()
	stored, err := reg.Get("tempe")
	require.NoError(t, err)
	stored.KnownAddress = "1234 S Emerald Dr, Tempe, AZ 85281"

	require.NoError(t, reg.Put(stored))

	got, err := reg.Get("tempe")
	require.NoError(t, err)
	assert.Equal(t, "1234 S Emerald Dr, Tempe, AZ 85281", got.KnownAddress)
	assert.Equal(t, 13, reg.Len())
}

func TestSetKnownAddress(t *testing.T) {
	reg := Seed()
	require.NoError(t, reg.SetKnownAddress("tucson", "  999 E Ajo Way, Tucson, AZ 85713  "))

	got, err := reg.Get("tucson")
	require.NoError(t, err)
	assert.Equal(t, "999 E Ajo Way, Tucson, AZ 85713", got.KnownAddress)

	assert.ErrorIs(t, reg.SetKnownAddress("nowhere", "x"), ErrLocationNotFound)
	assert.Error(t, reg.SetKnownAddress("tucson", "   "))
}
