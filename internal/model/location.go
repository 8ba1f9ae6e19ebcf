package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// LocationSource records how a location entered the registry.
type LocationSource string

const (
	LocationSourceRegistry LocationSource = "registry"
	LocationSourceManual   LocationSource = "manual"
)

// Location is a single tracked retail site: the club page plus its fuel center.
type Location struct {
	ID            string         `json:"id"`
	DisplayName   string         `json:"display_name"`
	City          string         `json:"city"`
	ClubURL       string         `json:"club_url"`
	FuelCenterURL string         `json:"fuel_center_url"`
	KnownAddress  string         `json:"known_address"`
	Source        LocationSource `json:"source"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Validate checks the fields required to track a location.
func (l Location) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return eris.New("location: id is required")
	}
	if strings.TrimSpace(l.DisplayName) == "" {
		return eris.New("location: display name is required")
	}
	if strings.TrimSpace(l.City) == "" {
		return eris.New("location: city is required")
	}
	if strings.TrimSpace(l.ClubURL) == "" {
		return eris.New("location: club url is required")
	}
	return nil
}

// FuelURL returns the fuel center URL, constructing one from the club URL when
// the registry never learned a dedicated fuel page.
func (l Location) FuelURL() string {
	if l.FuelCenterURL != "" {
		return l.FuelCenterURL
	}
	if strings.Contains(l.ClubURL, "/club/") {
		return strings.TrimRight(l.ClubURL, "/") + "/fuel-center"
	}
	return l.ClubURL
}
