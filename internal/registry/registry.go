// Package registry holds the catalog of tracked fuel locations. The catalog
// is an explicit value owned by the caller; mutations go through Add and
// SetKnownAddress, never through package state.
package registry

import (
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/vishnuk/fuelwatch/internal/model"
)

// ErrLocationNotFound is returned when an id does not exist in the registry.
var ErrLocationNotFound = eris.New("registry: location not found")

// ErrLocationExists is returned when adding an id that is already tracked.
var ErrLocationExists = eris.New("registry: location already exists")

// Registry is the catalog of known locations keyed by id.
type Registry struct {
	locations map[string]model.Location
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{locations: make(map[string]model.Location)}
}

// Get returns the location for an id.
func (r *Registry) Get(id string) (model.Location, error) {
	loc, ok := r.locations[id]
	if !ok {
		return model.Location{}, eris.Wrapf(ErrLocationNotFound, "id %q", id)
	}
	return loc, nil
}

// All returns every tracked location ordered by id.
func (r *Registry) All() []model.Location {
	out := make([]model.Location, 0, len(r.locations))
	for _, loc := range r.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of tracked locations.
func (r *Registry) Len() int { return len(r.locations) }

// Add registers a new location. The id must be unused.
func (r *Registry) Add(loc model.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if _, ok := r.locations[loc.ID]; ok {
		return eris.Wrapf(ErrLocationExists, "id %q", loc.ID)
	}
	now := time.Now().UTC()
	loc.CreatedAt = now
	loc.UpdatedAt = now
	r.locations[loc.ID] = loc
	return nil
}

// Put inserts or replaces a catalog entry, preserving its timestamps. Used
// to overlay rows persisted in the store onto the built-in seed.
func (r *Registry) Put(loc model.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	r.locations[loc.ID] = loc
	return nil
}

// SetKnownAddress updates the validated address for a tracked location.
// Prior scraped data is never rewritten; only the catalog entry changes.
func (r *Registry) SetKnownAddress(id, address string) error {
	loc, ok := r.locations[id]
	if !ok {
		return eris.Wrapf(ErrLocationNotFound, "id %q", id)
	}
	if strings.TrimSpace(address) == "" {
		return eris.New("registry: address must not be empty")
	}
	loc.KnownAddress = strings.TrimSpace(address)
	loc.UpdatedAt = time.Now().UTC()
	r.locations[id] = loc
	return nil
}
