package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/vishnuk/fuelwatch/internal/registry"
	"github.com/vishnuk/fuelwatch/internal/store"
)

// initStore opens the sqlite history database and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadRegistry builds the location catalog: the built-in seed overlaid with
// any rows persisted in the store (manual adds, updated addresses).
func loadRegistry(ctx context.Context, st store.Store) (*registry.Registry, error) {
	reg := registry.Seed()
	stored, err := st.ListLocations(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "list stored locations")
	}
	for _, loc := range stored {
		if err := reg.Put(loc); err != nil {
			return nil, eris.Wrapf(err, "overlay stored location %s", loc.ID)
		}
	}
	return reg, nil
}
