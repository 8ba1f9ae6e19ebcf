package query

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/vishnuk/fuelwatch/internal/model"
	"github.com/vishnuk/fuelwatch/internal/store"
)

var exportHeader = []string{"Club Name", "Address", "Club URL", "Fuel Center URL", "Fuel Type", "Price"}

// Export writes one CSV row per observation in the window, joined with the
// location catalog. Output is fully determined by store contents, so
// re-exporting the same window with no new writes yields identical bytes.
func Export(ctx context.Context, st store.Store, w io.Writer, since, until time.Time) (int, error) {
	locs, err := st.ListLocations(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]model.Location, len(locs))
	for _, loc := range locs {
		byID[loc.ID] = loc
	}

	obs, err := st.History(ctx, store.HistoryFilter{Since: since, Until: until})
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, eris.Wrap(err, "export: write header")
	}

	for _, o := range obs {
		loc := byID[o.LocationID]
		name, address := loc.DisplayName, loc.KnownAddress
		if name == "" {
			name = o.LocationID
		}
		row := []string{
			name,
			address,
			loc.ClubURL,
			loc.FuelURL(),
			string(o.FuelType),
			fmt.Sprintf("%.3f", o.Price),
		}
		if err := cw.Write(row); err != nil {
			return 0, eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, eris.Wrap(err, "export: flush")
	}
	return len(obs), nil
}
