package registry

import "github.com/vishnuk/fuelwatch/internal/model"

// seedLocation is one row of the built-in Arizona catalog.
type seedLocation struct {
	id      string
	name    string
	city    string
	clubURL string
	address string
}

var arizonaClubs = []seedLocation{
	{"avondale", "Avondale", "Avondale", "https://www.samsclub.com/club/4830-avondale-az", "Avondale, AZ"},
	{"bullhead-city", "Bullhead City", "Bullhead City", "https://www.samsclub.com/club/4915-bullhead-city-az", "Bullhead City, AZ"},
	{"chandler", "Chandler", "Chandler", "https://www.samsclub.com/club/6213-chandler-az", "Chandler, AZ"},
	{"flagstaff", "Flagstaff", "Flagstaff", "https://www.samsclub.com/club/6604-flagstaff-az", "Flagstaff, AZ"},
	{"gilbert-1", "Gilbert (1)", "Gilbert", "https://www.samsclub.com/club/6605-gilbert-az", "Gilbert, AZ"},
	{"gilbert-2", "Gilbert (2)", "Gilbert", "https://www.samsclub.com/club/4829-gilbert-az", "Gilbert, AZ"},
	{"glendale", "Glendale", "Glendale", "https://www.samsclub.com/club/4732-glendale-az", "Glendale, AZ"},
	{"phoenix-1", "Phoenix (1)", "Phoenix", "https://www.samsclub.com/club/6606-phoenix-az", "Phoenix, AZ"},
	{"phoenix-2", "Phoenix (2)", "Phoenix", "https://www.samsclub.com/club/6608-phoenix-az", "Phoenix, AZ"},
	{"surprise", "Surprise", "Surprise", "https://www.samsclub.com/club/4955-surprise-az", "Surprise, AZ"},
	{"tempe", "Tempe", "Tempe", "https://www.samsclub.com/club/4956-tempe-az", "Tempe, AZ"},
	{"tucson", "Tucson", "Tucson", "https://www.samsclub.com/club/6692-tucson-az", "Tucson, AZ"},
	{"yuma", "Yuma", "Yuma", "https://www.samsclub.com/club/6205-yuma-az", "Yuma, AZ"},
}

// Seed returns a registry pre-populated with the known Arizona clubs.
func Seed() *Registry {
	r := New()
	for _, s := range arizonaClubs {
		_ = r.Add(model.Location{
			ID:           s.id,
			DisplayName:  s.name,
			City:         s.city,
			ClubURL:      s.clubURL,
			KnownAddress: s.address,
			Source:       model.LocationSourceRegistry,
		})
	}
	return r
}
