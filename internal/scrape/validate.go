package scrape

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrAddressMismatch is returned when an extracted address does not mention
// the expected city, which usually means the site served the wrong club page.
var ErrAddressMismatch = eris.New("scrape: address does not match expected city")

// ValidateAddress checks that the expected city appears in the candidate
// address text. Comparison normalizes case and whitespace.
func ValidateAddress(addressText, city string) error {
	addr := normalize(addressText)
	want := normalize(city)
	if want == "" {
		return eris.New("scrape: expected city is empty")
	}
	if addr == "" {
		return eris.Wrap(ErrAddressMismatch, "no address candidate")
	}
	if !strings.Contains(addr, want) {
		return eris.Wrapf(ErrAddressMismatch, "%q not in %q", city, addressText)
	}
	return nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
