package scrape

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ParsePrice converts a price candidate like "$3.459" into a decimal value.
// Currency symbols, thousands separators, and the "9/10" cent fraction
// superscript are stripped before parsing.
func ParsePrice(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "9/10")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, eris.Errorf("parse price: empty text %q", text)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse price %q", text)
	}
	if v < 0 {
		return 0, eris.Errorf("parse price %q: negative value", text)
	}
	return v, nil
}
