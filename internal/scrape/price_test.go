package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$3.45", 3.45},
		{"3.45", 3.45},
		{"$3.459", 3.459},
		{" $3.45 ", 3.45},
		{"$3.45 9/10", 3.45},
		{"$1,234.56", 1234.56},
		{"0.00", 0},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 0.0001, "input %q", tc.in)
	}

	for _, bad := range []string{"", "NAN", "couldn't fetch", "$", "-3.45"} {
		_, err := ParsePrice(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
