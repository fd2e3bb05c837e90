package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	vectors := []struct {
		input    string
		expected uint64
		err      string
	}{
		{"1", 1_000_000_000, ""},
		{"0.1", 100_000_000, ""},
		{"0.000000001", 1, ""},
		{"12.5", 12_500_000_000, ""},
		{"0", 0, "positive"},
		{"-1", 0, "positive"},
		{"0.0000000001", 0, "decimals"},
		{"abc", 0, "invalid amount"},
		{"100000000000", 0, "too large"},
	}
	for _, v := range vectors {
		t.Run(v.input, func(t *testing.T) {
			amount, err := parseAmount(v.input)
			if v.err != "" {
				require.ErrorContains(t, err, v.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, v.expected, amount)
		})
	}
}
