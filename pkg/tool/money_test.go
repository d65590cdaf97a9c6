package tool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{100, "R$ 1,00"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-123456, "-R$ 1.234,56"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatBRL(tc.cents))
	}
}
