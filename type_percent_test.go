package staythecourse

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAsPercent(t *testing.T) {
	cases := []struct {
		ratio string
		want  string
	}{
		{"0.4268", "42.68%"},
		{"1", "100.00%"},
		{"0", "0.00%"},
		{"0.004268", "0.43%"},
	}
	for _, tc := range cases {
		got := AsPercent(decimal.RequireFromString(tc.ratio))
		if got.String() != tc.want {
			t.Errorf("AsPercent(%s) = %q, want %q", tc.ratio, got, tc.want)
		}
	}
}

func TestPercentSignedString(t *testing.T) {
	if got := AsPercent(decimal.RequireFromString("0.05")).SignedString(); got != "+5.00%" {
		t.Errorf("SignedString = %q, want +5.00%%", got)
	}
	if got := AsPercent(decimal.RequireFromString("-0.05")).SignedString(); got != "-5.00%" {
		t.Errorf("SignedString = %q, want -5.00%%", got)
	}
}
