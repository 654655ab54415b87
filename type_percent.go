package staythecourse

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a display-only percentage. Engine math stays in decimal; a
// ratio crosses into Percent only at the presentation boundary.
type Percent float64

// AsPercent converts an exact ratio (e.g. 0.4268) to a Percent (42.68).
func AsPercent(ratio decimal.Decimal) Percent {
	return Percent(ratio.Shift(2).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
