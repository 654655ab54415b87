package staythecourse

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ratioTolerance bounds how far target ratios may drift from summing to 1
// before the configuration is rejected.
var ratioTolerance = decimal.New(1, -6) // 1e-6

// Target declares an asset class and the share of the portfolio it should
// hold. Declaration order matters: it is the deterministic tie-break when
// classes sit at identical levels.
type Target struct {
	Class string
	Ratio decimal.Decimal
}

// Targets is a full target-ratio configuration, in declaration order.
type Targets []Target

// Validate checks that every ratio is non-negative and that the ratios sum
// to 1 within tolerance. The sum is never silently normalized.
func (ts Targets) Validate() error {
	if len(ts) == 0 {
		return &ConfigurationError{Reason: "no asset classes declared"}
	}
	sum := decimal.Zero
	seen := make(map[string]bool, len(ts))
	for _, t := range ts {
		if t.Class == "" {
			return &ConfigurationError{Reason: "asset class with an empty name"}
		}
		if seen[t.Class] {
			return &ConfigurationError{Reason: fmt.Sprintf("asset class %q declared twice", t.Class)}
		}
		seen[t.Class] = true
		if t.Ratio.IsNegative() {
			return &ConfigurationError{Reason: fmt.Sprintf("asset class %q has negative target %s", t.Class, t.Ratio)}
		}
		sum = sum.Add(t.Ratio)
	}
	if sum.Sub(decimal.New(1, 0)).Abs().GreaterThan(ratioTolerance) {
		return &ConfigurationError{Reason: fmt.Sprintf("target ratios sum to %s, not 1", sum)}
	}
	return nil
}

// AssetClass is one class of the snapshot: a target ratio and the funds that
// currently make it up.
type AssetClass struct {
	Name   string
	Target decimal.Decimal
	Funds  []Fund

	value Money
}

// Value is the class's current market value, the sum of its funds' values.
func (c *AssetClass) Value() Money { return c.value }

// Level is the class's value per unit of target weight, value/target. A
// lower level means more underweight. It is the quantity the waterfall
// equalizes. Calling Level on a zero-target class is a programming error;
// such classes are excluded from allocation entirely.
func (c *AssetClass) Level() decimal.Decimal {
	return c.value.Decimal().Div(c.Target)
}

// Ratio is the class's current share of the given portfolio total.
func (c *AssetClass) Ratio(total Money) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return c.value.Decimal().Div(total.Decimal())
}

// Portfolio is a read-only snapshot of per-class holdings, built once per
// allocation request and never mutated. A hypothetical post-allocation state
// is described by an AllocationResult, not by changing the snapshot.
type Portfolio struct {
	classes []AssetClass
	total   Money
}

// NewPortfolio aggregates fund records into per-class totals under the given
// target configuration. Every fund must carry a configured asset class; a
// stray class fails the whole aggregation with a ClassificationError rather
// than silently dropping the fund's value.
func NewPortfolio(funds []Fund, targets Targets) (*Portfolio, error) {
	if err := targets.Validate(); err != nil {
		return nil, err
	}

	p := &Portfolio{classes: make([]AssetClass, len(targets))}
	index := make(map[string]int, len(targets))
	for i, t := range targets {
		p.classes[i] = AssetClass{Name: t.Class, Target: t.Ratio}
		index[t.Class] = i
	}

	for _, f := range funds {
		// Revalidate: funds built by collaborators may not have gone
		// through NewFund.
		if _, err := NewFund(f.Ticker, f.Class, f.Shares, f.Price); err != nil {
			return nil, err
		}
		i, ok := index[f.Class]
		if !ok {
			return nil, &ClassificationError{Ticker: f.Ticker, Class: f.Class}
		}
		c := &p.classes[i]
		c.Funds = append(c.Funds, f)
		c.value = c.value.Add(f.Value())
		p.total = p.total.Add(f.Value())
	}
	return p, nil
}

// Classes returns the asset classes in declaration order.
func (p *Portfolio) Classes() []AssetClass { return p.classes }

// Total is the portfolio's current market value.
func (p *Portfolio) Total() Money { return p.total }
