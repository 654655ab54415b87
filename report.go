package staythecourse

import "github.com/shopspring/decimal"

// ClassAllocation is the recommendation for one asset class: how much to buy
// or sell, and where that leaves the class relative to its target.
type ClassAllocation struct {
	Name   string
	Target decimal.Decimal

	Delta       Money // signed: buy if positive, sell if negative
	BeforeValue Money
	AfterValue  Money

	BeforeRatio decimal.Decimal // share of the portfolio before
	AfterRatio  decimal.Decimal // share of the portfolio after

	// Relative deviation (target − actual) / target: positive means
	// underweight. Undefined for zero-target classes, flagged by
	// DeviationDefined rather than reported as a bogus number.
	BeforeDeviation  decimal.Decimal
	AfterDeviation   decimal.Decimal
	DeviationDefined bool
}

// AllocationResult is the full recommendation for one request. It is
// produced fresh per request and never merged with a previous result.
type AllocationResult struct {
	Amount   Money
	Total    Money // portfolio value before
	NewTotal Money // portfolio value after
	Classes  []ClassAllocation
}

// newResult derives the reportable figures from the snapshot and the
// per-class deltas. Pure derivation: no new state, no failure modes beyond
// the zero-total guards.
func (p *Portfolio) newResult(amount Money, deltas []Money) *AllocationResult {
	newTotal := p.total.Add(amount)
	res := &AllocationResult{
		Amount:   amount,
		Total:    p.total,
		NewTotal: newTotal,
		Classes:  make([]ClassAllocation, len(p.classes)),
	}
	for i := range p.classes {
		c := &p.classes[i]
		after := c.value.Add(deltas[i])
		ca := ClassAllocation{
			Name:        c.Name,
			Target:      c.Target,
			Delta:       deltas[i],
			BeforeValue: c.value,
			AfterValue:  after,
			BeforeRatio: ratioOf(c.value, p.total),
			AfterRatio:  ratioOf(after, newTotal),
		}
		if c.Target.IsPositive() {
			ca.DeviationDefined = true
			ca.BeforeDeviation = c.Target.Sub(ca.BeforeRatio).Div(c.Target)
			ca.AfterDeviation = c.Target.Sub(ca.AfterRatio).Div(c.Target)
		}
		res.Classes[i] = ca
	}
	return res
}

func ratioOf(value, total Money) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Decimal().Div(total.Decimal())
}
