package staythecourse

import "github.com/shopspring/decimal"

// MinimumToEqualize computes the smallest non-negative contribution that,
// passed to Allocate, brings every class to the level of the currently most
// overweight one. Buy-only flows can never lower an overweight class's
// ratio, so that level is the best fully-equalized state reachable by
// contributing alone.
//
// Closed form: Σ target × (maxLevel − level) over the classes below
// maxLevel. Zero-target classes are ignored. Returns $0 when the portfolio
// is already equalized or holds nothing.
func (p *Portfolio) MinimumToEqualize() Money {
	maxLevel := decimal.Zero
	found := false
	for i := range p.classes {
		c := &p.classes[i]
		if !c.Target.IsPositive() {
			continue
		}
		if l := c.Level(); !found || l.GreaterThan(maxLevel) {
			maxLevel = l
			found = true
		}
	}
	if !found {
		return Money{}
	}

	minimum := decimal.Zero
	for i := range p.classes {
		c := &p.classes[i]
		if !c.Target.IsPositive() {
			continue
		}
		if l := c.Level(); l.LessThan(maxLevel) {
			minimum = minimum.Add(c.Target.Mul(maxLevel.Sub(l)))
		}
	}
	return M(minimum)
}
