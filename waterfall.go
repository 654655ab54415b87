package staythecourse

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Allocate recommends how to distribute amount across the portfolio's asset
// classes. A positive amount is a contribution (buy-only: every delta ≥ 0),
// a negative amount a withdrawal (sell-only: every delta ≤ 0), and zero a
// valid no-op.
//
// The recommendation equalizes levels (value per unit of target weight) from
// the extreme end: the most underweight class is filled until it ties the
// next, then the tied group is filled together, and so on until the budget
// runs out. Withdrawals run the same process from the overweight end, with
// each class's sale capped at its current value.
//
// The deltas sum to amount exactly: per-class deltas are rounded to whole
// cents and the remainder is assigned to the most extreme class touched.
func (p *Portfolio) Allocate(amount Money) (*AllocationResult, error) {
	if amount.IsNegative() && amount.Neg().GreaterThan(p.total) {
		return nil, &InsufficientHoldingsError{Requested: amount.Abs(), Held: p.total}
	}

	deltas := make([]Money, len(p.classes))
	if !amount.IsZero() {
		exact, clipped, extreme, err := p.waterfall(amount)
		if err != nil {
			return nil, err
		}
		deltas = settle(exact, clipped, extreme, amount)
	}
	return p.newResult(amount, deltas), nil
}

// poolClass is one eligible class's view inside the waterfall scan.
// Classes with a zero target never appear in a pool: they can neither
// receive nor give money.
type poolClass struct {
	idx    int // position in Portfolio.classes, the declaration order
	target decimal.Decimal
	value  decimal.Decimal
	level  decimal.Decimal // value / target
}

func (p *Portfolio) eligible() []poolClass {
	pool := make([]poolClass, 0, len(p.classes))
	for i := range p.classes {
		c := &p.classes[i]
		if c.Target.IsPositive() {
			pool = append(pool, poolClass{idx: i, target: c.Target, value: c.value.Decimal(), level: c.Level()})
		}
	}
	return pool
}

// waterfall computes exact (unrounded) per-class deltas, indexed like
// p.classes. clipped marks classes pinned at a full liquidation; extreme is
// the index of the most extreme class touched, where the cent remainder of
// rounding will land.
func (p *Portfolio) waterfall(amount Money) (deltas []decimal.Decimal, clipped []bool, extreme int, err error) {
	deltas = make([]decimal.Decimal, len(p.classes))
	clipped = make([]bool, len(p.classes))

	pool := p.eligible()
	if len(pool) == 0 {
		return nil, nil, 0, &ConfigurationError{Reason: "no asset class with a positive target"}
	}

	if amount.IsPositive() {
		extreme = contribute(pool, amount.Decimal(), deltas)
		return deltas, clipped, extreme, nil
	}
	extreme, err = withdraw(pool, amount.Neg().Decimal(), deltas, clipped)
	return deltas, clipped, extreme, err
}

// contribute raises levels from the bottom. The active set starts as the
// single lowest-level class and grows each time the rising common level
// reaches the next class; whatever budget is left after all classes tie is
// spread proportionally to target weight.
func contribute(pool []poolClass, budget decimal.Decimal, deltas []decimal.Decimal) (extreme int) {
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].level.LessThan(pool[j].level) })

	remaining := budget
	level := pool[0].level
	sumTargets := decimal.Zero
	active := 0
	for active < len(pool) {
		sumTargets = sumTargets.Add(pool[active].target)
		active++
		if active == len(pool) {
			break
		}
		next := pool[active].level
		cost := sumTargets.Mul(next.Sub(level))
		if cost.GreaterThan(remaining) {
			break
		}
		remaining = remaining.Sub(cost)
		level = next
	}
	final := level.Add(remaining.Div(sumTargets))

	for _, c := range pool[:active] {
		deltas[c.idx] = c.target.Mul(final.Sub(c.level))
	}
	return pool[0].idx
}

// withdraw lowers levels from the top, mirroring contribute. A class whose
// fair share of the draw exceeds its whole value is sold out entirely and
// removed from the pool, and the unmet budget re-runs against the rest.
func withdraw(pool []poolClass, budget decimal.Decimal, deltas []decimal.Decimal, clipped []bool) (extreme int, err error) {
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].level.GreaterThan(pool[j].level) })

	held := decimal.Zero
	for _, c := range pool {
		held = held.Add(c.value)
	}

	for {
		if budget.GreaterThan(held) {
			return 0, &InsufficientHoldingsError{Requested: M(budget), Held: M(held)}
		}

		remaining := budget
		level := pool[0].level
		sumTargets := decimal.Zero
		active := 0
		for active < len(pool) {
			sumTargets = sumTargets.Add(pool[active].target)
			active++
			if active == len(pool) {
				break
			}
			next := pool[active].level
			cost := sumTargets.Mul(level.Sub(next))
			if cost.GreaterThan(remaining) {
				break
			}
			remaining = remaining.Sub(cost)
			level = next
		}
		final := level.Sub(remaining.Div(sumTargets))

		// Clip classes the final level would drive below zero. Their whole
		// value goes to the budget and they leave the pool for the re-run.
		rest := pool[:0]
		drained := false
		for i, c := range pool {
			if i < active && c.value.Add(c.target.Mul(final.Sub(c.level))).IsNegative() {
				deltas[c.idx] = c.value.Neg()
				clipped[c.idx] = true
				budget = budget.Sub(c.value)
				held = held.Sub(c.value)
				drained = true
				continue
			}
			rest = append(rest, c)
		}
		if !drained {
			for _, c := range pool[:active] {
				deltas[c.idx] = c.target.Mul(final.Sub(c.level))
			}
			return pool[0].idx, nil
		}
		pool = rest
		if budget.IsZero() || len(pool) == 0 {
			// The drained classes covered the draw exactly (the withdrawal
			// bound guarantees budget is zero when the pool empties).
			return -1, nil
		}
	}
}

// settle rounds the exact deltas to whole cents and assigns the remainder to
// the most extreme touched class, so the deltas sum to amount exactly.
// Clipped classes keep their exact full-liquidation delta.
func settle(exact []decimal.Decimal, clipped []bool, extreme int, amount Money) []Money {
	deltas := make([]Money, len(exact))
	sum := decimal.Zero
	for i, d := range exact {
		if !clipped[i] {
			d = d.Round(2)
		}
		deltas[i] = M(d)
		sum = sum.Add(d)
	}
	if rem := amount.Decimal().Sub(sum); !rem.IsZero() && extreme >= 0 {
		deltas[extreme] = deltas[extreme].Add(M(rem))
	}
	return deltas
}
