package staythecourse

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// bankingYears returns the fractional years between two dates, treating
// every year as 365.25 days: APY pays the same on leap years as on others.
func bankingYears(earlier, later time.Time) float64 {
	days := float64(later.Sub(earlier) / (24 * time.Hour))
	return days / 365.25
}

// Compound grows principal at the given APY from one date to another,
// truncated to whole cents.
func Compound(principal Money, apy float64, from, until time.Time) Money {
	if !from.Before(until) {
		return principal
	}
	multiplier := math.Pow(1+apy, bankingYears(from, until))
	dollars := principal.Decimal().InexactFloat64() * multiplier
	return M(decimal.New(int64(dollars*100), -2))
}

// SafeWithdrawalIncome is the annual income a principal can sustain in
// perpetuity under the 4% rule.
func SafeWithdrawalIncome(principal Money) Money {
	return M(principal.Decimal().Mul(decimal.New(4, -2)))
}

// Projection is the portfolio's projected worth at one retirement age.
type Projection struct {
	Age        int
	On         time.Time
	Worth      Money
	SafeIncome Money
}

// RetirementProjections projects today's total to a handful of candidate
// retirement ages: today itself, then five-year steps starting at
// max(50, age+5). Ages are approximated by calendar years, which is close
// enough for a projection that already assumes a constant APY.
func RetirementProjections(birthday time.Time, total Money, apy float64, today time.Time) []Projection {
	approxAge := today.Year() - birthday.Year()
	projections := []Projection{{
		Age:        approxAge,
		On:         today,
		Worth:      total,
		SafeIncome: SafeWithdrawalIncome(total),
	}}

	start := approxAge + 5
	if start < 50 {
		start = 50
	}
	for age := start; age <= start+15; age += 5 {
		// time.Date normalizes Feb 29 to Mar 1 in non-leap years.
		day := time.Date(birthday.Year()+age, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
		worth := Compound(total, apy, today, day)
		projections = append(projections, Projection{
			Age:        age,
			On:         day,
			Worth:      worth,
			SafeIncome: SafeWithdrawalIncome(worth),
		})
	}
	return projections
}
