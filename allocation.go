package staythecourse

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Asset-class names used by the built-in core-four model. A classifications
// table may map tickers to any names, as long as they match the configured
// targets.
const (
	ClassUSBonds    = "US Bonds"
	ClassUSTotal    = "US Total Market"
	ClassUSSmall    = "US Small/Mid Cap"
	ClassIntlStocks = "International Stocks"
	ClassREIT       = "REIT"
)

var one = decimal.New(1, 0)

// BondRatio derives a bond allocation from the "your age in bonds"
// principle, generalized to "fromYears minus your age in stocks" (120 is a
// common risk-prone choice; 100 is the classic conservative rule).
//
// Age is measured in whole weeks over 52 so the allocation drifts gradually
// through the year instead of jumping on a birthday. The stock share is
// rounded to a basis point and clamped to [0, 1]: very young investors get
// no bonds, very old investors get only bonds.
func BondRatio(birthday time.Time, fromYears int, today time.Time) (decimal.Decimal, error) {
	if !birthday.Before(today) {
		return decimal.Zero, fmt.Errorf("birthday %s is not in the past", birthday.Format("2006-01-02"))
	}
	weeks := int64(today.Sub(birthday)/(24*time.Hour)) / 7
	age := decimal.NewFromInt(weeks).Div(decimal.NewFromInt(52))

	stocks := decimal.NewFromInt(int64(fromYears)).Sub(age).Round(2).Shift(-2)
	if stocks.IsNegative() {
		return one, nil
	}
	if stocks.GreaterThan(one) {
		return decimal.Zero, nil
	}
	return one.Sub(stocks), nil
}

// CoreFour builds target ratios after Rick Ferri's "Core Four" lazy
// portfolio, with the US stock share further split so that total-market
// large-cap weight is balanced by an explicit small/mid-cap slice. Given a
// bond ratio the stock remainder is split 33% US total market, 17% US
// small/mid cap, 40% international, 10% REIT. The result always sums to 1.
func CoreFour(bondRatio decimal.Decimal) (Targets, error) {
	if bondRatio.IsNegative() {
		return nil, &ConfigurationError{Reason: "bond ratio must be positive"}
	}
	if bondRatio.GreaterThan(one) {
		return nil, &ConfigurationError{Reason: "bond ratio cannot exceed 100%"}
	}
	stocks := one.Sub(bondRatio)
	return Targets{
		{Class: ClassUSBonds, Ratio: bondRatio},
		{Class: ClassUSTotal, Ratio: decimal.New(33, -2).Mul(stocks)},
		{Class: ClassUSSmall, Ratio: decimal.New(17, -2).Mul(stocks)},
		{Class: ClassIntlStocks, Ratio: decimal.New(40, -2).Mul(stocks)},
		{Class: ClassREIT, Ratio: decimal.New(10, -2).Mul(stocks)},
	}, nil
}
