package staythecourse

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewPortfolioAggregates(t *testing.T) {
	targets := Targets{
		{Class: "Stocks", Ratio: decimal.RequireFromString("0.6")},
		{Class: "Bonds", Ratio: decimal.RequireFromString("0.4")},
	}
	funds := []Fund{
		{Ticker: "VTSAX", Class: "Stocks", Shares: Q(10), Price: M(100)},
		{Ticker: "VTIAX", Class: "Stocks", Shares: Q(20.5), Price: M(40)},
		{Ticker: "VBTLX", Class: "Bonds", Shares: Q(100), Price: M(10.55)},
	}
	p, err := NewPortfolio(funds, targets)
	if err != nil {
		t.Fatalf("NewPortfolio() error = %v", err)
	}

	classes := p.Classes()
	if got := classes[0].Value(); !got.Equal(M(1820)) {
		t.Errorf("Stocks value = %s, want $1,820.00", got)
	}
	if got := classes[1].Value(); !got.Equal(M(1055)) {
		t.Errorf("Bonds value = %s, want $1,055.00", got)
	}
	if got := p.Total(); !got.Equal(M(2875)) {
		t.Errorf("Total() = %s, want $2,875.00", got)
	}
	// Declaration order of the targets is preserved.
	if classes[0].Name != "Stocks" || classes[1].Name != "Bonds" {
		t.Errorf("class order = %q, %q; want declaration order", classes[0].Name, classes[1].Name)
	}
}

func TestNewPortfolioUnknownClass(t *testing.T) {
	targets := Targets{{Class: "Stocks", Ratio: decimal.New(1, 0)}}
	funds := []Fund{{Ticker: "GLD", Class: "Commodities", Shares: Q(1), Price: M(100)}}
	_, err := NewPortfolio(funds, targets)
	var classification *ClassificationError
	if !errors.As(err, &classification) {
		t.Fatalf("NewPortfolio() error = %v, want ClassificationError", err)
	}
	if classification.Class != "Commodities" {
		t.Errorf("error names class %q, want Commodities", classification.Class)
	}
}

func TestNewPortfolioBadFund(t *testing.T) {
	targets := Targets{{Class: "Stocks", Ratio: decimal.New(1, 0)}}
	cases := []struct {
		name string
		fund Fund
	}{
		{"negative shares", Fund{Ticker: "VTSAX", Class: "Stocks", Shares: Q(-1), Price: M(100)}},
		{"negative price", Fund{Ticker: "VTSAX", Class: "Stocks", Shares: Q(1), Price: M(-100)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPortfolio([]Fund{tc.fund}, targets)
			var data *DataError
			if !errors.As(err, &data) {
				t.Fatalf("NewPortfolio() error = %v, want DataError", err)
			}
		})
	}
}

func TestTargetsValidate(t *testing.T) {
	r := decimal.RequireFromString
	cases := []struct {
		name    string
		targets Targets
		ok      bool
	}{
		{"sums to one", Targets{{"A", r("0.6")}, {"B", r("0.4")}}, true},
		{"within tolerance", Targets{{"A", r("0.6000001")}, {"B", r("0.4")}}, true},
		{"empty", Targets{}, false},
		{"does not sum", Targets{{"A", r("0.6")}, {"B", r("0.3")}}, false},
		{"negative ratio", Targets{{"A", r("1.2")}, {"B", r("-0.2")}}, false},
		{"duplicate class", Targets{{"A", r("0.5")}, {"A", r("0.5")}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.targets.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tc.ok {
				var configuration *ConfigurationError
				if !errors.As(err, &configuration) {
					t.Errorf("Validate() error = %v, want ConfigurationError", err)
				}
			}
		})
	}
}
