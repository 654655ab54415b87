// Package renderer formats allocator output as markdown.
package renderer

import (
	"fmt"
	"strings"

	stc "github.com/DavidCain/stay-the-course"
)

// StatusMarkdown renders where the portfolio stands against its targets.
func StatusMarkdown(p *stc.Portfolio) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio: %s\n\n", p.Total())
	fmt.Fprintln(&b, "| Asset Class | Value | Share | Target | Deviation |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")

	total := p.Total()
	for _, c := range p.Classes() {
		deviation := "n/a"
		if c.Target.IsPositive() {
			underweight := c.Target.Sub(c.Ratio(total)).Div(c.Target)
			deviation = stc.AsPercent(underweight).SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			c.Name,
			c.Value(),
			stc.AsPercent(c.Ratio(total)),
			stc.AsPercent(c.Target),
			deviation,
		)
	}

	minimum := p.MinimumToEqualize()
	if minimum.IsPositive() {
		fmt.Fprintf(&b, "\nContribute %s to reach every target without selling.\n", minimum.Round())
	}
	return b.String()
}

// AllocationMarkdown renders a buy/sell recommendation.
func AllocationMarkdown(res *stc.AllocationResult) string {
	var b strings.Builder
	if res.Amount.IsNegative() {
		fmt.Fprintf(&b, "# Withdrawing %s\n\n", res.Amount.Abs())
	} else {
		fmt.Fprintf(&b, "# Contributing %s\n\n", res.Amount)
	}
	fmt.Fprintln(&b, "| Asset Class | Action | Before | After | Target | Share After |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")

	for _, c := range res.Classes {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			c.Name,
			action(c.Delta),
			c.BeforeValue.Round(),
			c.AfterValue.Round(),
			stc.AsPercent(c.Target),
			stc.AsPercent(c.AfterRatio),
		)
	}
	fmt.Fprintf(&b, "\nPortfolio total: %s -> %s\n", res.Total.Round(), res.NewTotal.Round())
	return b.String()
}

func action(delta stc.Money) string {
	switch {
	case delta.IsZero():
		return "hold"
	case delta.IsNegative():
		return "sell " + delta.Abs().String()
	default:
		return "buy " + delta.String()
	}
}

// ProjectionsMarkdown renders retirement prospects at a growth assumption.
func ProjectionsMarkdown(projections []stc.Projection, apy float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Worth at retirement (assuming %.0f%% growth)\n\n", apy*100)
	fmt.Fprintln(&b, "| Age | Date | Worth | Safe annual income |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|")
	for _, p := range projections {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			p.Age, p.On.Format("2006-01-02"), p.Worth, p.SafeIncome)
	}
	return b.String()
}

// StatsMarkdown renders lifetime income figures.
func StatsMarkdown(afterTaxIncome, charitableGiving stc.Money) string {
	var b strings.Builder
	fmt.Fprintln(&b, "# Lifetime income")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Measure | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| After-tax income | %s |\n", afterTaxIncome.Round())
	fmt.Fprintf(&b, "| Charitable giving | %s |\n", charitableGiving.Round())
	share := "n/a"
	if afterTaxIncome.IsPositive() {
		share = stc.AsPercent(charitableGiving.Decimal().Div(afterTaxIncome.Decimal())).String()
	}
	fmt.Fprintf(&b, "| Share given | %s |\n", share)
	return b.String()
}
