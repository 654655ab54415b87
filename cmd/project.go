package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	stc "github.com/DavidCain/stay-the-course"
	"github.com/DavidCain/stay-the-course/renderer"
)

type projectCmd struct {
	apy float64
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project the portfolio's worth at retirement ages" }
func (*projectCmd) Usage() string {
	return `stc project [-apy <rate>]

Compound today's portfolio total out to candidate retirement ages,
with the annual income each worth could sustain under the 4% rule.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.apy, "apy", 0.07, "Assumed inflation-adjusted annual growth rate")
}

func (c *projectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	now := time.Now()
	p, err := loadPortfolio(cfg, now)
	if err != nil {
		return fail(err)
	}

	projections := stc.RetirementProjections(cfg.Birthday, p.Total(), c.apy, now)
	printMarkdown(renderer.ProjectionsMarkdown(projections, c.apy))
	return subcommands.ExitSuccess
}
