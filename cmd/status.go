package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	"github.com/DavidCain/stay-the-course/renderer"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show holdings against their target ratios" }
func (*statusCmd) Usage() string {
	return `stc status

Show each asset class's value, its share of the portfolio, its target,
and how far it deviates from that target.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	p, err := loadPortfolio(cfg, time.Now())
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.StatusMarkdown(p))
	return subcommands.ExitSuccess
}
