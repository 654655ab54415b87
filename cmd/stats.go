package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/DavidCain/stay-the-course/gnucash"
	"github.com/DavidCain/stay-the-course/renderer"
)

type statsCmd struct{}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "report lifetime income and charitable giving" }
func (*statsCmd) Usage() string {
	return `stc stats

Report lifetime after-tax income and charitable giving, straight from
the book's income and expense accounts. Requires the sqlite3 format.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.Format != "sqlite3" {
		return fail(fmt.Errorf("stats queries need a sqlite3 book, not %q", cfg.Format))
	}

	stats, err := gnucash.NewStats(cfg.Book)
	if err != nil {
		return fail(err)
	}
	defer stats.Close()

	income, err := stats.AfterTaxIncome()
	if err != nil {
		return fail(err)
	}
	giving, err := stats.CharitableGiving()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.StatsMarkdown(income, giving))
	return subcommands.ExitSuccess
}
