package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	"github.com/DavidCain/stay-the-course/renderer"
)

type equalizeCmd struct{}

func (*equalizeCmd) Name() string     { return "equalize" }
func (*equalizeCmd) Synopsis() string { return "find the smallest contribution that reaches every target" }
func (*equalizeCmd) Usage() string {
	return `stc equalize

Compute the minimum contribution that brings every asset class to its
target ratio without selling anything, and show how to split it.
`
}

func (c *equalizeCmd) SetFlags(f *flag.FlagSet) {}

func (c *equalizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	p, err := loadPortfolio(cfg, time.Now())
	if err != nil {
		return fail(err)
	}

	minimum := p.MinimumToEqualize().Round()
	if minimum.IsZero() {
		printMarkdown("Every asset class is already at (or above) its target.\n")
		return subcommands.ExitSuccess
	}
	res, err := p.Allocate(minimum)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.AllocationMarkdown(res))
	return subcommands.ExitSuccess
}
