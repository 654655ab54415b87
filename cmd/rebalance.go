package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	stc "github.com/DavidCain/stay-the-course"
	"github.com/DavidCain/stay-the-course/renderer"
)

type rebalanceCmd struct {
	amount string
}

func (*rebalanceCmd) Name() string     { return "rebalance" }
func (*rebalanceCmd) Synopsis() string { return "split a contribution or withdrawal across asset classes" }
func (*rebalanceCmd) Usage() string {
	return `stc rebalance [-amount <dollars>]

Recommend how to distribute a contribution (or a withdrawal, with a
negative amount) so the portfolio moves toward its target ratios without
selling overweight positions. Prompts for the amount if the flag is not
given.

Usage Examples:
$ stc rebalance -amount 2000
$ stc rebalance -amount -500
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Dollars to contribute (negative to withdraw)")
}

func (c *rebalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := c.requestedAmount()
	if err != nil {
		return fail(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	p, err := loadPortfolio(cfg, time.Now())
	if err != nil {
		return fail(err)
	}
	res, err := p.Allocate(amount)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.AllocationMarkdown(res))
	return subcommands.ExitSuccess
}

func (c *rebalanceCmd) requestedAmount() (stc.Money, error) {
	text := c.amount
	if text == "" {
		fmt.Println("How much to contribute or withdraw?")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return stc.Money{}, fmt.Errorf("reading amount: %w", err)
		}
		text = strings.TrimSpace(line)
	}
	amount, err := stc.ParseMoney(text)
	if err != nil {
		return stc.Money{}, fmt.Errorf("amount %q is not a dollar figure", text)
	}
	return amount, nil
}
