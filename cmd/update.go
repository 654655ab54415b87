package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch fresh quotes into the book" }
func (*updateCmd) Usage() string {
	return `stc update

Fetch a quote for every flagged fund whose latest price is over a day
old, and record the new prices in the book. Requires the sqlite3 format
and an ALPHAVANTAGE_API_KEY (a .env file works).
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	book, err := openBook(cfg)
	if err != nil {
		return fail(err)
	}
	defer book.Close()

	if err := refreshQuotes(book); err != nil {
		return fail(err)
	}
	fmt.Println("Quotes are up to date.")
	return subcommands.ExitSuccess
}
