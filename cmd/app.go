// Package cmd implements the stc command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	stc "github.com/DavidCain/stay-the-course"
	"github.com/DavidCain/stay-the-course/gnucash"
	"github.com/DavidCain/stay-the-course/quote"
)

// Register the subcommands.
// A main package calls Register(), then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&statusCmd{}, "portfolio")
	c.Register(&rebalanceCmd{}, "portfolio")
	c.Register(&equalizeCmd{}, "portfolio")
	c.Register(&projectCmd{}, "retirement")
	c.Register(&statsCmd{}, "retirement")
	c.Register(&updateCmd{}, "quotes")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application with a short lived lifecycle, globals are fine here.

var configFile = flag.String("config", "config.yaml", "Path to the configuration file")

func loadConfig() (*stc.Config, error) {
	return stc.LoadConfig(*configFile)
}

// openBook opens the configured GnuCash book, refreshing quotes first when
// the configuration asks for that.
func openBook(cfg *stc.Config) (*gnucash.Book, error) {
	book, err := gnucash.Open(cfg.Book, cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.UpdateQuotes {
		if err := refreshQuotes(book); err != nil {
			book.Close()
			return nil, err
		}
	}
	return book, nil
}

// refreshQuotes fetches and records a price for every stale commodity.
func refreshQuotes(book *gnucash.Book) error {
	stale, err := book.StaleCommodities(time.Now())
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	client, err := quote.NewClient()
	if err != nil {
		return err
	}
	for _, commodity := range stale {
		q, err := client.Fetch(commodity.Mnemonic)
		if err != nil {
			return err
		}
		// Skip quotes that add nothing: same day, same price.
		if last, ok := book.LatestPrice(commodity.Mnemonic); ok &&
			!q.Day.After(last.Time) && q.Price.Equal(last.Value) {
			continue
		}
		if err := book.RecordPrice(commodity, q.Price, q.Day); err != nil {
			return err
		}
	}
	return nil
}

// loadPortfolio assembles the portfolio snapshot the way every reporting
// command needs it: book holdings, classified, against the effective targets.
func loadPortfolio(cfg *stc.Config, today time.Time) (*stc.Portfolio, error) {
	book, err := openBook(cfg)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	classifications, err := stc.LoadClassifications(cfg.Classifications)
	if err != nil {
		return nil, err
	}
	funds, err := book.Holdings(classifications)
	if err != nil {
		return nil, err
	}
	targets, err := cfg.TargetsFor(today)
	if err != nil {
		return nil, err
	}
	return stc.NewPortfolio(funds, targets)
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails (e.g. output is not a tty).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
