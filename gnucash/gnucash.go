// Package gnucash reads investment holdings out of a GnuCash book, in
// either its SQLite or its XML serialization.
//
// Only what the allocator needs is read: FUND-namespace commodities, the
// accounts denominated in them, the share quantities accumulated by their
// transaction splits, and the latest known USD price per commodity. The
// book is never written, with the single exception of RecordPrice used by
// quote updates.
package gnucash

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	stc "github.com/DavidCain/stay-the-course"
)

// Commodity identifies a traded security: a GnuCash commodity in the FUND
// namespace, or the currency a price is quoted in.
type Commodity struct {
	Mnemonic  string // "VTSAX"
	Namespace string // "FUND", "CURRENCY"
	Fullname  string // "Vanguard Total Stock Market Index Fund"
}

// IsFund reports whether the commodity is a holdable security rather than a
// currency.
func (c Commodity) IsFund() bool { return c.Namespace == "FUND" }

// Price is one observed price for a commodity, in USD.
type Price struct {
	Commodity string
	Value     decimal.Decimal
	Time      time.Time
}

// account is one investment account and the share balance its splits sum to.
type account struct {
	guid      string
	name      string
	commodity Commodity
	shares    decimal.Decimal
}

// Book is an in-memory view of a GnuCash book's investments.
type Book struct {
	accounts     map[string]*account // by guid
	latestPrices map[string]Price    // by commodity mnemonic
	sqlite       *sqliteBook         // nil for XML books
}

func newBook() *Book {
	return &Book{
		accounts:     make(map[string]*account),
		latestPrices: make(map[string]Price),
	}
}

// Open reads a book in the given format, "sqlite3" or "xml".
func Open(path, format string) (*Book, error) {
	switch format {
	case "sqlite3":
		return OpenSQLite(path)
	case "xml":
		return OpenXML(path)
	}
	return nil, &stc.ConfigurationError{Reason: fmt.Sprintf("unsupported book format %q", format)}
}

// Close releases the underlying database connection, if any.
func (b *Book) Close() error {
	if b.sqlite == nil {
		return nil
	}
	return b.sqlite.db.Close()
}

// addPrice keeps the newest observation per commodity. Later observations
// with the same timestamp win, matching insertion order in the price table.
func (b *Book) addPrice(p Price) {
	if existing, ok := b.latestPrices[p.Commodity]; ok && p.Time.Before(existing.Time) {
		return
	}
	b.latestPrices[p.Commodity] = p
}

// LatestPrice returns the most recent USD price recorded for a ticker.
func (b *Book) LatestPrice(ticker string) (Price, bool) {
	p, ok := b.latestPrices[ticker]
	return p, ok
}

// Holdings values every investment account and classifies it, dropping
// empty positions. An account whose commodity has no recorded price is a
// DataError: valuing it at zero would silently skew every target ratio.
func (b *Book) Holdings(classifications *stc.Classifications) ([]stc.Fund, error) {
	var funds []stc.Fund
	for _, a := range b.accounts {
		if a.shares.IsZero() {
			continue
		}
		price, ok := b.latestPrices[a.commodity.Mnemonic]
		if !ok {
			return nil, &stc.DataError{Ticker: a.commodity.Mnemonic, Field: "price", Value: "missing"}
		}
		class, err := classifications.Classify(a.commodity.Mnemonic)
		if err != nil {
			return nil, err
		}
		fund, err := stc.NewFund(a.commodity.Mnemonic, class, stc.Q(a.shares), stc.M(price.Value))
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", a.name, err)
		}
		funds = append(funds, fund)
	}
	return funds, nil
}

// parseFraction reads GnuCash's exact "numerator/denominator" encoding.
func parseFraction(s string) (decimal.Decimal, error) {
	num, denom, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return decimal.Zero, fmt.Errorf("malformed fraction %q", s)
	}
	n, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed fraction %q: %w", s, err)
	}
	d, err := decimal.NewFromString(denom)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed fraction %q: %w", s, err)
	}
	if d.IsZero() {
		return decimal.Zero, fmt.Errorf("fraction %q divides by zero", s)
	}
	return n.Div(d), nil
}

func fraction(num, denom int64) (decimal.Decimal, error) {
	if denom == 0 {
		return decimal.Zero, fmt.Errorf("fraction %d/%d divides by zero", num, denom)
	}
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(denom)), nil
}
