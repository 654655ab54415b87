package gnucash

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// sqliteTime is how GnuCash stores datetimes in SQLite books, always UTC.
const sqliteTime = "2006-01-02 15:04:05"

type sqliteBook struct {
	db *sql.DB
}

// OpenSQLite loads the investment accounts, their split balances, and the
// price history out of a SQLite-format book.
func OpenSQLite(path string) (*Book, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open book %q: %w", path, err)
	}

	b := newBook()
	b.sqlite = &sqliteBook{db: db}
	if err := b.sqlite.load(b); err != nil {
		db.Close()
		return nil, fmt.Errorf("book %q: %w", path, err)
	}
	return b, nil
}

func (s *sqliteBook) load(b *Book) error {
	if err := s.loadAccounts(b); err != nil {
		return err
	}
	if err := s.loadShares(b); err != nil {
		return err
	}
	return s.loadPrices(b)
}

func (s *sqliteBook) loadAccounts(b *Book) error {
	rows, err := s.db.Query(`
		SELECT a.guid, a.name, c.mnemonic, c.namespace, coalesce(c.fullname, c.mnemonic)
		  FROM accounts a
		  JOIN commodities c ON a.commodity_guid = c.guid
		 WHERE c.namespace = 'FUND'`)
	if err != nil {
		return fmt.Errorf("investment accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := &account{}
		if err := rows.Scan(&a.guid, &a.name, &a.commodity.Mnemonic, &a.commodity.Namespace, &a.commodity.Fullname); err != nil {
			return fmt.Errorf("investment accounts: %w", err)
		}
		b.accounts[a.guid] = a
	}
	return rows.Err()
}

// loadShares sums each account's split quantities. The fractions are summed
// exactly: no floating point touches a share balance.
func (s *sqliteBook) loadShares(b *Book) error {
	rows, err := s.db.Query(`
		SELECT s.account_guid, s.quantity_num, s.quantity_denom
		  FROM splits s
		  JOIN accounts a ON s.account_guid = a.guid
		  JOIN commodities c ON a.commodity_guid = c.guid
		 WHERE c.namespace = 'FUND'`)
	if err != nil {
		return fmt.Errorf("splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var guid string
		var num, denom int64
		if err := rows.Scan(&guid, &num, &denom); err != nil {
			return fmt.Errorf("splits: %w", err)
		}
		quantity, err := fraction(num, denom)
		if err != nil {
			return fmt.Errorf("split for account %s: %w", guid, err)
		}
		if a, ok := b.accounts[guid]; ok {
			a.shares = a.shares.Add(quantity)
		}
	}
	return rows.Err()
}

func (s *sqliteBook) loadPrices(b *Book) error {
	rows, err := s.db.Query(`
		SELECT from_c.mnemonic, p.value_num, p.value_denom, p.date
		  FROM prices p
		  JOIN commodities from_c ON p.commodity_guid = from_c.guid
		  JOIN commodities to_c   ON p.currency_guid = to_c.guid
		 WHERE from_c.namespace = 'FUND'
		   AND to_c.namespace = 'CURRENCY' AND to_c.mnemonic = 'USD'
		 ORDER BY p.date`)
	if err != nil {
		return fmt.Errorf("prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Price
		var num, denom int64
		var date string
		if err := rows.Scan(&p.Commodity, &num, &denom, &date); err != nil {
			return fmt.Errorf("prices: %w", err)
		}
		if p.Value, err = fraction(num, denom); err != nil {
			return fmt.Errorf("price for %s: %w", p.Commodity, err)
		}
		if p.Time, err = time.ParseInLocation(sqliteTime, date, time.UTC); err != nil {
			return fmt.Errorf("price for %s: %w", p.Commodity, err)
		}
		b.addPrice(p)
	}
	return rows.Err()
}

// StaleCommodities lists the FUND commodities flagged for online quotes
// whose latest price is over a day old. Weekends and trading holidays make
// some of these fetches fruitless, which is fine: we try again tomorrow.
func (b *Book) StaleCommodities(now time.Time) ([]Commodity, error) {
	if b.sqlite == nil {
		return nil, fmt.Errorf("quote updates need a sqlite3 book")
	}
	rows, err := b.sqlite.db.Query(`
		SELECT mnemonic, namespace, coalesce(fullname, mnemonic)
		  FROM commodities
		 WHERE namespace = 'FUND'
		   AND quote_flag
		   AND quote_source = 'alphavantage'`)
	if err != nil {
		return nil, fmt.Errorf("quotable commodities: %w", err)
	}
	defer rows.Close()

	var stale []Commodity
	for rows.Next() {
		var c Commodity
		if err := rows.Scan(&c.Mnemonic, &c.Namespace, &c.Fullname); err != nil {
			return nil, fmt.Errorf("quotable commodities: %w", err)
		}
		if price, ok := b.latestPrices[c.Mnemonic]; ok && now.Sub(price.Time) <= 24*time.Hour {
			continue
		}
		stale = append(stale, c)
	}
	return stale, rows.Err()
}

// RecordPrice appends a USD price observation to the book's price table.
func (b *Book) RecordPrice(c Commodity, value decimal.Decimal, at time.Time) error {
	if b.sqlite == nil {
		return fmt.Errorf("quote updates need a sqlite3 book")
	}
	db := b.sqlite.db

	var commodityGUID, usdGUID string
	err := db.QueryRow(`SELECT guid FROM commodities WHERE namespace = 'FUND' AND mnemonic = ?`, c.Mnemonic).
		Scan(&commodityGUID)
	if err != nil {
		return fmt.Errorf("commodity %s: %w", c.Mnemonic, err)
	}
	err = db.QueryRow(`SELECT guid FROM commodities WHERE namespace = 'CURRENCY' AND mnemonic = 'USD'`).
		Scan(&usdGUID)
	if err != nil {
		return fmt.Errorf("USD commodity: %w", err)
	}

	num, denom := asFraction(value)
	_, err = db.Exec(`
		INSERT INTO prices (guid, commodity_guid, currency_guid, date, source, type, value_num, value_denom)
		VALUES (?, ?, ?, ?, 'user:price', 'last', ?, ?)`,
		newGUID(), commodityGUID, usdGUID, at.UTC().Format(sqliteTime), num, denom)
	if err != nil {
		return fmt.Errorf("recording price for %s: %w", c.Mnemonic, err)
	}
	b.addPrice(Price{Commodity: c.Mnemonic, Value: value, Time: at})
	return nil
}

// asFraction renders a decimal as GnuCash's num/denom pair, at up to six
// decimal places of precision.
func asFraction(d decimal.Decimal) (num, denom int64) {
	places := int32(-d.Exponent())
	if places < 0 {
		places = 0
	}
	if places > 6 {
		places = 6
		d = d.Round(6)
	}
	denom = 1
	for i := int32(0); i < places; i++ {
		denom *= 10
	}
	return d.Shift(places).IntPart(), denom
}

// newGUID makes a 32-hex-char identifier in GnuCash's format.
func newGUID() string {
	var raw [16]byte
	rand.Read(raw[:])
	return hex.EncodeToString(raw[:])
}
