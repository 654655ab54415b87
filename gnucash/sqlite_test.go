package gnucash

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	stc "github.com/DavidCain/stay-the-course"
)

const testSchema = `
CREATE TABLE commodities (
  guid TEXT PRIMARY KEY,
  namespace TEXT NOT NULL,
  mnemonic TEXT NOT NULL,
  fullname TEXT,
  quote_flag INTEGER NOT NULL DEFAULT 0,
  quote_source TEXT
);
CREATE TABLE accounts (
  guid TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  account_type TEXT NOT NULL,
  parent_guid TEXT,
  commodity_guid TEXT
);
CREATE TABLE splits (
  account_guid TEXT NOT NULL,
  value_num INTEGER NOT NULL,
  value_denom INTEGER NOT NULL,
  quantity_num INTEGER NOT NULL,
  quantity_denom INTEGER NOT NULL
);
CREATE TABLE prices (
  guid TEXT PRIMARY KEY,
  commodity_guid TEXT NOT NULL,
  currency_guid TEXT NOT NULL,
  date TEXT NOT NULL,
  source TEXT,
  type TEXT,
  value_num INTEGER NOT NULL,
  value_denom INTEGER NOT NULL
);
`

// newTestBook writes a small sqlite book: two funds held in two accounts,
// one empty fund account, and a price history.
func newTestBook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.gnucash")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	statements := []string{
		`INSERT INTO commodities VALUES ('usd', 'CURRENCY', 'USD', 'US Dollar', 0, NULL)`,
		`INSERT INTO commodities VALUES ('vtsax', 'FUND', 'VTSAX', 'Vanguard Total Stock Market', 1, 'alphavantage')`,
		`INSERT INTO commodities VALUES ('vbtlx', 'FUND', 'VBTLX', 'Vanguard Total Bond Market', 1, 'alphavantage')`,
		`INSERT INTO commodities VALUES ('vmfxx', 'FUND', 'VMFXX', 'Vanguard Federal Money Market', 0, NULL)`,

		`INSERT INTO accounts VALUES ('acct-vtsax', 'Brokerage VTSAX', 'STOCK', NULL, 'vtsax')`,
		`INSERT INTO accounts VALUES ('acct-vbtlx', 'IRA VBTLX', 'STOCK', NULL, 'vbtlx')`,
		`INSERT INTO accounts VALUES ('acct-empty', 'Sold out', 'STOCK', NULL, 'vmfxx')`,
		`INSERT INTO accounts VALUES ('acct-checking', 'Checking', 'BANK', NULL, 'usd')`,

		// 10.5 + 2 shares of VTSAX, 100 shares of VBTLX, zero VMFXX
		`INSERT INTO splits VALUES ('acct-vtsax', 105000, 100, 105000, 10000)`,
		`INSERT INTO splits VALUES ('acct-vtsax', 2000, 100, 20000, 10000)`,
		`INSERT INTO splits VALUES ('acct-vbtlx', 110900, 100, 1000000, 10000)`,
		`INSERT INTO splits VALUES ('acct-empty', 0, 100, 0, 10000)`,
		`INSERT INTO splits VALUES ('acct-checking', 50000, 100, 50000, 100)`,

		// A stale VTSAX price that a later one supersedes
		`INSERT INTO prices VALUES ('p1', 'vtsax', 'usd', '2019-11-01 12:00:00', 'Finance::Quote', 'last', 9000, 100)`,
		`INSERT INTO prices VALUES ('p2', 'vtsax', 'usd', '2019-12-11 12:00:00', 'Finance::Quote', 'last', 10000, 100)`,
		`INSERT INTO prices VALUES ('p3', 'vbtlx', 'usd', '2019-12-11 12:00:00', 'Finance::Quote', 'last', 1109, 100)`,
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatal(err)
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	return path
}

func testClassifications(t *testing.T) *stc.Classifications {
	t.Helper()
	c, err := stc.ReadClassifications(strings.NewReader(
		"VTSAX,US Total Market\nVBTLX,US Bonds\nVMFXX,Cash\n"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestOpenSQLite(t *testing.T) {
	book, err := OpenSQLite(newTestBook(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer book.Close()

	funds, err := book.Holdings(testClassifications(t))
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if len(funds) != 2 {
		t.Fatalf("got %d holdings, want 2 (empty account skipped)", len(funds))
	}

	byTicker := map[string]stc.Fund{}
	for _, f := range funds {
		byTicker[f.Ticker] = f
	}
	vtsax := byTicker["VTSAX"]
	if !vtsax.Shares.Equal(stc.Q(12.5)) {
		t.Errorf("VTSAX shares = %s, want 12.5", vtsax.Shares)
	}
	if !vtsax.Price.Equal(stc.M(100)) {
		t.Errorf("VTSAX price = %s, want the newest price $100.00", vtsax.Price)
	}
	if vtsax.Class != "US Total Market" {
		t.Errorf("VTSAX class = %q", vtsax.Class)
	}
	vbtlx := byTicker["VBTLX"]
	if !vbtlx.Value().Equal(stc.M(1109)) {
		t.Errorf("VBTLX value = %s, want $1,109.00", vbtlx.Value())
	}
}

func TestHoldingsUnclassifiedTicker(t *testing.T) {
	book, err := OpenSQLite(newTestBook(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer book.Close()

	c, err := stc.ReadClassifications(strings.NewReader("VTSAX,US Total Market\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := book.Holdings(c); err == nil {
		t.Error("Holdings() with an unclassified ticker: no error")
	}
}

func TestStaleCommodities(t *testing.T) {
	book, err := OpenSQLite(newTestBook(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer book.Close()

	quoteDay := time.Date(2019, time.December, 11, 12, 0, 0, 0, time.UTC)

	t.Run("fresh prices", func(t *testing.T) {
		stale, err := book.StaleCommodities(quoteDay.Add(6 * time.Hour))
		if err != nil {
			t.Fatalf("StaleCommodities() error = %v", err)
		}
		if len(stale) != 0 {
			t.Errorf("StaleCommodities() = %v, want none", stale)
		}
	})

	t.Run("a week later", func(t *testing.T) {
		stale, err := book.StaleCommodities(quoteDay.Add(7 * 24 * time.Hour))
		if err != nil {
			t.Fatalf("StaleCommodities() error = %v", err)
		}
		// VMFXX has no quote flag; the two flagged funds are both stale.
		if len(stale) != 2 {
			t.Fatalf("StaleCommodities() = %v, want VTSAX and VBTLX", stale)
		}
	})
}

func TestRecordPrice(t *testing.T) {
	path := newTestBook(t)
	book, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}

	at := time.Date(2019, time.December, 13, 16, 0, 0, 0, time.UTC)
	value := decimal.RequireFromString("101.37")
	if err := book.RecordPrice(Commodity{Mnemonic: "VTSAX", Namespace: "FUND"}, value, at); err != nil {
		t.Fatalf("RecordPrice() error = %v", err)
	}
	if price, _ := book.LatestPrice("VTSAX"); !price.Value.Equal(value) {
		t.Errorf("LatestPrice after recording = %s, want %s", price.Value, value)
	}
	book.Close()

	// The price survives reopening the book.
	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer reopened.Close()
	price, ok := reopened.LatestPrice("VTSAX")
	if !ok || !price.Value.Equal(value) {
		t.Errorf("reopened LatestPrice = %s, want %s", price.Value, value)
	}
	if !price.Time.Equal(at) {
		t.Errorf("reopened price time = %s, want %s", price.Time, at)
	}
}

func TestFractions(t *testing.T) {
	if _, err := fraction(1, 0); err == nil {
		t.Error("fraction(1, 0): no error")
	}
	got, err := parseFraction("110900/100")
	if err != nil {
		t.Fatalf("parseFraction() error = %v", err)
	}
	if want := decimal.RequireFromString("1109"); !got.Equal(want) {
		t.Errorf("parseFraction(110900/100) = %s, want %s", got, want)
	}
	for _, bad := range []string{"", "12", "a/b", "1/0"} {
		if _, err := parseFraction(bad); err == nil {
			t.Errorf("parseFraction(%q): no error", bad)
		}
	}
}

func TestAsFraction(t *testing.T) {
	cases := []struct {
		value      string
		num, denom int64
	}{
		{"101.37", 10137, 100},
		{"11", 11, 1},
		{"0.123456789", 123457, 1000000},
	}
	for _, tc := range cases {
		num, denom := asFraction(decimal.RequireFromString(tc.value))
		if num != tc.num || denom != tc.denom {
			t.Errorf("asFraction(%s) = %d/%d, want %d/%d", tc.value, num, denom, tc.num, tc.denom)
		}
	}
}
