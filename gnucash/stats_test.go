package gnucash

import (
	"database/sql"
	"path/filepath"
	"testing"

	stc "github.com/DavidCain/stay-the-course"
)

// newStatsBook writes a book with an account tree:
// Root Account -> {Income, Expenses -> {Taxes -> Federal, Charity}}.
func newStatsBook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.gnucash")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	statements := []string{
		testSchema,
		`INSERT INTO accounts VALUES ('root', 'Root Account', 'ROOT', NULL, NULL)`,
		`INSERT INTO accounts VALUES ('income', 'Salary', 'INCOME', 'root', NULL)`,
		`INSERT INTO accounts VALUES ('expenses', 'Expenses', 'EXPENSE', 'root', NULL)`,
		`INSERT INTO accounts VALUES ('taxes', 'Taxes', 'EXPENSE', 'expenses', NULL)`,
		`INSERT INTO accounts VALUES ('federal', 'Federal', 'EXPENSE', 'taxes', NULL)`,
		`INSERT INTO accounts VALUES ('charity', 'Charity', 'EXPENSE', 'expenses', NULL)`,
		`INSERT INTO accounts VALUES ('food', 'Food', 'EXPENSE', 'expenses', NULL)`,

		// $100,000 of income (negative by dual-entry convention)
		`INSERT INTO splits VALUES ('income', -6000000, 100, -6000000, 100)`,
		`INSERT INTO splits VALUES ('income', -4000000, 100, -4000000, 100)`,
		// $20,000 of taxes, nested one level down
		`INSERT INTO splits VALUES ('federal', 1500000, 100, 1500000, 100)`,
		`INSERT INTO splits VALUES ('taxes', 500000, 100, 500000, 100)`,
		// $5,000 to charity, $10,000 on food
		`INSERT INTO splits VALUES ('charity', 500000, 100, 500000, 100)`,
		`INSERT INTO splits VALUES ('food', 1000000, 100, 1000000, 100)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	return path
}

func TestStats(t *testing.T) {
	stats, err := NewStats(newStatsBook(t))
	if err != nil {
		t.Fatalf("NewStats() error = %v", err)
	}
	defer stats.Close()

	income, err := stats.AfterTaxIncome()
	if err != nil {
		t.Fatalf("AfterTaxIncome() error = %v", err)
	}
	if want := stc.M(80000); !income.Equal(want) {
		t.Errorf("AfterTaxIncome() = %s, want %s", income, want)
	}

	giving, err := stats.CharitableGiving()
	if err != nil {
		t.Fatalf("CharitableGiving() error = %v", err)
	}
	if want := stc.M(5000); !giving.Equal(want) {
		t.Errorf("CharitableGiving() = %s, want %s", giving, want)
	}
}

func TestStatsMissingAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.gnucash")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatal(err)
	}
	db.Close()

	stats, err := NewStats(path)
	if err != nil {
		t.Fatalf("NewStats() error = %v", err)
	}
	defer stats.Close()
	if _, err := stats.CharitableGiving(); err == nil {
		t.Error("CharitableGiving() without a Charity account: no error")
	}
}
