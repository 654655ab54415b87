package gnucash

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	stc "github.com/DavidCain/stay-the-course"
)

// Stats answers lifetime income questions straight from a SQLite book.
// These queries walk the full account tree, so they stay in SQL rather
// than going through the in-memory Book view.
type Stats struct {
	db *sql.DB
}

// NewStats opens a SQLite-format book for statistics queries.
func NewStats(path string) (*Stats, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open book %q: %w", path, err)
	}
	return &Stats{db: db}, nil
}

func (s *Stats) Close() error { return s.db.Close() }

// topLevelExpenseAccount finds Root Account -> Expenses -> name.
func (s *Stats) topLevelExpenseAccount(name string) (string, error) {
	var guid string
	err := s.db.QueryRow(`
		WITH root_account AS (
		  SELECT guid FROM accounts
		   WHERE name = 'Root Account' AND account_type = 'ROOT'
		), root_expenses AS (
		  SELECT guid FROM accounts
		   WHERE name = 'Expenses' AND account_type = 'EXPENSE'
		     AND parent_guid = (SELECT guid FROM root_account)
		)
		SELECT guid FROM accounts
		 WHERE name = ? AND account_type = 'EXPENSE'
		   AND parent_guid = (SELECT guid FROM root_expenses)`, name).Scan(&guid)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no Expenses account named %q", name)
	}
	if err != nil {
		return "", fmt.Errorf("expense account %q: %w", name, err)
	}
	return guid, nil
}

// sumSplits adds up split values, exactly, for every account the query
// selects. The optional CTEs run before the account filter.
func (s *Stats) sumSplits(ctes, whereClause string) (decimal.Decimal, error) {
	rows, err := s.db.Query(fmt.Sprintf(`
		%s
		SELECT value_num, value_denom
		  FROM splits
		 WHERE account_guid IN (SELECT guid FROM accounts WHERE %s)`, ctes, whereClause))
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing splits: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var num, denom int64
		if err := rows.Scan(&num, &denom); err != nil {
			return decimal.Zero, fmt.Errorf("summing splits: %w", err)
		}
		value, err := fraction(num, denom)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}
	return total, rows.Err()
}

// sumAllTransactionsIn totals every split under an account and all of its
// descendants. Guids are hex strings, safe to inline in the CTE.
func (s *Stats) sumAllTransactionsIn(rootGUID string) (decimal.Decimal, error) {
	ctes := fmt.Sprintf(`
		WITH RECURSIVE child_accounts(last_parent) AS (
		  VALUES('%s')
		   UNION
		  SELECT guid
		    FROM accounts, child_accounts
		   WHERE accounts.parent_guid = child_accounts.last_parent
		)`, rootGUID)
	return s.sumSplits(ctes, "guid IN child_accounts")
}

// incomeBeforeTaxes sums all income. Dual-entry accounting records income
// negatively; flip it to the sign people expect.
func (s *Stats) incomeBeforeTaxes() (decimal.Decimal, error) {
	total, err := s.sumSplits("", "account_type = 'INCOME'")
	if err != nil {
		return decimal.Zero, err
	}
	return total.Neg(), nil
}

// taxesPaid totals everything under Expenses -> Taxes: income tax at every
// level, Social Security, Medicare.
func (s *Stats) taxesPaid() (decimal.Decimal, error) {
	guid, err := s.topLevelExpenseAccount("Taxes")
	if err != nil {
		return decimal.Zero, err
	}
	return s.sumAllTransactionsIn(guid)
}

// AfterTaxIncome is lifetime income less all taxes paid on it.
func (s *Stats) AfterTaxIncome() (stc.Money, error) {
	income, err := s.incomeBeforeTaxes()
	if err != nil {
		return stc.Money{}, err
	}
	taxes, err := s.taxesPaid()
	if err != nil {
		return stc.Money{}, err
	}
	return stc.M(income.Sub(taxes)), nil
}

// CharitableGiving totals everything under Expenses -> Charity.
func (s *Stats) CharitableGiving() (stc.Money, error) {
	guid, err := s.topLevelExpenseAccount("Charity")
	if err != nil {
		return stc.Money{}, err
	}
	total, err := s.sumAllTransactionsIn(guid)
	if err != nil {
		return stc.Money{}, err
	}
	return stc.M(total), nil
}
