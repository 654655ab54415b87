package staythecourse

// Fund is a single holding: a fund ticker with a share count and the latest
// known price, tagged with the asset class it belongs to. A Fund is a value;
// it is never mutated after construction.
type Fund struct {
	Ticker string
	Class  string
	Shares Quantity
	Price  Money
}

// NewFund validates a fund record. Negative shares or prices are upstream
// data corruption and yield a DataError.
func NewFund(ticker, class string, shares Quantity, price Money) (Fund, error) {
	if shares.IsNegative() {
		return Fund{}, &DataError{Ticker: ticker, Field: "share count", Value: shares.String()}
	}
	if price.IsNegative() {
		return Fund{}, &DataError{Ticker: ticker, Field: "price", Value: price.String()}
	}
	return Fund{Ticker: ticker, Class: class, Shares: shares, Price: price}, nil
}

// Value is the fund's market value: shares times price.
func (f Fund) Value() Money { return f.Price.Mul(f.Shares) }
