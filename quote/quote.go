// Package quote fetches fund prices from Alpha Vantage, the quote source
// GnuCash itself uses for mutual funds.
package quote

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Quote is the latest known price for one symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Day    time.Time // latest trading day, not the fetch time
}

// Client queries the Alpha Vantage GLOBAL_QUOTE endpoint. Responses are
// cached on disk for the day: fund prices update once daily, and the free
// API tier is heavily rate limited.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

// NewClient reads the API key from ALPHAVANTAGE_API_KEY.
func NewClient() (*Client, error) {
	key := os.Getenv("ALPHAVANTAGE_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ALPHAVANTAGE_API_KEY is not set")
	}
	return &Client{HTTPClient: daily(), BaseURL: defaultBaseURL, APIKey: key}, nil
}

// Fetch returns the latest quote for a ticker.
func (c *Client) Fetch(ticker string) (Quote, error) {
	addr := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.BaseURL, url.QueryEscape(ticker), url.QueryEscape(c.APIKey))

	var jobj any
	if err := jwget(c.HTTPClient, addr, &jobj); err != nil {
		return Quote{}, fmt.Errorf("quote for %q: %w", ticker, err)
	}

	// A "Note" instead of a quote means the rate limit was hit.
	if note, err := jsonpath.Get("$.Note", jobj); err == nil {
		return Quote{}, fmt.Errorf("quote for %q refused: %v", ticker, note)
	}

	price, err := stringAt(jobj, `$["Global Quote"]["05. price"]`)
	if err != nil {
		return Quote{}, fmt.Errorf("quote for %q: %w", ticker, err)
	}
	day, err := stringAt(jobj, `$["Global Quote"]["07. latest trading day"]`)
	if err != nil {
		return Quote{}, fmt.Errorf("quote for %q: %w", ticker, err)
	}

	q := Quote{Symbol: ticker}
	if q.Price, err = decimal.NewFromString(price); err != nil {
		return Quote{}, fmt.Errorf("quote for %q: bad price %q", ticker, price)
	}
	if q.Day, err = time.Parse("2006-01-02", day); err != nil {
		return Quote{}, fmt.Errorf("quote for %q: bad trading day %q", ticker, day)
	}
	return q, nil
}

// stringAt extracts one string value by JSON path, unwrapping the
// single-element list form jsonpath sometimes returns.
func stringAt(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("no value at %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("value at %q is not a string: %v", path, jval)
	}
	return s, nil
}
