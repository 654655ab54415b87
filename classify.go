package staythecourse

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Classifications maps fund tickers to asset-class names. It is loaded from
// a two-column CSV (ticker,class) kept next to the book, e.g.:
//
//	VTSAX,US Stocks
//	VTIAX,International Stocks
//	VGSLX,REIT
type Classifications struct {
	classByTicker map[string]string
}

// ReadClassifications parses a ticker,class CSV. A header line is optional:
// a first record whose columns are exactly "ticker,class" is skipped.
func ReadClassifications(r io.Reader) (*Classifications, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	c := &Classifications{classByTicker: make(map[string]string)}
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("classifications line %d: %w", line, err)
		}
		ticker := strings.TrimSpace(record[0])
		class := strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(ticker, "ticker") && strings.EqualFold(class, "class") {
			continue
		}
		if ticker == "" || class == "" {
			return nil, fmt.Errorf("classifications line %d: empty ticker or class", line)
		}
		c.classByTicker[ticker] = class
	}
	return c, nil
}

// LoadClassifications reads the classification table from a CSV file.
func LoadClassifications(path string) (*Classifications, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open classifications %q: %w", path, err)
	}
	defer f.Close()
	return ReadClassifications(f)
}

// Classify returns the asset class for a ticker, or a ClassificationError
// if the ticker is unknown.
func (c *Classifications) Classify(ticker string) (string, error) {
	class, ok := c.classByTicker[ticker]
	if !ok {
		return "", &ClassificationError{Ticker: ticker}
	}
	return class, nil
}
