package gnucash

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// XML books carry a timezone offset on datetimes; some older books omit it.
var xmlTimeFormats = []string{"2006-01-02 15:04:05 -0700", "2006-01-02 15:04:05"}

// OpenXML reads an uncompressed XML-format book. Large books are noticeably
// slower to read this way than with the SQLite format.
func OpenXML(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open book %q: %w", path, err)
	}
	defer f.Close()

	b := newBook()
	if err := b.readXML(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("book %q: %w", path, err)
	}
	return b, nil
}

// ReadXML parses a book from a stream of GnuCash XML.
func ReadXML(r io.Reader) (*Book, error) {
	b := newBook()
	if err := b.readXML(r); err != nil {
		return nil, err
	}
	return b, nil
}

// qname renders an element name as its familiar prefixed form, e.g.
// "gnc:account": the namespace URLs all end in their conventional prefix.
func qname(n xml.Name) string {
	space := n.Space
	if i := strings.LastIndex(space, "/"); i >= 0 {
		space = space[i+1:]
	}
	if space == "" {
		return n.Local
	}
	return space + ":" + n.Local
}

// readXML walks the document once. Accounts are declared before
// transactions, so share balances can be accumulated in the same pass.
func (b *Book) readXML(r io.Reader) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch qname(se.Name) {
		case "gnc:account":
			a, err := parseAccount(dec)
			if err != nil {
				return err
			}
			if a.commodity.IsFund() {
				b.accounts[a.guid] = a
			}
		case "gnc:pricedb":
			if err := b.parsePriceDB(dec); err != nil {
				return err
			}
		case "gnc:transaction":
			if err := b.parseTransaction(dec); err != nil {
				return err
			}
		}
	}
}

// readText returns the character data of a simple element, consuming
// through its end tag.
func readText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return strings.TrimSpace(sb.String()), nil
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return "", err
			}
		}
	}
}

func parseAccount(dec *xml.Decoder) (*account, error) {
	a := &account{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch qname(t.Name) {
			case "act:id":
				if a.guid, err = readText(dec); err != nil {
					return nil, err
				}
			case "act:name":
				if a.name, err = readText(dec); err != nil {
					return nil, err
				}
			case "act:commodity":
				if a.commodity, err = parseCommodity(dec, "act:commodity"); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if qname(t.Name) == "gnc:account" {
				if a.guid == "" {
					return nil, fmt.Errorf("account %q has no id", a.name)
				}
				return a, nil
			}
		}
	}
}

func parseCommodity(dec *xml.Decoder, until string) (Commodity, error) {
	var c Commodity
	for {
		tok, err := dec.Token()
		if err != nil {
			return c, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch qname(t.Name) {
			case "cmdty:space":
				if c.Namespace, err = readText(dec); err != nil {
					return c, err
				}
			case "cmdty:id":
				if c.Mnemonic, err = readText(dec); err != nil {
					return c, err
				}
			case "cmdty:name":
				if c.Fullname, err = readText(dec); err != nil {
					return c, err
				}
			}
		case xml.EndElement:
			if qname(t.Name) == until {
				if c.Fullname == "" {
					c.Fullname = c.Mnemonic
				}
				return c, nil
			}
		}
	}
}

func (b *Book) parsePriceDB(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if qname(t.Name) == "price" {
				if err := b.parsePrice(dec); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if qname(t.Name) == "gnc:pricedb" {
				return nil
			}
		}
	}
}

func (b *Book) parsePrice(dec *xml.Decoder) error {
	var commodity, currency Commodity
	var value decimal.Decimal
	var at time.Time
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch qname(t.Name) {
			case "price:commodity":
				if commodity, err = parseCommodity(dec, "price:commodity"); err != nil {
					return err
				}
			case "price:currency":
				if currency, err = parseCommodity(dec, "price:currency"); err != nil {
					return err
				}
			case "ts:date":
				text, err := readText(dec)
				if err != nil {
					return err
				}
				if at, err = parseXMLTime(text); err != nil {
					return err
				}
			case "price:value":
				text, err := readText(dec)
				if err != nil {
					return err
				}
				if value, err = parseFraction(text); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if qname(t.Name) != "price" {
				continue
			}
			if at.IsZero() {
				return fmt.Errorf("price for %s has no timestamp", commodity.Mnemonic)
			}
			// Only USD prices of funds matter to valuation.
			if commodity.IsFund() && currency.Namespace == "CURRENCY" && currency.Mnemonic == "USD" {
				b.addPrice(Price{Commodity: commodity.Mnemonic, Value: value, Time: at})
			}
			return nil
		}
	}
}

func (b *Book) parseTransaction(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if qname(t.Name) == "trn:split" {
				if err := b.parseSplit(dec); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if qname(t.Name) == "gnc:transaction" {
				return nil
			}
		}
	}
}

// parseSplit accumulates a split's share quantity onto its account. Splits
// against non-investment accounts are ignored.
func (b *Book) parseSplit(dec *xml.Decoder) error {
	var guid, quantity string
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch qname(t.Name) {
			case "split:account":
				if guid, err = readText(dec); err != nil {
					return err
				}
			case "split:quantity":
				if quantity, err = readText(dec); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if qname(t.Name) != "trn:split" {
				continue
			}
			a, ok := b.accounts[guid]
			if !ok || quantity == "" {
				return nil
			}
			shares, err := parseFraction(quantity)
			if err != nil {
				return fmt.Errorf("split on account %q: %w", a.name, err)
			}
			a.shares = a.shares.Add(shares)
			return nil
		}
	}
}

func parseXMLTime(text string) (time.Time, error) {
	for _, format := range xmlTimeFormats {
		if at, err := time.Parse(format, text); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", text)
}
