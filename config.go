package staythecourse

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the user-facing configuration, read from a YAML file:
//
//	user:
//	  birthday: "1985-01-01"
//	gnucash:
//	  book: /path/to/database.gnucash
//	  format: sqlite3
//	  classifications: data/classified.csv
//	  update_quotes: false
//	targets:
//	  - {class: US Bonds, ratio: "0.10"}
//	  - {class: US Total Market, ratio: "0.90"}
//
// Explicit targets are optional; without them the core-four model derived
// from the user's age applies. Targets are declared as a list because their
// declaration order is the deterministic tie-break during allocation.
type Config struct {
	Birthday        time.Time
	Book            string
	Format          string // "sqlite3" or "xml"
	Classifications string
	UpdateQuotes    bool
	Targets         Targets // nil: derive from age via CoreFour
}

type rawConfig struct {
	User struct {
		Birthday string `yaml:"birthday"`
	} `yaml:"user"`
	GnuCash struct {
		Book            string `yaml:"book"`
		Format          string `yaml:"format"`
		Classifications string `yaml:"classifications"`
		UpdateQuotes    bool   `yaml:"update_quotes"`
	} `yaml:"gnucash"`
	Targets []struct {
		Class string `yaml:"class"`
		Ratio string `yaml:"ratio"`
	} `yaml:"targets"`
}

// DefaultConfig returns settings suitable for the bundled sample data.
func DefaultConfig() *Config {
	return &Config{
		Birthday:        time.Date(1985, time.January, 1, 0, 0, 0, 0, time.UTC),
		Book:            "example/sqlite3.gnucash",
		Format:          "sqlite3",
		Classifications: "data/classified.csv",
		UpdateQuotes:    false,
	}
}

// LoadConfig reads the configuration file, falling back to DefaultConfig
// when the file does not exist. Malformed content is a ConfigurationError.
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot parse %q: %v", path, err)}
	}

	c := DefaultConfig()
	if raw.User.Birthday != "" {
		c.Birthday, err = time.Parse("2006-01-02", raw.User.Birthday)
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid birthday %q", raw.User.Birthday)}
		}
	}
	if raw.GnuCash.Book != "" {
		c.Book = raw.GnuCash.Book
	}
	if raw.GnuCash.Format != "" {
		c.Format = raw.GnuCash.Format
	}
	if c.Format != "sqlite3" && c.Format != "xml" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unsupported book format %q", c.Format)}
	}
	if raw.GnuCash.Classifications != "" {
		c.Classifications = raw.GnuCash.Classifications
	}
	c.UpdateQuotes = raw.GnuCash.UpdateQuotes

	for _, t := range raw.Targets {
		ratio, err := decimal.NewFromString(t.Ratio)
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("asset class %q has unparseable target %q", t.Class, t.Ratio)}
		}
		c.Targets = append(c.Targets, Target{Class: t.Class, Ratio: ratio})
	}
	if c.Targets != nil {
		if err := c.Targets.Validate(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// TargetsFor resolves the effective target ratios: explicit configuration if
// present, otherwise the age-derived core-four model.
func (c *Config) TargetsFor(today time.Time) (Targets, error) {
	if c.Targets != nil {
		return c.Targets, nil
	}
	bonds, err := BondRatio(c.Birthday, 120, today)
	if err != nil {
		return nil, err
	}
	return CoreFour(bonds)
}
