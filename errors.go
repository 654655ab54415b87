package staythecourse

import "fmt"

// The engine refuses to run on bad input rather than guessing: every error
// below is fatal for the request that produced it, and each carries the
// offending identifier so the caller can act on it.

// ConfigurationError reports target ratios that do not describe a valid
// portfolio: they do not sum to 1 within tolerance, or a class has a
// negative target.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid target configuration: " + e.Reason
}

// ClassificationError reports a fund whose declared asset class is not among
// the configured classes. The fund's value is never silently dropped from
// the totals; the whole aggregation fails instead.
type ClassificationError struct {
	Ticker string
	Class  string
}

func (e *ClassificationError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("fund %q has no known asset class", e.Ticker)
	}
	return fmt.Sprintf("fund %q declares asset class %q which is not configured", e.Ticker, e.Class)
}

// InsufficientHoldingsError reports a withdrawal larger than what is held.
// No partial withdrawal is computed.
type InsufficientHoldingsError struct {
	Requested Money // absolute amount asked for
	Held      Money // what the eligible classes hold
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("cannot withdraw %s: only %s held", e.Requested, e.Held)
}

// DataError reports a fund record with a negative share count or price.
// Clamping to zero would mask upstream data corruption, so the engine
// refuses the record outright.
type DataError struct {
	Ticker string
	Field  string
	Value  string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("fund %q has invalid %s %s", e.Ticker, e.Field, e.Value)
}
