// Package staythecourse decides how to distribute a lump sum (a contribution
// or a withdrawal) across a set of investment asset classes so that, after
// the transaction, each class's share of the portfolio is as close as
// possible to its target share.
//
// The core pieces are:
//   - Portfolio: an immutable snapshot of per-class holdings built from fund
//     records and a set of target ratios.
//   - Allocate: the waterfall allocator. It fills the most underweight
//     class(es) first until they tie with the next, then fills the tied group
//     together, until the budget runs out. Withdrawals run the same process
//     from the overweight end.
//   - MinimumToEqualize: the smallest buy-only contribution that brings every
//     class to the level of the currently most overweight one.
//
// All monetary arithmetic is exact decimal; ratios become floating point only
// at the presentation boundary. The engine holds no state between calls: each
// allocation is a pure function of a snapshot and an amount, so it is safe to
// call repeatedly and concurrently on independent snapshots.
//
// This package is the foundation of the `stc` command-line tool, which reads
// holdings from a GnuCash book and prints the recommendation for a human to
// execute manually. The engine itself never mutates the book.
package staythecourse
