// Package mover holds the pure daily-mover arithmetic: percent change,
// winner selection and boundary rounding. No I/O, no side effects.
package mover

import (
	"errors"
	"math"
)

// ErrNoQuotes is returned by SelectWinner on an empty input.
var ErrNoQuotes = errors.New("no quotes to select a winner from")

// Change is one ticker's computed daily move.
type Change struct {
	Ticker        string
	PercentChange float64
	ClosingPrice  float64
}

// PercentChange computes the percentage change from open to close.
// Precondition: open != 0, enforced upstream by the market client.
func PercentChange(open, close float64) float64 {
	return ((close - open) / open) * 100
}

// SelectWinner returns the entry with the maximum absolute percent change.
// Ties are broken by first-encountered order, so the scan order of the
// input (the watchlist order) is the tie-break.
func SelectWinner(changes []Change) (Change, error) {
	if len(changes) == 0 {
		return Change{}, ErrNoQuotes
	}

	winner := changes[0]
	for _, c := range changes[1:] {
		if math.Abs(c.PercentChange) > math.Abs(winner.PercentChange) {
			winner = c
		}
	}
	return winner, nil
}

// Round rounds v to the given number of fractional digits.
func Round(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}
