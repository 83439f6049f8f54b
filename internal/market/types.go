package market

import "errors"

// Quote is the daily open/close bar for a single ticker. It is transient:
// the calculator consumes it and it is never persisted.
type Quote struct {
	Ticker string
	Open   float64
	Close  float64
}

// Sentinel errors describing why no usable quote was returned. All of them
// mean "absent" to the ingestion pipeline; they differ only in cause.
var (
	// ErrNoData means the API returned an empty result set, typically
	// because the market was closed on the requested date.
	ErrNoData = errors.New("no data for trade date")

	// ErrBadQuote means the bar came back without open/close, or with a
	// zero open price that makes percent change incomputable.
	ErrBadQuote = errors.New("unusable quote")

	// ErrUnexpectedStatus means the API answered with a status that is
	// treated as non-transient (anything outside 200/429/5xx-retryable).
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrRetryExhausted means every attempt in the budget failed with a
	// transient condition.
	ErrRetryExhausted = errors.New("retry budget exhausted")
)
