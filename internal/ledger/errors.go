package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	// ErrValidation flags caller input rejected before any store call.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedRow flags a stored row missing required fields. LoadAll
	// skips and counts such rows instead of failing.
	ErrMalformedRow = errors.New("malformed row")

	// ErrNotFound signals a delete that matched no stored record. It is a
	// no-op outcome, not a failure.
	ErrNotFound = errors.New("record not found")

	// ErrBadDate flags an unparseable calendar date.
	ErrBadDate = errors.New("invalid date")
)
