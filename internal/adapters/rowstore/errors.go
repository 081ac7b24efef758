package rowstore

import "errors"

// Sentinel kinds for row store errors.
var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrTableNotFound = errors.New("table not found")
	ErrRowOutOfRange = errors.New("row index out of range")
	ErrUnavailable   = errors.New("row store unavailable")
)
