package ledger

import "errors"

// Errors reported by ledger operations. Callers match them with errors.Is;
// the returned errors wrap these with details.
var (
	// ErrInvalidAmount means an amount is not a number or is negative.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidRate means an exchange rate is not a number or is not positive.
	ErrInvalidRate = errors.New("invalid exchange rate")
	// ErrInvalidSelection means a position is not an integer or is out of range.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrEmptyLedger means there is nothing to operate on.
	ErrEmptyLedger = errors.New("no expenses")
	// ErrStorageCorrupt means the ledger file exists but cannot be parsed.
	ErrStorageCorrupt = errors.New("ledger file is corrupt")
	// ErrStorageUnavailable means the ledger file cannot be read or written.
	ErrStorageUnavailable = errors.New("ledger file is unavailable")
)
