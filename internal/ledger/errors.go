package ledger

import "errors"

// Sentinel errors returned by the ledger service. Every method reports
// failures through these consistently; the HTTP layer maps each one to a
// status and a human-readable message exactly once.
var (
	// ErrNotFound covers user, account and transaction lookups. A record
	// owned by someone else is reported identically to one that does not
	// exist, so ownership never leaks.
	ErrNotFound = errors.New("record not found")

	// ErrValidation marks a malformed payload (non-positive amount, unknown
	// type or interval, missing category).
	ErrValidation = errors.New("invalid input")
)
