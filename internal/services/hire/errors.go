package hire

import "errors"

// ErrNotFound is returned by Store implementations when a record is absent.
var ErrNotFound = errors.New("record not found")

var (
	ErrBidNotFound         = errors.New("bid not found")
	ErrGigNotFound         = errors.New("associated gig not found")
	ErrBidAlreadyProcessed = errors.New("bid already processed")
	ErrNotGigOwner         = errors.New("only the gig owner can hire")
	ErrGigAlreadyAssigned  = errors.New("gig already assigned")
)
