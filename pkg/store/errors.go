package store

import "errors"

// Sentinel errors shared by all store implementations and the layers
// above them. The stores themselves follow the nil-for-missing
// convention on Get; these sentinels are raised by callers that
// require the record to exist.
var (
	// ErrMenuNotFound reports that no menu exists with the given ID.
	ErrMenuNotFound = errors.New("menu not found")

	// ErrItemNotFound reports that no menu item exists with the given ID.
	ErrItemNotFound = errors.New("menu item not found")
)
