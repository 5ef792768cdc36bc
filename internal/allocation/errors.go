// Package allocation gates every creation of a capacity-bounded child
// entity. Capacity limits are expressed as "current count vs. ceiling"
// rather than a decrementing counter: the child sets are small (<= 100)
// and the limits are business rules, not scarce shared resources. The
// checks are coupled to the insert at the storage layer so no entity is
// ever created past its declared bound, even under concurrent writers.
package allocation

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when a category or item is already at
// its declared ceiling. This is an expected, user-facing condition; the
// caller should render an actionable message, not a failure page.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrMissingDetails is returned when an item requires claim details and
// the trimmed details are empty.
var ErrMissingDetails = errors.New("item details are required")

// ValidationError reports a field that violated a length or range
// constraint on input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
