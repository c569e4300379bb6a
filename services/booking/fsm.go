package booking

import "fundis/models"

var transitions = map[string]map[string]struct{}{
	models.BookingPending: {
		models.BookingConfirmed: {},
		models.BookingCancelled: {},
	},
	models.BookingConfirmed: {
		models.BookingInProgress: {},
		models.BookingCompleted:  {},
		models.BookingCancelled:  {},
	},
	models.BookingInProgress: {
		models.BookingCompleted: {},
		models.BookingCancelled: {},
	},
	models.BookingCompleted: {},
	models.BookingCancelled: {},
}

// CanTransition returns whether a booking may move from the current
// status to the target status. Same-status transitions are no-ops and
// always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// ValidStatus reports whether the value is a known booking status.
func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}
