package config

// Booking lifecycle statuses. A booking blocks calendar time only while it
// is in an occupying status; requested bookings and terminal rejections do
// not reserve the slot.
const (
	StatusRequested = "requested"
	StatusAccepted  = "accepted"
	StatusConfirmed = "confirmed"
	StatusArrived   = "arrived"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
	StatusCancelled = "cancelled"
	StatusDeclined  = "declined"
)

// OccupyingStatuses returns the statuses that reserve calendar time.
func OccupyingStatuses() []string {
	return []string{
		StatusAccepted,
		StatusConfirmed,
		StatusArrived,
		StatusCompleted,
		StatusNoShow,
	}
}

// IsOccupying reports whether a booking in the given status blocks its slot.
func IsOccupying(status string) bool {
	switch status {
	case StatusAccepted, StatusConfirmed, StatusArrived, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether a booking can no longer change status.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusNoShow, StatusCancelled, StatusDeclined:
		return true
	}
	return false
}
