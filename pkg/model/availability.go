package model

// Day availability statuses.
const (
	DayStatusOpen   = "open"
	DayStatusClosed = "closed"
)

// DayAvailability is the response body for an availability query.
// Slots holds bookable start times ("HH:MM", shop timezone), sorted
// ascending. A closed day carries an empty slice, never null.
type DayAvailability struct {
	Date   string   `json:"date"`
	Status string   `json:"status"`
	Slots  []string `json:"slots"`
}
