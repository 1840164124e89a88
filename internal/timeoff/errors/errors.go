package errors

import "errors"

var (
	ErrNotFound = errors.New("time-off block not found")

	ErrInvalidID = errors.New("invalid time-off block ID format")

	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
