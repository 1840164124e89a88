package errors

import "errors"

var (
	ErrNotFound = errors.New("availability rule not found")

	ErrInvalidID = errors.New("invalid availability rule ID format")

	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
