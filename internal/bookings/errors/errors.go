package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrTimeConflict = errors.New("booking time conflicts with existing booking")

	ErrInvalidTimeRange = errors.New("end time must be after start time")

	ErrInvalidTransition = errors.New("invalid booking status transition")

	ErrSlotLocked = errors.New("slot lock already held")
)
