package model

import "time"

// AvailabilityRule describes a weekly recurring working-hours window.
// DayOfWeek follows time.Weekday numbering: 0 = Sunday through 6 = Saturday.
// StartTime and EndTime are wall-clock values ("HH:MM") in the shop timezone.
type AvailabilityRule struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DayOfWeek int       `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	StartTime string    `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime   string    `json:"end_time" bson:"end_time" validate:"required,hhmm"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// WeeklySchedule is the full replace payload for working hours.
type WeeklySchedule struct {
	Rules []AvailabilityRule `json:"rules" validate:"max=50,dive"`
}
