package model

import (
	"time"
)

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName  string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string    `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	ServiceLabel  string    `json:"service_label" bson:"service_label" validate:"required,min=2,max=100"`
	StartTime     time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=requested accepted confirmed arrived completed no_show cancelled declined"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BookingUpdate struct {
	ServiceLabel string     `json:"service_label,omitempty" validate:"omitempty,min=2,max=100"`
	StartTime    *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty" validate:"omitempty,gtfield=StartTime"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// StatusChange is the payload for booking status transitions.
type StatusChange struct {
	Status string `json:"status" validate:"required,oneof=requested accepted confirmed arrived completed no_show cancelled declined"`
}
