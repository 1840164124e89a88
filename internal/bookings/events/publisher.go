package events

import (
	"context"
	"time"

	"trimly/pkg/kafka"
	"trimly/pkg/logger"
	"trimly/pkg/model"
)

// Event types emitted on the booking lifecycle topic.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingUpdated       = "booking.updated"

	Topic    = "trimly.bookings"
	DLQTopic = "trimly.bookings.dlq"

	schemaVersion = "1"
	source        = "bookings-service"
)

// BookingEvent is the payload published for every lifecycle change.
type BookingEvent struct {
	BookingID      string    `json:"booking_id"`
	CustomerName   string    `json:"customer_name"`
	ServiceLabel   string    `json:"service_label"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, eventType string, event BookingEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"error", err,
		)
		return err
	}

	p.log.Debug("Booking event published",
		"event_type", eventType,
		"booking_id", event.BookingID,
		"event_id", msg.GetEventID(),
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher drops events. Used when Kafka is disabled.
type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, eventType string, event BookingEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

// FromBooking builds the event payload for a booking's current state.
func FromBooking(b *model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:    b.ID,
		CustomerName: b.CustomerName,
		ServiceLabel: b.ServiceLabel,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       b.Status,
		OccurredAt:   time.Now(),
	}
}
