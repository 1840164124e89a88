package kafka

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type testPayload struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

func TestMessageBuilder_RoundTrip(t *testing.T) {
	payload := testPayload{BookingID: "abc123", Status: "accepted"}

	msg := NewMessage().
		WithKey(payload.BookingID).
		WithValue(payload).
		WithEventType("booking.status_changed").
		WithSchemaVersion("1").
		WithSource("bookings-service").
		Build()

	if msg.Key != "abc123" {
		t.Errorf("expected key abc123, got %q", msg.Key)
	}
	if msg.GetEventType() != "booking.status_changed" {
		t.Errorf("unexpected event type %q", msg.GetEventType())
	}
	if _, err := uuid.Parse(msg.GetEventID()); err != nil {
		t.Errorf("expected generated event ID to be a UUID, got %q", msg.GetEventID())
	}
	if v, ok := msg.GetHeader(HeaderSchemaVersion); !ok || v != "1" {
		t.Errorf("expected schema-version header 1, got %q (present=%v)", v, ok)
	}
	if ts, ok := msg.GetHeader(HeaderTimestamp); !ok {
		t.Error("expected timestamp header to be set")
	} else if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp header %q is not RFC3339: %v", ts, err)
	}

	var decoded testPayload
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatalf("failed to decode value: %v", err)
	}
	if decoded != payload {
		t.Errorf("expected %+v after round trip, got %+v", payload, decoded)
	}
}

func TestMessageBuilder_KeepsExplicitEventID(t *testing.T) {
	want := uuid.New().String()
	msg := NewMessage().
		WithKey("abc123").
		WithValue(testPayload{BookingID: "abc123"}).
		WithHeader(HeaderEventID, want).
		Build()

	if msg.GetEventID() != want {
		t.Errorf("expected event ID %q to be preserved, got %q", want, msg.GetEventID())
	}
}
