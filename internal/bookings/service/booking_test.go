package service

import (
	"context"
	"testing"
	"time"

	bookingserrors "trimly/internal/bookings/errors"
	"trimly/internal/bookings/events"
	"trimly/internal/bookings/repository"
	"trimly/internal/bookings/validator"
	"trimly/pkg/config"
	mongotx "trimly/pkg/db/mongo"
	apperrors "trimly/pkg/errors"
	"trimly/pkg/logger"
	"trimly/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockBookingRepository struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc      func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFunc        func(ctx context.Context) (int64, error)
	updateFunc       func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error)
	updateStatusFunc func(ctx context.Context, id string, status string) error
	findInRangeFunc  func(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "64a000000000000000000001"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) FindOccupyingInRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	if m.findInRangeFunc != nil {
		return m.findInRangeFunc(ctx, from, to)
	}
	return []*model.Booking{}, nil
}

// ExecuteTransaction runs the function directly; session semantics are not
// exercised in unit tests.
func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	acquireFunc func(ctx context.Context, slotKey string, ttl time.Duration) error
	releaseFunc func(ctx context.Context, slotKey string) error
}

func (m *mockLockRepository) Acquire(ctx context.Context, slotKey string, ttl time.Duration) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, slotKey, ttl)
	}
	return nil
}

func (m *mockLockRepository) Release(ctx context.Context, slotKey string) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, slotKey)
	}
	return nil
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, event events.BookingEvent) error {
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		BookingBufferMinutes: 15,
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.FormatText,
			AddSource: false,
			Service:   "test",
		}),
	}
}

func newTestService(repo repository.BookingRepository, lockRepo repository.SlotLockRepository, pub events.Publisher, cfg *config.Config) BookingService {
	return NewBookingService(
		repo,
		lockRepo,
		validator.NewBookingValidator(cfg.Log, 8*time.Hour),
		pub,
		cfg,
	)
}

func validBooking(start time.Time) *model.Booking {
	return &model.Booking{
		CustomerName:  "Dana Levi",
		CustomerPhone: "+12025550123",
		ServiceLabel:  "Haircut",
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
	}
}

func TestCreate_DefaultsToRequestedAndPublishes(t *testing.T) {
	cfg := testConfig()
	pub := &recordingPublisher{}
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, pub, cfg)

	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	booking := validBooking(start)

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != config.StatusRequested {
		t.Errorf("expected default status requested, got %s", booking.Status)
	}
	if len(pub.events) != 1 || pub.events[0] != events.EventBookingCreated {
		t.Errorf("expected one booking.created event, got %v", pub.events)
	}
}

func TestCreate_RejectsBufferedConflict(t *testing.T) {
	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	// Existing accepted booking 10:30-11:00; candidate 10:00-10:30 touches
	// it exactly, so the 15-minute buffer makes them collide.
	repo := &mockBookingRepository{
		findInRangeFunc: func(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:        "64a000000000000000000002",
				StartTime: start.Add(30 * time.Minute),
				EndTime:   start.Add(60 * time.Minute),
				Status:    config.StatusAccepted,
			}}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &recordingPublisher{}, testConfig())

	err := svc.Create(context.Background(), validBooking(start))
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
}

func TestCreate_AllowsBookingOutsideBuffer(t *testing.T) {
	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	// Existing booking 10:45-11:15: candidate 10:00-10:30 keeps exactly the
	// 15-minute gap, which is allowed.
	repo := &mockBookingRepository{
		findInRangeFunc: func(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:        "64a000000000000000000002",
				StartTime: start.Add(45 * time.Minute),
				EndTime:   start.Add(75 * time.Minute),
				Status:    config.StatusAccepted,
			}}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &recordingPublisher{}, testConfig())

	if err := svc.Create(context.Background(), validBooking(start)); err != nil {
		t.Fatalf("booking exactly at the buffer edge must be allowed: %v", err)
	}
}

func TestCreate_SlotLockContention(t *testing.T) {
	lockRepo := &mockLockRepository{
		acquireFunc: func(ctx context.Context, slotKey string, ttl time.Duration) error {
			return bookingserrors.ErrSlotLocked
		},
	}
	svc := newTestService(&mockBookingRepository{}, lockRepo, &recordingPublisher{}, testConfig())

	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	err := svc.Create(context.Background(), validBooking(start))
	if err == nil {
		t.Fatal("expected conflict while slot lock is held")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &recordingPublisher{}, testConfig())
	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{
			name:   "missing customer name",
			mutate: func(b *model.Booking) { b.CustomerName = "" },
		},
		{
			name:   "bad phone format",
			mutate: func(b *model.Booking) { b.CustomerPhone = "0525551234" },
		},
		{
			name:   "end before start",
			mutate: func(b *model.Booking) { b.EndTime = b.StartTime.Add(-time.Hour) },
		},
		{
			name:   "duration exceeds maximum",
			mutate: func(b *model.Booking) { b.EndTime = b.StartTime.Add(9 * time.Hour) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking(start)
			tt.mutate(booking)
			err := svc.Create(context.Background(), booking)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
				t.Errorf("expected validation code, got %s", appErr.Code)
			}
		})
	}
}

func TestChangeStatus_Lifecycle(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		to        string
		wantAllow bool
	}{
		{name: "requested to accepted", from: config.StatusRequested, to: config.StatusAccepted, wantAllow: true},
		{name: "requested to declined", from: config.StatusRequested, to: config.StatusDeclined, wantAllow: true},
		{name: "requested to completed skips lifecycle", from: config.StatusRequested, to: config.StatusCompleted, wantAllow: false},
		{name: "accepted to confirmed", from: config.StatusAccepted, to: config.StatusConfirmed, wantAllow: true},
		{name: "accepted to no_show", from: config.StatusAccepted, to: config.StatusNoShow, wantAllow: true},
		{name: "confirmed to arrived", from: config.StatusConfirmed, to: config.StatusArrived, wantAllow: true},
		{name: "arrived to completed", from: config.StatusArrived, to: config.StatusCompleted, wantAllow: true},
		{name: "arrived to cancelled", from: config.StatusArrived, to: config.StatusCancelled, wantAllow: false},
		{name: "completed is terminal", from: config.StatusCompleted, to: config.StatusAccepted, wantAllow: false},
		{name: "cancelled is terminal", from: config.StatusCancelled, to: config.StatusRequested, wantAllow: false},
		{name: "declined is terminal", from: config.StatusDeclined, to: config.StatusAccepted, wantAllow: false},
	}

	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking(start)
			booking.ID = "64a000000000000000000001"
			booking.Status = tt.from

			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					copied := *booking
					return &copied, nil
				},
			}
			pub := &recordingPublisher{}
			svc := newTestService(repo, &mockLockRepository{}, pub, testConfig())

			err := svc.ChangeStatus(context.Background(), booking.ID, tt.to)
			if tt.wantAllow && err != nil {
				t.Fatalf("expected transition to succeed: %v", err)
			}
			if !tt.wantAllow {
				if err == nil {
					t.Fatal("expected transition to be rejected")
				}
				if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
					t.Errorf("expected conflict code, got %s", appErr.Code)
				}
				return
			}
			if len(pub.events) != 1 || pub.events[0] != events.EventBookingStatusChanged {
				t.Errorf("expected one status_changed event, got %v", pub.events)
			}
		})
	}
}

func TestChangeStatus_AcceptReverifiesSlot(t *testing.T) {
	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	requested := validBooking(start)
	requested.ID = "64a000000000000000000001"
	requested.Status = config.StatusRequested

	// Another booking took the slot while this one sat in requested.
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copied := *requested
			return &copied, nil
		},
		findInRangeFunc: func(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:        "64a000000000000000000002",
				StartTime: start,
				EndTime:   start.Add(30 * time.Minute),
				Status:    config.StatusConfirmed,
			}}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &recordingPublisher{}, testConfig())

	err := svc.ChangeStatus(context.Background(), requested.ID, config.StatusAccepted)
	if err == nil {
		t.Fatal("expected conflict when the slot was taken meanwhile")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
}

func TestUpdate_TerminalBookingRejected(t *testing.T) {
	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	booking := validBooking(start)
	booking.ID = "64a000000000000000000001"
	booking.Status = config.StatusCompleted

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copied := *booking
			return &copied, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &recordingPublisher{}, testConfig())

	newStart := start.Add(time.Hour)
	err := svc.Update(context.Background(), booking.ID, &model.BookingUpdate{StartTime: &newStart})
	if err == nil {
		t.Fatal("expected error for terminal booking")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
}

func TestUpdate_RescheduleExcludesSelf(t *testing.T) {
	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	booking := validBooking(start)
	booking.ID = "64a000000000000000000001"
	booking.Status = config.StatusAccepted

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copied := *booking
			return &copied, nil
		},
		findInRangeFunc: func(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
			// The repository returns the booking itself; it must not
			// conflict with its own reschedule.
			copied := *booking
			return []*model.Booking{&copied}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &recordingPublisher{}, testConfig())

	newStart := start.Add(5 * time.Minute)
	newEnd := newStart.Add(30 * time.Minute)
	err := svc.Update(context.Background(), booking.ID, &model.BookingUpdate{StartTime: &newStart, EndTime: &newEnd})
	if err != nil {
		t.Fatalf("booking must not conflict with itself: %v", err)
	}
}
