package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "trimly/internal/bookings/errors"
	"trimly/internal/bookings/events"
	"trimly/internal/bookings/repository"
	"trimly/internal/bookings/validator"
	"trimly/pkg/config"
	apperrors "trimly/pkg/errors"
	"trimly/pkg/model"
	"trimly/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// allowedTransitions maps each status to the statuses a booking may move to.
// Terminal statuses have no entries and can never change.
var allowedTransitions = map[string][]string{
	config.StatusRequested: {config.StatusAccepted, config.StatusDeclined, config.StatusCancelled},
	config.StatusAccepted:  {config.StatusConfirmed, config.StatusCancelled, config.StatusNoShow},
	config.StatusConfirmed: {config.StatusArrived, config.StatusCancelled, config.StatusNoShow},
	config.StatusArrived:   {config.StatusCompleted},
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) error
	ChangeStatus(ctx context.Context, id string, status string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	v *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: v,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	// Acquire advisory lock to prevent race conditions
	lockID, err := s.acquireSlotLock(ctx, booking.StartTime)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.publish(ctx, events.EventBookingCreated, events.FromBooking(booking), "")

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"customer_name", booking.CustomerName,
		"start_time", booking.StartTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}
	if config.IsTerminal(existing.Status) {
		return apperrors.Conflict(fmt.Sprintf("Booking in status %q can no longer be modified", existing.Status))
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, merged); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return err
	}

	s.publish(ctx, events.EventBookingUpdated, events.FromBooking(merged), "")

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return nil
}

// ChangeStatus moves a booking along its lifecycle. A transition into an
// occupying status re-verifies the slot, since requested bookings do not
// reserve time and another booking may have taken it meanwhile.
func (s *bookingService) ChangeStatus(ctx context.Context, id string, status string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusChange(&model.StatusChange{Status: status}); err != nil {
		return apperrors.Validation("Invalid status", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if !transitionAllowed(existing.Status, status) {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot transition booking from %q to %q", existing.Status, status,
		))
	}

	becomesOccupying := !config.IsOccupying(existing.Status) && config.IsOccupying(status)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if becomesOccupying {
			candidate := *existing
			candidate.Status = status
			if err := s.verifyNoConflict(sessCtx, &candidate); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateStatus(sessCtx, id, status); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to change booking status", "id", id, "status", status, "error", err)
		return err
	}

	event := events.FromBooking(existing)
	event.Status = status
	s.publish(ctx, events.EventBookingStatusChanged, event, existing.Status)

	s.cfg.Log.Info("Booking status changed",
		"id", id,
		"from", existing.Status,
		"to", status,
	)
	return nil
}

// --- Helpers ---

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.ServiceLabel = sanitizer.NormalizeLabel(b.ServiceLabel)
	b.Notes = sanitizer.TrimAndNormalize(b.Notes)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = config.StatusRequested
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.ServiceLabel != "" {
		merged.ServiceLabel = updates.ServiceLabel
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyNoConflict rejects the booking when it lands within the buffer
// distance of any occupying booking. The fetch range is widened by the
// buffer so bookings just outside the candidate interval are still seen.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	buffer := s.cfg.BookingBuffer()
	from := booking.StartTime.Add(-buffer)
	to := booking.EndTime.Add(buffer)

	existing, err := s.repo.FindOccupyingInRange(ctx, from, to)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if overlaps(b.StartTime.Add(-buffer), b.EndTime.Add(buffer), booking.StartTime, booking.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"Booking time conflicts with an existing booking (%s - %s)",
				b.StartTime.Format(time.RFC3339),
				b.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// overlaps reports intersection of the half-open intervals [start1, end1)
// and [start2, end2).
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// publish sends a lifecycle event; delivery failures are logged, never
// surfaced, since the booking write already committed.
func (s *bookingService) publish(ctx context.Context, eventType string, event events.BookingEvent, previousStatus string) {
	event.PreviousStatus = previousStatus
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

// slotLockTTL bounds how long a crashed request can keep a slot reserved.
const slotLockTTL = 10 * time.Second

// acquireSlotLock serializes creation attempts for the same start slot.
func (s *bookingService) acquireSlotLock(ctx context.Context, startTime time.Time) (string, error) {
	lockID := fmt.Sprintf("slot_%d", startTime.Unix())

	if err := s.lockRepo.Acquire(ctx, lockID, slotLockTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotLocked) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Release(ctx, lockID)
}
