package service

import (
	"context"
	"fmt"
	"time"

	"trimly/internal/availability/engine"
	"trimly/pkg/config"
	apperrors "trimly/pkg/errors"
	"trimly/pkg/model"
)

// RuleSource yields the recurring working-hours rules for a weekday.
type RuleSource interface {
	FindByDayOfWeek(ctx context.Context, dayOfWeek int) ([]*model.AvailabilityRule, error)
}

// BookingSource yields occupying bookings intersecting [from, to).
type BookingSource interface {
	FindOccupyingInRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

// TimeOffSource yields time-off blocks intersecting [from, to).
type TimeOffSource interface {
	FindInRange(ctx context.Context, from, to time.Time) ([]*model.TimeOffBlock, error)
}

type AvailabilityService interface {
	GetDayAvailability(ctx context.Context, date string, durationMin int, operatorView bool) (*model.DayAvailability, error)
}

type availabilityService struct {
	rules    RuleSource
	bookings BookingSource
	timeOff  TimeOffSource
	cfg      *config.Config
	nowFn    func() time.Time
}

func NewAvailabilityService(rules RuleSource, bookings BookingSource, timeOff TimeOffSource, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		rules:    rules,
		bookings: bookings,
		timeOff:  timeOff,
		cfg:      cfg,
		nowFn:    time.Now,
	}
}

// GetDayAvailability computes the bookable start times for one calendar day
// in the shop timezone. With operatorView set, time-off blocks are ignored
// so staff can see and overbook blocked periods; bookings and the buffer
// still apply.
func (s *availabilityService) GetDayAvailability(ctx context.Context, date string, durationMin int, operatorView bool) (*model.DayAvailability, error) {
	loc := s.cfg.Location

	dayStart, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	// AddDate keeps wall-clock midnight, so DST days stay aligned.
	dayEnd := dayStart.AddDate(0, 0, 1)

	if durationMin <= 0 {
		return nil, apperrors.InvalidInput("duration must be a positive number of minutes")
	}
	if durationMin > s.cfg.MaxServiceDurationMin {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"duration cannot exceed %d minutes", s.cfg.MaxServiceDurationMin,
		))
	}
	duration := time.Duration(durationMin) * time.Minute

	rules, err := s.rules.FindByDayOfWeek(ctx, int(dayStart.Weekday()))
	if err != nil {
		s.cfg.Log.Error("Failed to load availability rules", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load availability rules", err)
	}
	if len(rules) == 0 {
		return &model.DayAvailability{
			Date:   date,
			Status: model.DayStatusClosed,
			Slots:  []string{},
		}, nil
	}

	windows, err := resolveWindows(rules, dayStart, loc)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve rule windows", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to resolve availability rules", err)
	}

	snapshot := engine.DaySnapshot{Windows: windows}

	// Widen the fetch by the buffer so a booking ending just before
	// midnight still pushes into the day's first slots.
	buffer := s.cfg.BookingBuffer()
	bookings, err := s.bookings.FindOccupyingInRange(ctx, dayStart.Add(-buffer), dayEnd.Add(buffer))
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}
	for _, b := range bookings {
		snapshot.Bookings = append(snapshot.Bookings, engine.Interval{Start: b.StartTime, End: b.EndTime})
	}

	if !operatorView {
		blocks, err := s.timeOff.FindInRange(ctx, dayStart, dayEnd)
		if err != nil {
			s.cfg.Log.Error("Failed to load time-off blocks for availability", "date", date, "error", err)
			return nil, apperrors.Internal("Failed to load time-off blocks", err)
		}
		for _, block := range blocks {
			snapshot.TimeOff = append(snapshot.TimeOff, engine.Interval{Start: block.StartTime, End: block.EndTime})
		}
	}

	policy := engine.Policy{
		Step:     s.cfg.SlotStep(),
		Buffer:   buffer,
		LeadTime: s.cfg.MinLeadTime(),
	}

	starts := engine.AvailableStarts(snapshot, duration, s.nowFn(), policy)

	slots := make([]string, 0, len(starts))
	for _, t := range starts {
		slots = append(slots, t.In(loc).Format("15:04"))
	}

	s.cfg.Log.Debug("Day availability computed",
		"date", date,
		"duration_min", durationMin,
		"operator_view", operatorView,
		"slot_count", len(slots),
	)

	return &model.DayAvailability{
		Date:   date,
		Status: model.DayStatusOpen,
		Slots:  slots,
	}, nil
}

// resolveWindows converts wall-clock rules to absolute intervals on the
// given day. Rules are validated at write time, so a parse failure here
// means the stored data is corrupt.
func resolveWindows(rules []*model.AvailabilityRule, dayStart time.Time, loc *time.Location) ([]engine.Interval, error) {
	windows := make([]engine.Interval, 0, len(rules))
	for _, rule := range rules {
		start, err := clockOnDay(rule.StartTime, dayStart, loc)
		if err != nil {
			return nil, fmt.Errorf("rule %s has invalid start time %q: %w", rule.ID, rule.StartTime, err)
		}
		end, err := clockOnDay(rule.EndTime, dayStart, loc)
		if err != nil {
			return nil, fmt.Errorf("rule %s has invalid end time %q: %w", rule.ID, rule.EndTime, err)
		}
		windows = append(windows, engine.Interval{Start: start, End: end})
	}
	return windows, nil
}

func clockOnDay(clock string, dayStart time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
