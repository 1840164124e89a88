package service

import (
	"context"
	"fmt"
	"time"

	"trimly/internal/workinghours/repository"
	"trimly/internal/workinghours/validator"
	"trimly/pkg/config"
	apperrors "trimly/pkg/errors"
	"trimly/pkg/model"
)

type RuleService interface {
	GetWeeklySchedule(ctx context.Context) (*model.WeeklySchedule, error)
	ReplaceWeeklySchedule(ctx context.Context, schedule *model.WeeklySchedule) error
	GetRulesForDay(ctx context.Context, dayOfWeek int) ([]*model.AvailabilityRule, error)
}

type ruleService struct {
	repo      repository.RuleRepository
	validator *validator.RuleValidator
	cfg       *config.Config
}

func NewRuleService(repo repository.RuleRepository, v *validator.RuleValidator, cfg *config.Config) RuleService {
	return &ruleService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *ruleService) GetWeeklySchedule(ctx context.Context) (*model.WeeklySchedule, error) {
	rules, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load weekly schedule", "error", err)
		return nil, apperrors.Internal("Failed to retrieve weekly schedule", err)
	}

	schedule := &model.WeeklySchedule{Rules: make([]model.AvailabilityRule, 0, len(rules))}
	for _, r := range rules {
		schedule.Rules = append(schedule.Rules, *r)
	}
	return schedule, nil
}

func (s *ruleService) ReplaceWeeklySchedule(ctx context.Context, schedule *model.WeeklySchedule) error {
	if schedule == nil {
		return apperrors.InvalidInput("Schedule payload cannot be empty")
	}

	s.normalize(schedule)
	if err := s.validator.ValidateSchedule(schedule); err != nil {
		s.cfg.Log.Warn("Weekly schedule validation failed", "error", err)
		return apperrors.Validation("Invalid weekly schedule", map[string]any{"error": err.Error()})
	}
	if err := s.checkSameDayOverlaps(schedule); err != nil {
		return err
	}

	rules := make([]*model.AvailabilityRule, 0, len(schedule.Rules))
	for i := range schedule.Rules {
		rules = append(rules, &schedule.Rules[i])
	}

	if err := s.repo.ReplaceAll(ctx, rules); err != nil {
		s.cfg.Log.Error("Failed to replace weekly schedule", "error", err)
		return apperrors.Internal("Failed to save weekly schedule", err)
	}

	s.cfg.Log.Info("Weekly schedule replaced", "rule_count", len(rules))
	return nil
}

func (s *ruleService) GetRulesForDay(ctx context.Context, dayOfWeek int) ([]*model.AvailabilityRule, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, apperrors.InvalidInput("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}

	rules, err := s.repo.FindByDayOfWeek(ctx, dayOfWeek)
	if err != nil {
		s.cfg.Log.Error("Failed to load rules for day", "day_of_week", dayOfWeek, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability rules", err)
	}
	return rules, nil
}

func (s *ruleService) normalize(schedule *model.WeeklySchedule) {
	for i := range schedule.Rules {
		schedule.Rules[i].StartTime = normalizeClock(schedule.Rules[i].StartTime)
		schedule.Rules[i].EndTime = normalizeClock(schedule.Rules[i].EndTime)
	}
}

// normalizeClock reformats parseable values so "9:00" and "09:00" store
// identically. Unparseable values pass through for the validator to report.
func normalizeClock(value string) string {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return value
	}
	return t.Format("15:04")
}

// checkSameDayOverlaps rejects schedules where two windows on the same day
// intersect, so a given wall-clock slot can never be generated twice.
func (s *ruleService) checkSameDayOverlaps(schedule *model.WeeklySchedule) error {
	for i := range schedule.Rules {
		for j := i + 1; j < len(schedule.Rules); j++ {
			a, b := schedule.Rules[i], schedule.Rules[j]
			if a.DayOfWeek != b.DayOfWeek {
				continue
			}
			if a.StartTime < b.EndTime && b.StartTime < a.EndTime {
				return apperrors.Conflict(fmt.Sprintf(
					"Rules for day %d overlap: %s-%s and %s-%s",
					a.DayOfWeek, a.StartTime, a.EndTime, b.StartTime, b.EndTime,
				))
			}
		}
	}
	return nil
}
