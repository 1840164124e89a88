package service

import (
	"context"
	"testing"

	"trimly/internal/workinghours/validator"
	"trimly/pkg/config"
	mongotx "trimly/pkg/db/mongo"
	apperrors "trimly/pkg/errors"
	"trimly/pkg/logger"
	"trimly/pkg/model"
)

type mockRuleRepository struct {
	findAllFunc    func(ctx context.Context) ([]*model.AvailabilityRule, error)
	findByDayFunc  func(ctx context.Context, dayOfWeek int) ([]*model.AvailabilityRule, error)
	replaceAllFunc func(ctx context.Context, rules []*model.AvailabilityRule) error
}

func (m *mockRuleRepository) FindAll(ctx context.Context) ([]*model.AvailabilityRule, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.AvailabilityRule{}, nil
}

func (m *mockRuleRepository) FindByDayOfWeek(ctx context.Context, dayOfWeek int) ([]*model.AvailabilityRule, error) {
	if m.findByDayFunc != nil {
		return m.findByDayFunc(ctx, dayOfWeek)
	}
	return []*model.AvailabilityRule{}, nil
}

func (m *mockRuleRepository) ReplaceAll(ctx context.Context, rules []*model.AvailabilityRule) error {
	if m.replaceAllFunc != nil {
		return m.replaceAllFunc(ctx, rules)
	}
	return nil
}

func (m *mockRuleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.FormatText,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{Log: log}
}

func newTestService(repo *mockRuleRepository, cfg *config.Config) *ruleService {
	return &ruleService{
		repo:      repo,
		validator: validator.NewRuleValidator(cfg.Log),
		cfg:       cfg,
	}
}

func TestReplaceWeeklySchedule_Valid(t *testing.T) {
	cfg := testConfig()
	var saved []*model.AvailabilityRule
	repo := &mockRuleRepository{
		replaceAllFunc: func(ctx context.Context, rules []*model.AvailabilityRule) error {
			saved = rules
			return nil
		},
	}
	svc := newTestService(repo, cfg)

	schedule := &model.WeeklySchedule{Rules: []model.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 2, StartTime: "9:00", EndTime: "13:00"}, // unpadded hour is normalized
		{DayOfWeek: 2, StartTime: "14:00", EndTime: "18:00"},
	}}

	if err := svc.ReplaceWeeklySchedule(context.Background(), schedule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("expected 3 rules saved, got %d", len(saved))
	}
	if saved[1].StartTime != "09:00" {
		t.Errorf("expected normalized start time 09:00, got %s", saved[1].StartTime)
	}
}

func TestReplaceWeeklySchedule_RejectsInvertedWindow(t *testing.T) {
	svc := newTestService(&mockRuleRepository{}, testConfig())

	schedule := &model.WeeklySchedule{Rules: []model.AvailabilityRule{
		{DayOfWeek: 3, StartTime: "17:00", EndTime: "09:00"},
	}}

	err := svc.ReplaceWeeklySchedule(context.Background(), schedule)
	if err == nil {
		t.Fatal("expected validation error for inverted window")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestReplaceWeeklySchedule_RejectsBadClockFormat(t *testing.T) {
	svc := newTestService(&mockRuleRepository{}, testConfig())

	schedule := &model.WeeklySchedule{Rules: []model.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "25:00", EndTime: "26:00"},
	}}

	if err := svc.ReplaceWeeklySchedule(context.Background(), schedule); err == nil {
		t.Fatal("expected validation error for out-of-range clock value")
	}
}

func TestReplaceWeeklySchedule_RejectsSameDayOverlap(t *testing.T) {
	svc := newTestService(&mockRuleRepository{}, testConfig())

	schedule := &model.WeeklySchedule{Rules: []model.AvailabilityRule{
		{DayOfWeek: 5, StartTime: "09:00", EndTime: "13:00"},
		{DayOfWeek: 5, StartTime: "12:00", EndTime: "17:00"},
	}}

	err := svc.ReplaceWeeklySchedule(context.Background(), schedule)
	if err == nil {
		t.Fatal("expected conflict error for overlapping windows on the same day")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestReplaceWeeklySchedule_AllowsTouchingWindows(t *testing.T) {
	svc := newTestService(&mockRuleRepository{}, testConfig())

	schedule := &model.WeeklySchedule{Rules: []model.AvailabilityRule{
		{DayOfWeek: 5, StartTime: "09:00", EndTime: "13:00"},
		{DayOfWeek: 5, StartTime: "13:00", EndTime: "17:00"},
	}}

	if err := svc.ReplaceWeeklySchedule(context.Background(), schedule); err != nil {
		t.Fatalf("back-to-back windows must be accepted, got %v", err)
	}
}

func TestReplaceWeeklySchedule_EmptyScheduleClosesShop(t *testing.T) {
	called := false
	repo := &mockRuleRepository{
		replaceAllFunc: func(ctx context.Context, rules []*model.AvailabilityRule) error {
			called = true
			if len(rules) != 0 {
				t.Errorf("expected empty rule set, got %d", len(rules))
			}
			return nil
		},
	}
	svc := newTestService(repo, testConfig())

	if err := svc.ReplaceWeeklySchedule(context.Background(), &model.WeeklySchedule{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected ReplaceAll to be called")
	}
}

func TestGetRulesForDay_Bounds(t *testing.T) {
	svc := newTestService(&mockRuleRepository{}, testConfig())

	for _, day := range []int{-1, 7} {
		if _, err := svc.GetRulesForDay(context.Background(), day); err == nil {
			t.Errorf("expected error for day_of_week %d", day)
		}
	}

	rules, err := svc.GetRulesForDay(context.Background(), 0)
	if err != nil {
		t.Fatalf("Sunday (0) must be a valid day: %v", err)
	}
	if rules == nil {
		t.Error("expected empty slice, got nil")
	}
}
