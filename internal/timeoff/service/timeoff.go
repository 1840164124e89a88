package service

import (
	"context"
	"errors"
	"sync"
	"time"

	timeofferrors "trimly/internal/timeoff/errors"
	"trimly/internal/timeoff/repository"
	"trimly/pkg/config"
	apperrors "trimly/pkg/errors"
	"trimly/pkg/model"
	"trimly/pkg/sanitizer"
)

type TimeOffService interface {
	Create(ctx context.Context, block *model.TimeOffBlock) error
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.TimeOffBlock, int64, error)
	GetInRange(ctx context.Context, from, to time.Time) ([]*model.TimeOffBlock, error)
	Delete(ctx context.Context, id string) error
}

type timeOffService struct {
	repo repository.TimeOffRepository
	cfg  *config.Config
}

func NewTimeOffService(repo repository.TimeOffRepository, cfg *config.Config) TimeOffService {
	return &timeOffService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *timeOffService) Create(ctx context.Context, block *model.TimeOffBlock) error {
	if block == nil {
		return apperrors.InvalidInput("Time-off payload cannot be empty")
	}
	if block.StartTime.IsZero() || block.EndTime.IsZero() {
		return apperrors.InvalidInput("start_time and end_time are required")
	}
	if !block.EndTime.After(block.StartTime) {
		return apperrors.InvalidInput(timeofferrors.ErrInvalidTimeRange.Error())
	}
	block.Reason = sanitizer.TrimAndNormalize(block.Reason)

	if err := s.repo.Create(ctx, block); err != nil {
		s.cfg.Log.Error("Failed to create time-off block", "error", err)
		return apperrors.Internal("Failed to create time-off block", err)
	}

	s.cfg.Log.Info("Time-off block created",
		"id", block.ID,
		"start_time", block.StartTime,
		"end_time", block.EndTime,
	)
	return nil
}

func (s *timeOffService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.TimeOffBlock, int64, error) {
	var count int64
	var blocks []*model.TimeOffBlock
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count time-off blocks", "error", errCount)
			errCount = apperrors.Internal("Failed to count time-off blocks", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		blocks, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list time-off blocks", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve time-off blocks", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return blocks, count, nil
}

func (s *timeOffService) GetInRange(ctx context.Context, from, to time.Time) ([]*model.TimeOffBlock, error) {
	if !to.After(from) {
		return nil, apperrors.InvalidInput("range end must be after range start")
	}

	blocks, err := s.repo.FindInRange(ctx, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to find time-off blocks in range", "error", err)
		return nil, apperrors.Internal("Failed to retrieve time-off blocks", err)
	}
	return blocks, nil
}

func (s *timeOffService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Time-off block ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, timeofferrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Time-off block", id)
		}
		if errors.Is(err, timeofferrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid time-off block ID format")
		}
		return apperrors.Internal("Failed to delete time-off block", err)
	}

	s.cfg.Log.Info("Time-off block deleted", "id", id)
	return nil
}
