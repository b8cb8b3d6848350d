package service

import (
	"context"
	"fmt"

	"emergencyHub/internal/domain"
	"emergencyHub/pkg/e"
	"emergencyHub/pkg/validator"
)

const defaultStatsWindow = 60

type statsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.IncidentStats, error) {
	const op = "service.Stats.GetStats"

	if req.Minutes == 0 {
		req.Minutes = defaultStatsWindow
	}
	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return nil, err
	}

	reported, err := s.repo.CountReported(ctx, req.Minutes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := s.repo.CountUniqueUsers(ctx, req.Minutes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var active int64
	for status, n := range byStatus {
		if status.Active() {
			active += n
		}
	}

	return &domain.IncidentStats{
		Minutes:          req.Minutes,
		ReportedInWindow: reported,
		Active:           active,
		ByStatus:         byStatus,
		UniqueUsers:      users,
	}, nil
}
