package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/service"
	mock_service "emergencyHub/internal/service/mocks"
	"emergencyHub/pkg/e"
)

func TestStatsService_GetStats_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	repo.EXPECT().CountReported(gomock.Any(), 15).Return(int64(4), nil)
	repo.EXPECT().CountByStatus(gomock.Any()).Return(map[domain.Status]int64{
		domain.StatusReported: 2,
		domain.StatusAssigned: 1,
		domain.StatusResolved: 5,
		domain.StatusClosed:   3,
	}, nil)
	repo.EXPECT().CountUniqueUsers(gomock.Any(), 15).Return(int64(7), nil)

	svc := service.NewStatsService(repo)

	got, err := svc.GetStats(context.Background(), domain.StatsRequest{Minutes: 15})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Minutes != 15 || got.ReportedInWindow != 4 || got.Active != 3 || got.UniqueUsers != 7 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestStatsService_GetStats_DefaultWindow(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	repo.EXPECT().CountReported(gomock.Any(), 60).Return(int64(0), nil)
	repo.EXPECT().CountByStatus(gomock.Any()).Return(map[domain.Status]int64{}, nil)
	repo.EXPECT().CountUniqueUsers(gomock.Any(), 60).Return(int64(0), nil)

	got, err := service.NewStatsService(repo).GetStats(context.Background(), domain.StatsRequest{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Minutes != 60 {
		t.Fatalf("minutes=%d", got.Minutes)
	}
}

func TestStatsService_GetStats_WindowTooWide(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	repo.EXPECT().CountReported(gomock.Any(), gomock.Any()).Times(0)

	_, err := service.NewStatsService(repo).GetStats(context.Background(), domain.StatsRequest{Minutes: 2000})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestStatsService_GetStats_ErrorPropagated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	wantErr := errors.New("stats failed")
	repo.EXPECT().CountReported(gomock.Any(), 60).Return(int64(0), nil)
	repo.EXPECT().CountByStatus(gomock.Any()).Return(nil, wantErr)
	repo.EXPECT().CountUniqueUsers(gomock.Any(), gomock.Any()).Times(0)

	_, err := service.NewStatsService(repo).GetStats(context.Background(), domain.StatsRequest{Minutes: 60})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected err=%v got=%v", wantErr, err)
	}
}
