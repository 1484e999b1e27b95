package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/repositories"
)

const recentActivityLimit = 10

type dashboardService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetSummary returns the creator's aggregate stats plus their most recently
// answered surveys.
func (s *dashboardService) GetSummary(ctx context.Context, ownerID string) (*DashboardSummary, error) {
	stats, err := s.repo.Dashboard().GetCreatorStats(ctx, s.db, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator stats: %w", err)
	}

	activity, err := s.repo.Dashboard().GetRecentActivity(ctx, s.db, ownerID, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}

	return &DashboardSummary{
		Stats:    stats,
		Activity: activity,
	}, nil
}
