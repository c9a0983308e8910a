package services

import (
	"context"
	"fmt"
	"time"

	"studysync/internal/domain"
)

type analyticsService struct {
	sessionRepo    domain.SessionRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAnalyticsService creates an AnalyticsService over the session repository.
func NewAnalyticsService(sessionRepo domain.SessionRepository, timeout time.Duration) domain.AnalyticsService {
	return &analyticsService{
		sessionRepo:    sessionRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// GetUserAnalytics loads the viewer's sessions and derives the summary. The
// aggregation itself is pure; this method only supplies the snapshot.
func (s *analyticsService) GetUserAnalytics(ctx context.Context, viewerID string) (*domain.AnalyticsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sessions, err := s.sessionRepo.ListForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for analytics: %w", err)
	}
	return domain.Aggregate(sessions, viewerID, s.now()), nil
}
