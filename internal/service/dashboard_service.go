package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/config"
	"github.com/inkwell-edu/inkwell-backend/internal/repository"
)

// PlagiarismFlagThreshold marks submissions whose similarity score is
// high enough to warrant manual review.
const PlagiarismFlagThreshold = 0.85

const dashboardCacheTTL = 30 * time.Second

// DashboardSummary aggregates a staff member's exam activity.
type DashboardSummary struct {
	TotalExams       int `json:"total_exams"`
	TotalSubmissions int `json:"total_submissions"`
	Ungraded         int `json:"ungraded"`
	Flagged          int `json:"flagged"`
}

// DashboardService serves cached summary counts for staff dashboards.
type DashboardService struct {
	dashRepo *repository.DashboardRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(dashRepo *repository.DashboardRepository, rdb *redis.Client, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		dashRepo: dashRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetSummary returns dashboard counts for a staff member, cached briefly
// in Redis so repeated dashboard loads do not hammer the aggregate query.
func (s *DashboardService) GetSummary(ctx context.Context, staffID int) (*DashboardSummary, error) {
	cacheKey := config.CacheKey.StaffDashboardKey(staffID)

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		var summary DashboardSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("dashboard cache read failed")
	}

	totalExams, totalSubmissions, ungraded, flagged, err := s.dashRepo.GetSummaryCounts(ctx, staffID, PlagiarismFlagThreshold)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalExams:       totalExams,
		TotalSubmissions: totalSubmissions,
		Ungraded:         ungraded,
		Flagged:          flagged,
	}

	if data, err := json.Marshal(summary); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, data, dashboardCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}

	return summary, nil
}
