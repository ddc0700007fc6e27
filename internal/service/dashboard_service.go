package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
)

const dashboardStatsKey = "dashboard:system"

type dashboardCounters interface {
	StudentCount(ctx context.Context) (int, error)
	FacultyCount(ctx context.Context) (int, error)
	PendingFeeStats(ctx context.Context) (int, float64, error)
	PendingLeaveCount(ctx context.Context) (int, error)
	RecentRegistrationCount(ctx context.Context, since time.Time) (int, error)
	UpcomingEventCount(ctx context.Context, from time.Time) (int, error)
}

// DashboardService composes system-wide counters for the admin dashboard.
type DashboardService struct {
	counters dashboardCounters
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(counters dashboardCounters, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{counters: counters, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// SystemStats returns the admin dashboard counters, cached briefly so a
// dashboard poll never fans out to six count queries per refresh.
func (s *DashboardService) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	if s.cache != nil {
		var cached models.SystemStats
		if hit, err := s.cache.Get(ctx, dashboardStatsKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	now := time.Now().UTC()
	stats := &models.SystemStats{}

	var err error
	if stats.TotalStudents, err = s.counters.StudentCount(ctx); err != nil {
		return nil, wrapStorage(err, "failed to count students")
	}
	if stats.TotalFaculty, err = s.counters.FacultyCount(ctx); err != nil {
		return nil, wrapStorage(err, "failed to count faculty")
	}
	if stats.PendingFees, stats.PendingFeeAmount, err = s.counters.PendingFeeStats(ctx); err != nil {
		return nil, wrapStorage(err, "failed to compute fee stats")
	}
	if stats.PendingLeaves, err = s.counters.PendingLeaveCount(ctx); err != nil {
		return nil, wrapStorage(err, "failed to count pending leaves")
	}
	if stats.RecentRegistrations, err = s.counters.RecentRegistrationCount(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, wrapStorage(err, "failed to count registrations")
	}
	if stats.UpcomingEvents, err = s.counters.UpcomingEventCount(ctx, now); err != nil {
		return nil, wrapStorage(err, "failed to count events")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardStatsKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
		}
	}
	return stats, nil
}

// DashboardCounters adapts the concrete repositories to the counter surface
// the dashboard needs.
type DashboardCounters struct {
	Students interface {
		Count(ctx context.Context) (int, error)
	}
	Faculty interface {
		Count(ctx context.Context) (int, error)
	}
	Fees interface {
		PendingStats(ctx context.Context) (int, float64, error)
	}
	Calendar interface {
		CountLeavesByStatus(ctx context.Context, status models.LeaveStatus) (int, error)
		CountUpcomingEvents(ctx context.Context, from time.Time) (int, error)
	}
	Accounts interface {
		CountCreatedSince(ctx context.Context, cutoff time.Time) (int, error)
	}
}

// StudentCount returns the number of student profiles.
func (c DashboardCounters) StudentCount(ctx context.Context) (int, error) {
	return c.Students.Count(ctx)
}

// FacultyCount returns the number of faculty profiles.
func (c DashboardCounters) FacultyCount(ctx context.Context) (int, error) {
	return c.Faculty.Count(ctx)
}

// PendingFeeStats returns the unpaid fee count and outstanding amount.
func (c DashboardCounters) PendingFeeStats(ctx context.Context) (int, float64, error) {
	return c.Fees.PendingStats(ctx)
}

// PendingLeaveCount returns the size of the leave review queue.
func (c DashboardCounters) PendingLeaveCount(ctx context.Context) (int, error) {
	return c.Calendar.CountLeavesByStatus(ctx, models.LeaveStatusPending)
}

// RecentRegistrationCount counts accounts created at or after the cutoff.
func (c DashboardCounters) RecentRegistrationCount(ctx context.Context, since time.Time) (int, error) {
	return c.Accounts.CountCreatedSince(ctx, since)
}

// UpcomingEventCount counts events on or after the given date.
func (c DashboardCounters) UpcomingEventCount(ctx context.Context, from time.Time) (int, error) {
	return c.Calendar.CountUpcomingEvents(ctx, from)
}
