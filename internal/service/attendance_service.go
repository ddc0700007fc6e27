package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
	"github.com/campushub/college-api/pkg/database"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

const constraintAttendanceSlot = "attendance_records_student_id_date_period_key"

type attendanceRepository interface {
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus, updatedAt time.Time) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	AllForStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
	DayReport(ctx context.Context, date time.Time) ([]models.ClassDayReportRow, error)
	Delete(ctx context.Context, id string) error
}

// MarkAttendanceRequest is the payload for recording one observation. Date
// arrives in the date-only wire form.
type MarkAttendanceRequest struct {
	StudentID string                  `json:"student_id" validate:"required"`
	Date      models.Date             `json:"date" validate:"required"`
	Period    int                     `json:"period" validate:"required,min=1,max=12"`
	Subject   string                  `json:"subject" validate:"required,min=1,max=100"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
}

// AttendanceService records observations and serves recomputed rollups.
type AttendanceService struct {
	repo      attendanceRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Mark records one observation attributed to recordedBy. The slot unique
// index rejects a second record for the same (student, date, period).
func (s *AttendanceService) Mark(ctx context.Context, recordedBy string, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if recordedBy == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "recording principal is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown attendance status %q", req.Status))
	}

	now := time.Now().UTC()
	record := &models.AttendanceRecord{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		FacultyID: recordedBy,
		Date:      truncateToDay(req.Date.Time),
		Period:    req.Period,
		Subject:   req.Subject,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		if database.IsUniqueViolation(err, constraintAttendanceSlot) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateAttendance, "attendance already marked for this period")
		}
		return nil, wrapStorage(err, "failed to record attendance")
	}

	s.invalidateStats(ctx, record.StudentID)
	return record, nil
}

// UpdateStatus corrects an existing observation.
func (s *AttendanceService) UpdateStatus(ctx context.Context, id string, studentID string, status models.AttendanceStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown attendance status %q", status))
	}
	if err := s.repo.UpdateStatus(ctx, id, status, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return wrapStorage(err, "failed to update attendance")
	}
	s.invalidateStats(ctx, studentID)
	return nil
}

// List returns attendance rows matching the filter.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, wrapStorage(err, "failed to list attendance")
	}
	return records, total, nil
}

// Stats returns the recomputed rollup for one student, served through the
// cache when warm.
func (s *AttendanceService) Stats(ctx context.Context, studentID string) (*models.AttendanceStats, error) {
	key := attendanceStatsKey(studentID)
	if s.cache != nil {
		var cached models.AttendanceStats
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	records, err := s.repo.AllForStudent(ctx, studentID)
	if err != nil {
		return nil, wrapStorage(err, "failed to load attendance history")
	}

	stats := AggregateAttendance(studentID, records, time.Now().UTC())
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, 0); err != nil {
			s.logger.Warn("failed to cache attendance stats", zap.Error(err))
		}
	}
	return stats, nil
}

// DayReport returns all observations for one calendar day with student names.
func (s *AttendanceService) DayReport(ctx context.Context, date time.Time) ([]models.ClassDayReportRow, error) {
	rows, err := s.repo.DayReport(ctx, truncateToDay(date))
	if err != nil {
		return nil, wrapStorage(err, "failed to build day report")
	}
	return rows, nil
}

// Delete removes one observation.
func (s *AttendanceService) Delete(ctx context.Context, id string, studentID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return wrapStorage(err, "failed to delete attendance")
	}
	s.invalidateStats(ctx, studentID)
	return nil
}

func (s *AttendanceService) invalidateStats(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, attendanceStatsKey(studentID)); err != nil {
		s.logger.Warn("failed to invalidate attendance cache",
			zap.String("student_id", studentID), zap.Error(err))
	}
}

func attendanceStatsKey(studentID string) string {
	return "attendance:stats:" + studentID
}

// AggregateAttendance recomputes the full rollup from the record set. The
// day/week/month windows count every record whose date falls inside them,
// whatever its status; only attendedClasses filters by present. A student
// with no records has a percentage of 0, not NaN.
func AggregateAttendance(studentID string, records []models.AttendanceRecord, now time.Time) *models.AttendanceStats {
	type bucket struct {
		daily    int
		weekly   int
		monthly  int
		total    int
		attended int
	}

	nowYear, nowWeek := now.ISOWeek()
	today := truncateToDay(now)

	subjects := make(map[string]*bucket)
	overall := &bucket{}

	for _, rec := range records {
		b := subjects[rec.Subject]
		if b == nil {
			b = &bucket{}
			subjects[rec.Subject] = b
		}

		recYear, recWeek := rec.Date.ISOWeek()
		sameDay := truncateToDay(rec.Date).Equal(today)
		sameWeek := recYear == nowYear && recWeek == nowWeek
		sameMonth := rec.Date.Year() == now.Year() && rec.Date.Month() == now.Month()
		attended := rec.Status == models.AttendanceStatusPresent

		for _, target := range []*bucket{b, overall} {
			target.total++
			if sameDay {
				target.daily++
			}
			if sameWeek {
				target.weekly++
			}
			if sameMonth {
				target.monthly++
			}
			if attended {
				target.attended++
			}
		}
	}

	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := &models.AttendanceStats{
		StudentID: studentID,
		Subjects:  make([]models.SubjectAttendanceStats, 0, len(names)),
	}
	for _, name := range names {
		b := subjects[name]
		stats.Subjects = append(stats.Subjects, models.SubjectAttendanceStats{
			Subject:         name,
			DailyCount:      b.daily,
			WeeklyCount:     b.weekly,
			MonthlyCount:    b.monthly,
			TotalClasses:    b.total,
			AttendedClasses: b.attended,
			Percentage:      percentage(b.attended, b.total),
		})
	}
	stats.Overall = models.OverallAttendanceStats{
		DailyCount:        overall.daily,
		WeeklyCount:       overall.weekly,
		MonthlyCount:      overall.monthly,
		TotalClasses:      overall.total,
		AttendedClasses:   overall.attended,
		AveragePercentage: percentage(overall.attended, overall.total),
	}
	return stats
}

func percentage(attended, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(attended) / float64(total) * 100
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
