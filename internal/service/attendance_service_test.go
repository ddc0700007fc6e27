package service

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records   []models.AttendanceRecord
	insertErr error
	inserted  []*models.AttendanceRecord
}

func (m *mockAttendanceRepo) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, record)
	return nil
}

func (m *mockAttendanceRepo) UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus, updatedAt time.Time) error {
	return nil
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	return m.records, len(m.records), nil
}

func (m *mockAttendanceRepo) AllForStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	return m.records, nil
}

func (m *mockAttendanceRepo) DayReport(ctx context.Context, date time.Time) ([]models.ClassDayReportRow, error) {
	return nil, nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func record(date time.Time, period int, subject string, status models.AttendanceStatus) models.AttendanceRecord {
	return models.AttendanceRecord{
		StudentID: "stu-1",
		FacultyID: "fac-1",
		Date:      date,
		Period:    period,
		Subject:   subject,
		Status:    status,
	}
}

func TestAttendanceServiceMark(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, nil, validator.New(), zap.NewNop())

	rec, err := svc.Mark(context.Background(), "fac-1", MarkAttendanceRequest{
		StudentID: "stu-1",
		Date:      models.NewDate(time.Date(2026, 8, 31, 11, 30, 0, 0, time.UTC)),
		Period:    3,
		Subject:   "Mathematics",
		Status:    models.AttendanceStatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "fac-1", rec.FacultyID)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), rec.Date)
	require.Len(t, repo.inserted, 1)
}

func TestAttendanceServiceMarkDuplicateSlot(t *testing.T) {
	repo := &mockAttendanceRepo{insertErr: &pq.Error{Code: "23505", Constraint: "attendance_records_student_id_date_period_key"}}
	svc := NewAttendanceService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Mark(context.Background(), "fac-1", MarkAttendanceRequest{
		StudentID: "stu-1",
		Date:      models.NewDate(time.Now()),
		Period:    3,
		Subject:   "Mathematics",
		Status:    models.AttendanceStatusPresent,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateAttendance.Code, appErr.Code)
}

func TestAttendanceServiceMarkStorageDown(t *testing.T) {
	repo := &mockAttendanceRepo{insertErr: driver.ErrBadConn}
	svc := NewAttendanceService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Mark(context.Background(), "fac-1", MarkAttendanceRequest{
		StudentID: "stu-1",
		Date:      models.NewDate(time.Now()),
		Period:    3,
		Subject:   "Mathematics",
		Status:    models.AttendanceStatusPresent,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrUnavailable.Status, appErr.Status)
}

func TestAttendanceServiceMarkInvalidStatus(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Mark(context.Background(), "fac-1", MarkAttendanceRequest{
		StudentID: "stu-1",
		Date:      models.NewDate(time.Now()),
		Period:    1,
		Subject:   "Mathematics",
		Status:    "tardy",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceServiceMarkMissingRecorder(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Mark(context.Background(), "", MarkAttendanceRequest{
		StudentID: "stu-1",
		Date:      models.NewDate(time.Now()),
		Period:    1,
		Subject:   "Mathematics",
		Status:    models.AttendanceStatusPresent,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.inserted)
}

func TestAggregateAttendanceEmptyHistory(t *testing.T) {
	stats := AggregateAttendance("stu-1", nil, time.Now().UTC())

	assert.Empty(t, stats.Subjects)
	assert.Equal(t, 0, stats.Overall.TotalClasses)
	assert.Equal(t, float64(0), stats.Overall.AveragePercentage)
}

func TestAggregateAttendanceWindows(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) // Tuesday
	records := []models.AttendanceRecord{
		// today
		record(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 1, "Physics", models.AttendanceStatusPresent),
		// same ISO week (Monday), different day
		record(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), 1, "Physics", models.AttendanceStatusPresent),
		// same month, different week
		record(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), 1, "Physics", models.AttendanceStatusAbsent),
		// previous month
		record(time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), 1, "Physics", models.AttendanceStatusPresent),
		// today again; window counts are status-blind
		record(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 2, "Physics", models.AttendanceStatusHoliday),
		record(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 3, "Physics", models.AttendanceStatusAbsent),
	}

	stats := AggregateAttendance("stu-1", records, now)
	require.Len(t, stats.Subjects, 1)
	physics := stats.Subjects[0]

	assert.Equal(t, 6, physics.TotalClasses)
	assert.Equal(t, 3, physics.AttendedClasses)
	assert.Equal(t, 3, physics.DailyCount)
	assert.Equal(t, 4, physics.WeeklyCount) // Aug 31 and the three Sep 1 rows share an ISO week
	assert.Equal(t, 4, physics.MonthlyCount)
	assert.InDelta(t, 50.0, physics.Percentage, 0.001)

	assert.Equal(t, 6, stats.Overall.TotalClasses)
	assert.InDelta(t, 50.0, stats.Overall.AveragePercentage, 0.001)
}

func TestAggregateAttendanceCountsEveryStatusInWindows(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		record(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 1, "Physics", models.AttendanceStatusAbsent),
		record(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 2, "Physics", models.AttendanceStatusHoliday),
	}

	stats := AggregateAttendance("stu-1", records, now)

	assert.Equal(t, 2, stats.Overall.DailyCount)
	assert.Equal(t, 2, stats.Overall.WeeklyCount)
	assert.Equal(t, 2, stats.Overall.MonthlyCount)
	assert.Equal(t, 2, stats.Overall.TotalClasses)
	assert.Equal(t, 0, stats.Overall.AttendedClasses)
	assert.Equal(t, float64(0), stats.Overall.AveragePercentage)
}

func TestAggregateAttendancePerSubject(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		record(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), 1, "Chemistry", models.AttendanceStatusPresent),
		record(time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), 1, "Chemistry", models.AttendanceStatusAbsent),
		record(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), 2, "Biology", models.AttendanceStatusPresent),
	}

	stats := AggregateAttendance("stu-1", records, now)
	require.Len(t, stats.Subjects, 2)

	// Sorted by subject name.
	assert.Equal(t, "Biology", stats.Subjects[0].Subject)
	assert.InDelta(t, 100.0, stats.Subjects[0].Percentage, 0.001)
	assert.Equal(t, "Chemistry", stats.Subjects[1].Subject)
	assert.InDelta(t, 50.0, stats.Subjects[1].Percentage, 0.001)

	assert.Equal(t, 3, stats.Overall.TotalClasses)
	assert.Equal(t, 2, stats.Overall.AttendedClasses)
}
