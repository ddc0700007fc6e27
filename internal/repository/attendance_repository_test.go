package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/college-api/internal/models"
)

func TestInsertAttendance(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now()
	err := repo.Insert(context.Background(), &models.AttendanceRecord{
		ID:        "a1",
		StudentID: "s1",
		FacultyID: "f1",
		Date:      now,
		Period:    2,
		Subject:   "Mathematics",
		Status:    models.AttendanceStatusPresent,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAttendanceWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "faculty_id", "date", "period", "subject", "status", "created_at", "updated_at"}).
		AddRow("a1", "s1", "f1", now, 1, "Physics", string(models.AttendanceStatusPresent), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, faculty_id, date, period, subject, status, created_at, updated_at FROM attendance_records WHERE 1=1 AND student_id = $1 AND subject = $2 ORDER BY date DESC, period ASC LIMIT 50 OFFSET 0")).
		WithArgs("s1", "Physics").
		WillReturnRows(rows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records WHERE 1=1 AND student_id = $1 AND subject = $2")).
		WithArgs("s1", "Physics").
		WillReturnRows(countRows)

	records, total, err := repo.List(context.Background(), models.AttendanceFilter{
		StudentID: "s1",
		Subject:   "Physics",
	})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllForStudentOrdering(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "faculty_id", "date", "period", "subject", "status", "created_at", "updated_at"}).
		AddRow("a1", "s1", "f1", now.AddDate(0, 0, -1), 1, "Physics", string(models.AttendanceStatusAbsent), now, now).
		AddRow("a2", "s1", "f1", now, 1, "Physics", string(models.AttendanceStatusPresent), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_records WHERE student_id = $1 ORDER BY date ASC, period ASC")).
		WithArgs("s1").
		WillReturnRows(rows)

	records, err := repo.AllForStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.AttendanceStatusAbsent, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("UPDATE attendance_records SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.AttendanceStatusLeave, time.Now())
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
