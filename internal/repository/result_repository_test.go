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

func TestInsertResult(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec("INSERT INTO results").
		WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now()
	err := repo.Insert(context.Background(), &models.Result{
		ID:            "r1",
		StudentID:     "s1",
		FacultyID:     "f1",
		Subject:       "Chemistry",
		TestType:      models.TestTypeClassTest,
		TestDate:      now,
		MarksObtained: 42,
		TotalMarks:    50,
		Percentage:    84,
		Grade:         "A",
		Semester:      3,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListResultsBySemester(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "faculty_id", "subject", "test_type", "test_date", "marks_obtained", "total_marks", "percentage", "grade", "semester", "created_at", "updated_at"}).
		AddRow("r1", "s1", "f1", "Chemistry", string(models.TestTypeSemesterExam), now, 81.0, 100.0, 81.0, "A", 3, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM results WHERE 1=1 AND student_id = $1 AND semester = $2 ORDER BY test_date DESC LIMIT 50 OFFSET 0")).
		WithArgs("s1", 3).
		WillReturnRows(rows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM results WHERE 1=1 AND student_id = $1 AND semester = $2")).
		WithArgs("s1", 3).
		WillReturnRows(countRows)

	semester := 3
	results, total, err := repo.List(context.Background(), models.ResultFilter{
		StudentID: "s1",
		Semester:  &semester,
	})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "A", results[0].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMarksMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec("UPDATE results").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMarks(context.Background(), &models.Result{ID: "missing", UpdatedAt: time.Now()})
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
