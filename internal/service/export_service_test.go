package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
)

type mockStudentRepo struct {
	student *models.Student
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return m.student, nil
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return m.student, nil
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return []models.Student{*m.student}, 1, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func newExportFixture() *ExportService {
	studentRepo := &mockStudentRepo{student: &models.Student{ID: "stu-1", Name: "Asha Rao", USN: "1AB21CS001"}}
	attendanceRepo := &mockAttendanceRepo{records: []models.AttendanceRecord{
		{StudentID: "stu-1", Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Period: 1, Subject: "Physics", Status: models.AttendanceStatusPresent},
		{StudentID: "stu-1", Date: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), Period: 1, Subject: "Physics", Status: models.AttendanceStatusAbsent},
	}}
	resultRepo := &mockResultRepo{results: []models.Result{
		{StudentID: "stu-1", Semester: 1, Subject: "Physics", Percentage: 85, Grade: "A"},
	}}

	attendance := NewAttendanceService(attendanceRepo, nil, validator.New(), zap.NewNop())
	results := NewResultService(resultRepo, nil, validator.New(), zap.NewNop())
	students := NewStudentService(studentRepo, attendance, results, validator.New(), zap.NewNop())
	return NewExportService(students, attendance, results, zap.NewNop())
}

func TestExportAttendanceReportCSV(t *testing.T) {
	svc := newExportFixture()

	payload, contentType, err := svc.AttendanceReport(context.Background(), "stu-1", ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "subject,total_classes,attended_classes,percentage"))
	assert.Contains(t, body, "Physics,2,1,50.00")
	assert.Contains(t, body, "OVERALL,2,1,50.00")
}

func TestExportResultReportCSV(t *testing.T) {
	svc := newExportFixture()

	payload, contentType, err := svc.ResultReport(context.Background(), "stu-1", ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.Contains(t, body, "1,Physics,85.00,85.00,8.95")
}

func TestExportAttendanceReportPDF(t *testing.T) {
	svc := newExportFixture()

	payload, contentType, err := svc.AttendanceReport(context.Background(), "stu-1", ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newExportFixture()

	_, _, err := svc.AttendanceReport(context.Background(), "stu-1", "xlsx")
	require.Error(t, err)
}
