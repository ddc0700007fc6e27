package service

import (
	"context"
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

type mockResultRepo struct {
	results   []models.Result
	byID      *models.Result
	insertErr error
	inserted  []*models.Result
	updated   *models.Result
}

func (m *mockResultRepo) Insert(ctx context.Context, result *models.Result) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, result)
	return nil
}

func (m *mockResultRepo) FindByID(ctx context.Context, id string) (*models.Result, error) {
	return m.byID, nil
}

func (m *mockResultRepo) UpdateMarks(ctx context.Context, result *models.Result) error {
	m.updated = result
	return nil
}

func (m *mockResultRepo) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error) {
	return m.results, len(m.results), nil
}

func (m *mockResultRepo) AllForStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	return m.results, nil
}

func (m *mockResultRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func TestResultServiceCreateDerivesGrade(t *testing.T) {
	repo := &mockResultRepo{}
	svc := NewResultService(repo, nil, validator.New(), zap.NewNop())

	result, err := svc.Create(context.Background(), "fac-1", CreateResultRequest{
		StudentID:     "stu-1",
		Subject:       "Mathematics",
		TestType:      models.TestTypeClassTest,
		TestDate:      models.NewDate(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)),
		MarksObtained: 17,
		TotalMarks:    20,
		Semester:      3,
	})
	require.NoError(t, err)
	assert.InDelta(t, 85.0, result.Percentage, 0.001)
	assert.Equal(t, "A", result.Grade)
	assert.Equal(t, "fac-1", result.FacultyID)
}

func TestResultServiceCreateMissingRecorder(t *testing.T) {
	repo := &mockResultRepo{}
	svc := NewResultService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "", CreateResultRequest{
		StudentID:     "stu-1",
		Subject:       "Mathematics",
		TestType:      models.TestTypeClassTest,
		TestDate:      models.NewDate(time.Now()),
		MarksObtained: 17,
		TotalMarks:    20,
		Semester:      3,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.inserted)
}

func TestResultServiceCreateDuplicateSlot(t *testing.T) {
	repo := &mockResultRepo{insertErr: &pq.Error{Code: "23505", Constraint: "results_student_id_test_date_subject_key"}}
	svc := NewResultService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "fac-1", CreateResultRequest{
		StudentID:     "stu-1",
		Subject:       "Mathematics",
		TestType:      models.TestTypeClassTest,
		TestDate:      models.NewDate(time.Now()),
		MarksObtained: 10,
		TotalMarks:    20,
		Semester:      3,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateResult.Code, appErr.Code)
}

func TestResultServiceCreateInvalidTotal(t *testing.T) {
	svc := NewResultService(&mockResultRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "fac-1", CreateResultRequest{
		StudentID:     "stu-1",
		Subject:       "Mathematics",
		TestType:      models.TestTypeClassTest,
		TestDate:      models.NewDate(time.Now()),
		MarksObtained: 10,
		TotalMarks:    0,
		Semester:      3,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestResultServiceCreateUnknownTestType(t *testing.T) {
	svc := NewResultService(&mockResultRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), "fac-1", CreateResultRequest{
		StudentID:     "stu-1",
		Subject:       "Mathematics",
		TestType:      "pop_quiz",
		TestDate:      models.NewDate(time.Now()),
		MarksObtained: 10,
		TotalMarks:    20,
		Semester:      3,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestResultServiceUpdateRederivesGrade(t *testing.T) {
	existing := &models.Result{
		ID: "res-1", StudentID: "stu-1", Subject: "Mathematics",
		MarksObtained: 10, TotalMarks: 20, Percentage: 50, Grade: "C", Semester: 3,
	}
	repo := &mockResultRepo{byID: existing}
	svc := NewResultService(repo, nil, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "res-1", UpdateResultRequest{MarksObtained: 19, TotalMarks: 20})
	require.NoError(t, err)
	assert.InDelta(t, 95.0, updated.Percentage, 0.001)
	assert.Equal(t, "A+", updated.Grade)
	require.NotNil(t, repo.updated)
}

func TestSummarizeSemesters(t *testing.T) {
	results := []models.Result{
		{Semester: 1, Subject: "Physics", Percentage: 80},
		{Semester: 1, Subject: "Physics", Percentage: 60},
		{Semester: 1, Subject: "Chemistry", Percentage: 90},
		{Semester: 2, Subject: "Biology", Percentage: 38},
	}

	summaries := SummarizeSemesters(results)
	require.Len(t, summaries, 2)

	sem1 := summaries[0]
	assert.Equal(t, 1, sem1.Semester)
	require.Len(t, sem1.Subjects, 2)
	assert.Equal(t, "Chemistry", sem1.Subjects[0].Subject)
	assert.InDelta(t, 90.0, sem1.Subjects[0].AveragePercentage, 0.001)
	assert.Equal(t, "Physics", sem1.Subjects[1].Subject)
	assert.InDelta(t, 70.0, sem1.Subjects[1].AveragePercentage, 0.001)
	assert.InDelta(t, (80.0+60+90)/3, sem1.OverallPercentage, 0.001)
	assert.InDelta(t, sem1.OverallPercentage/9.5, sem1.CGPA, 0.001)

	sem2 := summaries[1]
	assert.Equal(t, 2, sem2.Semester)
	assert.InDelta(t, 38.0, sem2.OverallPercentage, 0.001)
}

func TestSummarizeSemestersEmpty(t *testing.T) {
	assert.Empty(t, SummarizeSemesters(nil))
}
