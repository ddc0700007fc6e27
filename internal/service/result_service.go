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

	"github.com/campushub/college-api/internal/grading"
	"github.com/campushub/college-api/internal/models"
	"github.com/campushub/college-api/pkg/database"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

const constraintResultSlot = "results_student_id_test_date_subject_key"

type resultRepository interface {
	Insert(ctx context.Context, result *models.Result) error
	FindByID(ctx context.Context, id string) (*models.Result, error)
	UpdateMarks(ctx context.Context, result *models.Result) error
	List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error)
	AllForStudent(ctx context.Context, studentID string) ([]models.Result, error)
	Delete(ctx context.Context, id string) error
}

// CreateResultRequest is the payload for recording one score. Percentage and
// grade are always derived server-side.
type CreateResultRequest struct {
	StudentID     string          `json:"student_id" validate:"required"`
	Subject       string          `json:"subject" validate:"required,min=1,max=100"`
	TestType      models.TestType `json:"test_type" validate:"required"`
	TestDate      models.Date     `json:"test_date" validate:"required"`
	MarksObtained float64         `json:"marks_obtained" validate:"min=0"`
	TotalMarks    float64         `json:"total_marks" validate:"required,gt=0"`
	Semester      int             `json:"semester" validate:"required,min=1,max=12"`
}

// UpdateResultRequest rewrites the score of an existing result.
type UpdateResultRequest struct {
	MarksObtained float64 `json:"marks_obtained" validate:"min=0"`
	TotalMarks    float64 `json:"total_marks" validate:"required,gt=0"`
}

// ResultService records scores and serves semester rollups.
type ResultService struct {
	repo      resultRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs a ResultService.
func NewResultService(repo resultRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResultService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Create records one score attributed to recordedBy. The slot unique index
// rejects a second result for the same (student, test_date, subject).
func (s *ResultService) Create(ctx context.Context, recordedBy string, req CreateResultRequest) (*models.Result, error) {
	if recordedBy == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "recording principal is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}
	if !req.TestType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown test type %q", req.TestType))
	}

	score, err := grading.Grade(req.MarksObtained, req.TotalMarks)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &models.Result{
		ID:            uuid.NewString(),
		StudentID:     req.StudentID,
		FacultyID:     recordedBy,
		Subject:       req.Subject,
		TestType:      req.TestType,
		TestDate:      req.TestDate.Time,
		MarksObtained: req.MarksObtained,
		TotalMarks:    req.TotalMarks,
		Percentage:    score.Percentage,
		Grade:         score.Grade,
		Semester:      req.Semester,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, result); err != nil {
		if database.IsUniqueViolation(err, constraintResultSlot) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateResult, "result already recorded for this test")
		}
		return nil, wrapStorage(err, "failed to record result")
	}

	s.invalidateSummary(ctx, result.StudentID)
	return result, nil
}

// Update rewrites the score of an existing result and rederives its grade.
func (s *ResultService) Update(ctx context.Context, id string, req UpdateResultRequest) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}

	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, wrapStorage(err, "failed to load result")
	}

	score, err := grading.Grade(req.MarksObtained, req.TotalMarks)
	if err != nil {
		return nil, err
	}

	result.MarksObtained = req.MarksObtained
	result.TotalMarks = req.TotalMarks
	result.Percentage = score.Percentage
	result.Grade = score.Grade
	result.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateMarks(ctx, result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, wrapStorage(err, "failed to update result")
	}

	s.invalidateSummary(ctx, result.StudentID)
	return result, nil
}

// List returns results matching the filter.
func (s *ResultService) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error) {
	if filter.TestType != nil && !filter.TestType.Valid() {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown test type %q", *filter.TestType))
	}
	results, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, wrapStorage(err, "failed to list results")
	}
	return results, total, nil
}

// SemesterSummaries recomputes per-semester rollups from the full result set,
// served through the cache when warm.
func (s *ResultService) SemesterSummaries(ctx context.Context, studentID string) ([]models.SemesterSummary, error) {
	key := resultSummaryKey(studentID)
	if s.cache != nil {
		var cached []models.SemesterSummary
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	results, err := s.repo.AllForStudent(ctx, studentID)
	if err != nil {
		return nil, wrapStorage(err, "failed to load results")
	}

	summaries := SummarizeSemesters(results)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summaries, 0); err != nil {
			s.logger.Warn("failed to cache semester summaries", zap.Error(err))
		}
	}
	return summaries, nil
}

// Delete removes one result.
func (s *ResultService) Delete(ctx context.Context, id string) error {
	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return wrapStorage(err, "failed to load result")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return wrapStorage(err, "failed to delete result")
	}

	s.invalidateSummary(ctx, result.StudentID)
	return nil
}

func (s *ResultService) invalidateSummary(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, resultSummaryKey(studentID)); err != nil {
		s.logger.Warn("failed to invalidate result cache",
			zap.String("student_id", studentID), zap.Error(err))
	}
}

func resultSummaryKey(studentID string) string {
	return "results:summary:" + studentID
}

// SummarizeSemesters groups results by semester and subject, averaging
// percentages per subject and across the semester. CGPA is derived from the
// overall percentage.
func SummarizeSemesters(results []models.Result) []models.SemesterSummary {
	bySemester := make(map[int]map[string][]models.Result)
	for _, r := range results {
		subjects := bySemester[r.Semester]
		if subjects == nil {
			subjects = make(map[string][]models.Result)
			bySemester[r.Semester] = subjects
		}
		subjects[r.Subject] = append(subjects[r.Subject], r)
	}

	semesters := make([]int, 0, len(bySemester))
	for sem := range bySemester {
		semesters = append(semesters, sem)
	}
	sort.Ints(semesters)

	summaries := make([]models.SemesterSummary, 0, len(semesters))
	for _, sem := range semesters {
		subjects := bySemester[sem]
		names := make([]string, 0, len(subjects))
		for name := range subjects {
			names = append(names, name)
		}
		sort.Strings(names)

		summary := models.SemesterSummary{
			Semester: sem,
			Subjects: make([]models.SubjectResultSummary, 0, len(names)),
		}
		var semesterTotal float64
		var semesterCount int
		for _, name := range names {
			group := subjects[name]
			var subjectTotal float64
			for _, r := range group {
				subjectTotal += r.Percentage
				semesterTotal += r.Percentage
				semesterCount++
			}
			summary.Subjects = append(summary.Subjects, models.SubjectResultSummary{
				Subject:           name,
				Results:           group,
				AveragePercentage: subjectTotal / float64(len(group)),
			})
		}
		if semesterCount > 0 {
			summary.OverallPercentage = semesterTotal / float64(semesterCount)
		}
		summary.CGPA = grading.CGPA(summary.OverallPercentage)
		summaries = append(summaries, summary)
	}
	return summaries
}
