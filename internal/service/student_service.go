package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// UpdateStudentRequest carries the mutable profile fields.
type UpdateStudentRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	MobileNo string  `json:"mobile_no" validate:"required,min=10,max=15"`
	Address  string  `json:"address" validate:"omitempty,max=500"`
	PhotoURL *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// StudentService serves student profiles and their computed rollups.
type StudentService struct {
	repo       studentRepository
	attendance *AttendanceService
	results    *ResultService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, attendance *AttendanceService, results *ResultService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, attendance: attendance, results: results, validator: validate, logger: logger}
}

// List returns student profiles matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, wrapStorage(err, "failed to list students")
	}
	return students, total, nil
}

// Get returns one student profile.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, wrapStorage(err, "failed to load student")
	}
	return student, nil
}

// GetByUserID returns the profile linked to a login account.
func (s *StudentService) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, wrapStorage(err, "failed to load student")
	}
	return student, nil
}

// Detail composes the profile with its attendance and result rollups. The
// rollups are recomputed from the authoritative record sets, never read from
// stored counters.
func (s *StudentService) Detail(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.StudentDetail{Student: *student}

	if s.attendance != nil {
		stats, err := s.attendance.Stats(ctx, id)
		if err != nil {
			return nil, err
		}
		detail.SubjectAttendance = stats.Subjects
		detail.OverallAttendance = stats.Overall
	}

	if s.results != nil {
		summaries, err := s.results.SemesterSummaries(ctx, id)
		if err != nil {
			return nil, err
		}
		detail.SemesterResults = summaries
		if len(summaries) > 0 {
			var total float64
			for _, sem := range summaries {
				total += sem.CGPA
			}
			detail.TotalCGPA = total / float64(len(summaries))
		}
	}

	return detail, nil
}

// Update rewrites the mutable profile fields.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.Name = req.Name
	student.MobileNo = req.MobileNo
	student.Address = req.Address
	if req.PhotoURL != nil {
		student.PhotoURL = req.PhotoURL
	}
	student.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, wrapStorage(err, "failed to update student")
	}
	return student, nil
}

// Delete removes a student profile.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return wrapStorage(err, "failed to delete student")
	}
	return nil
}
