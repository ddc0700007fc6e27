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

type facultyRepository interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	FindByUserID(ctx context.Context, userID string) (*models.Faculty, error)
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	Update(ctx context.Context, faculty *models.Faculty) error
}

// UpdateFacultyRequest carries the mutable profile fields.
type UpdateFacultyRequest struct {
	Name            string                   `json:"name" validate:"required,min=2,max=100"`
	MobileNo        string                   `json:"mobile_no" validate:"required,min=10,max=15"`
	Position        string                   `json:"position" validate:"required"`
	ExperienceYears *int                     `json:"experience_years,omitempty" validate:"omitempty,min=0,max=60"`
	Qualifications  models.QualificationList `json:"qualifications,omitempty"`
	PhotoURL        *string                  `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// FacultyService serves faculty profiles.
type FacultyService struct {
	repo      facultyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FacultyService{repo: repo, validator: validate, logger: logger}
}

// List returns faculty profiles matching the filter.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, wrapStorage(err, "failed to list faculty")
	}
	return members, total, nil
}

// Get returns one faculty profile.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, wrapStorage(err, "failed to load faculty member")
	}
	return member, nil
}

// GetByUserID returns the profile linked to a login account.
func (s *FacultyService) GetByUserID(ctx context.Context, userID string) (*models.Faculty, error) {
	member, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty profile not found")
		}
		return nil, wrapStorage(err, "failed to load faculty member")
	}
	return member, nil
}

// Update rewrites the mutable profile fields.
func (s *FacultyService) Update(ctx context.Context, id string, req UpdateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	member.Name = req.Name
	member.MobileNo = req.MobileNo
	member.Position = req.Position
	if req.ExperienceYears != nil {
		member.ExperienceYears = req.ExperienceYears
	}
	if req.Qualifications != nil {
		member.Qualifications = req.Qualifications
	}
	if req.PhotoURL != nil {
		member.PhotoURL = req.PhotoURL
	}
	member.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, member); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, wrapStorage(err, "failed to update faculty member")
	}
	return member, nil
}
