package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

type calendarRepository interface {
	InsertHoliday(ctx context.Context, h *models.Holiday) error
	ListHolidays(ctx context.Context, from, to time.Time) ([]models.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
	InsertLeave(ctx context.Context, l *models.LeaveApplication) error
	FindLeave(ctx context.Context, id string) (*models.LeaveApplication, error)
	ListLeavesByStudent(ctx context.Context, studentID string) ([]models.LeaveApplication, error)
	ListLeavesByStatus(ctx context.Context, status models.LeaveStatus) ([]models.LeaveApplication, error)
	ReviewLeave(ctx context.Context, id string, status models.LeaveStatus, reviewerID string, reviewedAt time.Time) error
	InsertEvent(ctx context.Context, e *models.Event) error
	ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// CreateHolidayRequest is the payload for a calendar holiday.
type CreateHolidayRequest struct {
	Date        models.Date `json:"date" validate:"required"`
	Name        string      `json:"name" validate:"required,min=1,max=100"`
	Description string      `json:"description" validate:"omitempty,max=500"`
	State       string      `json:"state" validate:"omitempty,max=50"`
	HolidayType string      `json:"holiday_type" validate:"omitempty,max=50"`
}

// ApplyLeaveRequest is the payload for a student leave application.
type ApplyLeaveRequest struct {
	LeaveType string      `json:"leave_type" validate:"required,min=2,max=50"`
	Reason    string      `json:"reason" validate:"required,min=5,max=500"`
	StartDate models.Date `json:"start_date" validate:"required"`
	EndDate   models.Date `json:"end_date" validate:"required"`
}

// CreateEventRequest is the payload for a campus event.
type CreateEventRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=200"`
	Description string      `json:"description" validate:"omitempty,max=1000"`
	EventDate   models.Date `json:"event_date" validate:"required"`
	EventTime   string      `json:"event_time" validate:"omitempty,max=20"`
	Location    string      `json:"location" validate:"omitempty,max=200"`
	Organizer   string      `json:"organizer" validate:"omitempty,max=100"`
	EventType   string      `json:"event_type" validate:"omitempty,max=50"`
}

// CalendarService manages holidays, leave applications and campus events.
type CalendarService struct {
	repo      calendarRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(repo calendarRepository, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CalendarService{repo: repo, validator: validate, logger: logger}
}

// CreateHoliday stores a calendar holiday.
func (s *CalendarService) CreateHoliday(ctx context.Context, req CreateHolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}

	holiday := &models.Holiday{
		ID:          uuid.NewString(),
		Date:        req.Date.Time,
		Name:        req.Name,
		Description: req.Description,
		State:       req.State,
		HolidayType: req.HolidayType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.InsertHoliday(ctx, holiday); err != nil {
		return nil, wrapStorage(err, "failed to create holiday")
	}
	return holiday, nil
}

// ListHolidays returns holidays within a range. A zero range defaults to the
// current calendar year.
func (s *CalendarService) ListHolidays(ctx context.Context, from, to time.Time) ([]models.Holiday, error) {
	if from.IsZero() || to.IsZero() {
		now := time.Now().UTC()
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		to = time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	holidays, err := s.repo.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, wrapStorage(err, "failed to list holidays")
	}
	return holidays, nil
}

// DeleteHoliday removes a holiday.
func (s *CalendarService) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.repo.DeleteHoliday(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return wrapStorage(err, "failed to delete holiday")
	}
	return nil
}

// ApplyLeave files a leave application for a student. New applications always
// start pending.
func (s *CalendarService) ApplyLeave(ctx context.Context, studentID string, req ApplyLeaveRequest) (*models.LeaveApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if req.EndDate.Before(req.StartDate.Time) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}

	now := time.Now().UTC()
	leave := &models.LeaveApplication{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		LeaveType:   req.LeaveType,
		Reason:      req.Reason,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		Status:      models.LeaveStatusPending,
		AppliedDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertLeave(ctx, leave); err != nil {
		return nil, wrapStorage(err, "failed to file leave application")
	}
	return leave, nil
}

// StudentLeaves returns one student's leave history.
func (s *CalendarService) StudentLeaves(ctx context.Context, studentID string) ([]models.LeaveApplication, error) {
	leaves, err := s.repo.ListLeavesByStudent(ctx, studentID)
	if err != nil {
		return nil, wrapStorage(err, "failed to list leaves")
	}
	return leaves, nil
}

// PendingLeaves returns the review queue in arrival order.
func (s *CalendarService) PendingLeaves(ctx context.Context) ([]models.LeaveApplication, error) {
	leaves, err := s.repo.ListLeavesByStatus(ctx, models.LeaveStatusPending)
	if err != nil {
		return nil, wrapStorage(err, "failed to list pending leaves")
	}
	return leaves, nil
}

// ReviewLeave approves or rejects a pending application. Re-reviewing an
// already-decided application is rejected.
func (s *CalendarService) ReviewLeave(ctx context.Context, id string, reviewerID string, status models.LeaveStatus) (*models.LeaveApplication, error) {
	if status != models.LeaveStatusApproved && status != models.LeaveStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("cannot transition leave to %q", status))
	}

	if err := s.repo.ReviewLeave(ctx, id, status, reviewerID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either missing or already decided; disambiguate for the caller.
			if _, lookupErr := s.repo.FindLeave(ctx, id); lookupErr == nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "leave application is already decided")
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave application not found")
		}
		return nil, wrapStorage(err, "failed to review leave")
	}

	leave, err := s.repo.FindLeave(ctx, id)
	if err != nil {
		return nil, wrapStorage(err, "failed to reload leave")
	}
	return leave, nil
}

// CreateEvent stores a campus event.
func (s *CalendarService) CreateEvent(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event := &models.Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate.Time,
		EventTime:   req.EventTime,
		Location:    req.Location,
		Organizer:   req.Organizer,
		EventType:   req.EventType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return nil, wrapStorage(err, "failed to create event")
	}
	return event, nil
}

// UpcomingEvents returns events on or after today.
func (s *CalendarService) UpcomingEvents(ctx context.Context, limit int) ([]models.Event, error) {
	events, err := s.repo.ListUpcomingEvents(ctx, time.Now().UTC(), limit)
	if err != nil {
		return nil, wrapStorage(err, "failed to list events")
	}
	return events, nil
}

// DeleteEvent removes an event.
func (s *CalendarService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return wrapStorage(err, "failed to delete event")
	}
	return nil
}
