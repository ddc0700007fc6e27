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

type academicRepository interface {
	InsertNote(ctx context.Context, note *models.Note) error
	FindNote(ctx context.Context, id string) (*models.Note, error)
	ListNotes(ctx context.Context, subject string, noteType *models.NoteType, page, pageSize int) ([]models.Note, int, error)
	DeleteNote(ctx context.Context, id string) error
	InsertAnnouncement(ctx context.Context, a *models.Announcement) error
	ListAnnouncements(ctx context.Context, now time.Time, year int, department string) ([]models.Announcement, error)
	ListAllAnnouncements(ctx context.Context) ([]models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}

// CreateNoteRequest is the payload for publishing study material.
type CreateNoteRequest struct {
	Title    string          `json:"title" validate:"required,min=1,max=200"`
	Content  string          `json:"content" validate:"required"`
	Subject  string          `json:"subject" validate:"required,min=1,max=100"`
	NoteType models.NoteType `json:"note_type" validate:"required"`
	FileURL  *string         `json:"file_url,omitempty" validate:"omitempty,url"`
}

// CreateAnnouncementRequest is the payload for publishing a broadcast.
type CreateAnnouncementRequest struct {
	Title            string                  `json:"title" validate:"required,min=1,max=200"`
	Content          string                  `json:"content" validate:"required"`
	AnnouncementType models.AnnouncementType `json:"announcement_type" validate:"required"`
	TargetYear       *int                    `json:"target_year,omitempty" validate:"omitempty,min=1,max=6"`
	TargetDepartment *string                 `json:"target_department,omitempty" validate:"omitempty,max=100"`
	IsUrgent         bool                    `json:"is_urgent"`
	ValidUntil       *time.Time              `json:"valid_until,omitempty"`
}

// AcademicService publishes notes and announcements.
type AcademicService struct {
	repo      academicRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademicService constructs an AcademicService.
func NewAcademicService(repo academicRepository, validate *validator.Validate, logger *zap.Logger) *AcademicService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AcademicService{repo: repo, validator: validate, logger: logger}
}

// CreateNote publishes study material for the calling faculty member.
func (s *AcademicService) CreateNote(ctx context.Context, facultyID string, req CreateNoteRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if !req.NoteType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown note type %q", req.NoteType))
	}

	now := time.Now().UTC()
	note := &models.Note{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Subject:   req.Subject,
		NoteType:  req.NoteType,
		FacultyID: facultyID,
		FileURL:   req.FileURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertNote(ctx, note); err != nil {
		return nil, wrapStorage(err, "failed to create note")
	}
	return note, nil
}

// GetNote returns one note.
func (s *AcademicService) GetNote(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.repo.FindNote(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "note not found")
		}
		return nil, wrapStorage(err, "failed to load note")
	}
	return note, nil
}

// ListNotes returns notes filtered by subject and type.
func (s *AcademicService) ListNotes(ctx context.Context, subject string, noteType *models.NoteType, page, pageSize int) ([]models.Note, int, error) {
	if noteType != nil && !noteType.Valid() {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown note type %q", *noteType))
	}
	notes, total, err := s.repo.ListNotes(ctx, subject, noteType, page, pageSize)
	if err != nil {
		return nil, 0, wrapStorage(err, "failed to list notes")
	}
	return notes, total, nil
}

// DeleteNote removes a note. Faculty may only remove their own; handlers
// enforce ownership through the caller's profile id.
func (s *AcademicService) DeleteNote(ctx context.Context, id string, callerProfileID string, callerRole models.UserRole) error {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return err
	}
	if callerRole != models.RoleAdmin && note.FacultyID != callerProfileID {
		return appErrors.Clone(appErrors.ErrForbidden, "note belongs to another faculty member")
	}
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "note not found")
		}
		return wrapStorage(err, "failed to delete note")
	}
	return nil
}

// CreateAnnouncement publishes a broadcast for the calling faculty member.
func (s *AcademicService) CreateAnnouncement(ctx context.Context, facultyID string, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	if !req.AnnouncementType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown announcement type %q", req.AnnouncementType))
	}

	now := time.Now().UTC()
	announcement := &models.Announcement{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Content:          req.Content,
		AnnouncementType: req.AnnouncementType,
		FacultyID:        facultyID,
		TargetYear:       req.TargetYear,
		TargetDepartment: req.TargetDepartment,
		IsUrgent:         req.IsUrgent,
		ValidUntil:       req.ValidUntil,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.InsertAnnouncement(ctx, announcement); err != nil {
		return nil, wrapStorage(err, "failed to create announcement")
	}
	return announcement, nil
}

// ListAnnouncementsFor returns active broadcasts scoped to a viewer's year
// and department.
func (s *AcademicService) ListAnnouncementsFor(ctx context.Context, year int, department string) ([]models.Announcement, error) {
	rows, err := s.repo.ListAnnouncements(ctx, time.Now().UTC(), year, department)
	if err != nil {
		return nil, wrapStorage(err, "failed to list announcements")
	}
	return rows, nil
}

// ListAllAnnouncements returns every broadcast for staff views.
func (s *AcademicService) ListAllAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	rows, err := s.repo.ListAllAnnouncements(ctx)
	if err != nil {
		return nil, wrapStorage(err, "failed to list announcements")
	}
	return rows, nil
}

// DeleteAnnouncement removes a broadcast.
func (s *AcademicService) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.repo.DeleteAnnouncement(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return wrapStorage(err, "failed to delete announcement")
	}
	return nil
}
