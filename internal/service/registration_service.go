package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/college-api/internal/mailer"
	"github.com/campushub/college-api/internal/models"
	"github.com/campushub/college-api/pkg/database"
	appErrors "github.com/campushub/college-api/pkg/errors"
	"github.com/campushub/college-api/pkg/jobs"
)

// Unique index names the database raises on duplicate sign-ups. The indexes
// are the arbiter; the advisory pre-checks only produce friendlier errors
// under low contention.
const (
	constraintAccountEmail = "accounts_email_key"
	constraintStudentUSN   = "students_usn_key"
)

type registrationRepository interface {
	CreateStudent(ctx context.Context, account *models.Account, student *models.Student) error
	CreateFaculty(ctx context.Context, account *models.Account, faculty *models.Faculty) error
}

type registrationAccountLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// RegistrationConfig carries the settings for sign-up flows.
type RegistrationConfig struct {
	FrontendBaseURL string
}

// RegistrationService creates student and faculty accounts.
type RegistrationService struct {
	repo      registrationRepository
	accounts  registrationAccountLookup
	mail      mailer.Mailer
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
	config    RegistrationConfig
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(repo registrationRepository, accounts registrationAccountLookup, mail mailer.Mailer, queue *jobs.Queue, validate *validator.Validate, logger *zap.Logger, config RegistrationConfig) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RegistrationService{
		repo:      repo,
		accounts:  accounts,
		mail:      mail,
		queue:     queue,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// RegisterStudent creates an active student account with its profile in a
// single transaction.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.RegistrationResponse, error) {
	// Stored lowercase so the unique index is the case-insensitive arbiter.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	req.Email = email

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student registration payload")
	}

	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	student := &models.Student{
		ID:         uuid.NewString(),
		UserID:     account.ID,
		USN:        req.USN,
		Name:       req.Name,
		DOB:        req.DOB.Time,
		Degree:     req.Degree,
		Stream:     req.Stream,
		College:    req.College,
		Email:      email,
		MobileNo:   req.MobileNo,
		FatherName: req.FatherName,
		MotherName: req.MotherName,
		Address:    req.Address,
		Year:       req.Year,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateStudent(ctx, account, student); err != nil {
		return nil, s.mapRegistrationError(err)
	}

	s.logger.Info("student registered",
		zap.String("user_id", account.ID),
		zap.String("usn", student.USN))

	return &models.RegistrationResponse{
		UserID:    account.ID,
		ProfileID: student.ID,
		Email:     account.Email,
		Role:      account.Role,
		Active:    account.Active,
	}, nil
}

// RegisterFaculty creates an inactive faculty account and dispatches a
// verification email. Mail delivery is best effort; a failed send never
// rolls back the registration.
func (s *RegistrationService) RegisterFaculty(ctx context.Context, req models.RegisterFacultyRequest) (*models.RegistrationResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	req.Email = email

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty registration payload")
	}

	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleFaculty,
		Active:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	member := &models.Faculty{
		ID:              uuid.NewString(),
		UserID:          account.ID,
		Name:            req.Name,
		Email:           email,
		Position:        req.Position,
		Department:      req.Department,
		Stream:          req.Stream,
		CollegeName:     req.CollegeName,
		MobileNo:        req.MobileNo,
		EmployeeID:      req.EmployeeID,
		ExperienceYears: req.ExperienceYears,
		Qualifications:  req.Qualifications,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateFaculty(ctx, account, member); err != nil {
		return nil, s.mapRegistrationError(err)
	}

	s.dispatchVerificationEmail(account, member)

	s.logger.Info("faculty registered, verification pending",
		zap.String("user_id", account.ID),
		zap.String("department", member.Department))

	return &models.RegistrationResponse{
		UserID:    account.ID,
		ProfileID: member.ID,
		Email:     account.Email,
		Role:      account.Role,
		Active:    account.Active,
	}, nil
}

func (s *RegistrationService) checkEmailFree(ctx context.Context, email string) error {
	if s.accounts == nil {
		return nil
	}
	_, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return appErrors.Clone(appErrors.ErrDuplicateEmail, "email already registered")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return wrapStorage(err, "failed to check email")
}

func (s *RegistrationService) mapRegistrationError(err error) error {
	switch {
	case database.IsUniqueViolation(err, constraintAccountEmail):
		return appErrors.Clone(appErrors.ErrDuplicateEmail, "email already registered")
	case database.IsUniqueViolation(err, constraintStudentUSN):
		return appErrors.Clone(appErrors.ErrDuplicateUSN, "usn already registered")
	default:
		return wrapStorage(err, "failed to create account")
	}
}

func (s *RegistrationService) dispatchVerificationEmail(account *models.Account, member *models.Faculty) {
	if s.mail == nil {
		return
	}

	link := fmt.Sprintf("%s/verify-faculty?user=%s", s.config.FrontendBaseURL, account.ID)
	msg := mailer.Message{
		ToName:    member.Name,
		ToAddress: account.Email,
		Subject:   "Verify your faculty account",
		TextBody:  fmt.Sprintf("Hello %s,\n\nVerify your faculty account: %s\n", member.Name, link),
		HTMLBody:  fmt.Sprintf(`<p>Hello %s,</p><p><a href="%s">Verify your faculty account</a></p>`, member.Name, link),
	}

	if s.queue != nil {
		job := jobs.Job{ID: uuid.NewString(), Type: "faculty_verification_email", Payload: msg}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue verification email", zap.Error(err))
		}
		return
	}

	// No queue wired; send inline but still best effort.
	if err := s.mail.Send(context.Background(), msg); err != nil {
		s.logger.Warn("failed to send verification email", zap.Error(err))
	}
}

// NewMailQueueHandler adapts a mailer into a job handler for the email queue.
func NewMailQueueHandler(mail mailer.Mailer) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(mailer.Message)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for job %s", job.Payload, job.ID)
		}
		return mail.Send(ctx, msg)
	}
}
