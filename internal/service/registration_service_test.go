package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/college-api/internal/mailer"
	"github.com/campushub/college-api/internal/models"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

type mockRegistrationRepo struct {
	createErr       error
	createdAccounts []*models.Account
	createdStudents []*models.Student
	createdFaculty  []*models.Faculty
}

func (m *mockRegistrationRepo) CreateStudent(ctx context.Context, account *models.Account, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdAccounts = append(m.createdAccounts, account)
	m.createdStudents = append(m.createdStudents, student)
	return nil
}

func (m *mockRegistrationRepo) CreateFaculty(ctx context.Context, account *models.Account, faculty *models.Faculty) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdAccounts = append(m.createdAccounts, account)
	m.createdFaculty = append(m.createdFaculty, faculty)
	return nil
}

type mockAccountLookup struct {
	existing *models.Account
	err      error
}

func (m *mockAccountLookup) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.existing != nil {
		return m.existing, nil
	}
	return nil, sql.ErrNoRows
}

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func studentRequest() models.RegisterStudentRequest {
	return models.RegisterStudentRequest{
		Email:    "student@example.com",
		Password: "password123",
		USN:      "1AB21CS001",
		Name:     "Asha Rao",
		DOB:      models.NewDate(time.Date(2004, 5, 12, 0, 0, 0, 0, time.UTC)),
		Degree:   "B.E.",
		Stream:   "CSE",
		College:  "Example Institute",
		MobileNo: "9876543210",
		Year:     3,
	}
}

func facultyRequest() models.RegisterFacultyRequest {
	return models.RegisterFacultyRequest{
		Email:       "prof@example.com",
		Password:    "password123",
		Name:        "Dr. Mohan Kumar",
		Position:    "Associate Professor",
		Department:  "CSE",
		Stream:      "CSE",
		CollegeName: "Example Institute",
		MobileNo:    "9876543211",
	}
}

func TestRegisterStudentSuccess(t *testing.T) {
	repo := &mockRegistrationRepo{}
	svc := NewRegistrationService(repo, &mockAccountLookup{}, nil, nil, validator.New(), zap.NewNop(), RegistrationConfig{})

	res, err := svc.RegisterStudent(context.Background(), studentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.Role)
	assert.True(t, res.Active)

	require.Len(t, repo.createdAccounts, 1)
	require.Len(t, repo.createdStudents, 1)
	account := repo.createdAccounts[0]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("password123")))
	assert.Equal(t, account.ID, repo.createdStudents[0].UserID)
}

func TestRegisterStudentDuplicateEmailAdvisory(t *testing.T) {
	lookup := &mockAccountLookup{existing: &models.Account{ID: "acc-1", Email: "student@example.com"}}
	svc := NewRegistrationService(&mockRegistrationRepo{}, lookup, nil, nil, validator.New(), zap.NewNop(), RegistrationConfig{})

	_, err := svc.RegisterStudent(context.Background(), studentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErr.Code)
}

func TestRegisterStudentDuplicateEmailConstraint(t *testing.T) {
	repo := &mockRegistrationRepo{createErr: &pq.Error{Code: "23505", Constraint: "accounts_email_key"}}
	svc := NewRegistrationService(repo, &mockAccountLookup{}, nil, nil, validator.New(), zap.NewNop(), RegistrationConfig{})

	_, err := svc.RegisterStudent(context.Background(), studentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErr.Code)
}

func TestRegisterStudentDuplicateUSN(t *testing.T) {
	repo := &mockRegistrationRepo{createErr: &pq.Error{Code: "23505", Constraint: "students_usn_key"}}
	svc := NewRegistrationService(repo, &mockAccountLookup{}, nil, nil, validator.New(), zap.NewNop(), RegistrationConfig{})

	_, err := svc.RegisterStudent(context.Background(), studentRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateUSN.Code, appErr.Code)
}

func TestRegisterFacultyStartsInactive(t *testing.T) {
	repo := &mockRegistrationRepo{}
	mail := &recordingMailer{}
	svc := NewRegistrationService(repo, &mockAccountLookup{}, mail, nil, validator.New(), zap.NewNop(), RegistrationConfig{FrontendBaseURL: "https://campus.example.com"})

	res, err := svc.RegisterFaculty(context.Background(), facultyRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, res.Role)
	assert.False(t, res.Active)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "prof@example.com", mail.sent[0].ToAddress)
	assert.Contains(t, mail.sent[0].TextBody, "https://campus.example.com/verify-faculty")
}

func TestRegisterFacultyMailFailureStillSucceeds(t *testing.T) {
	repo := &mockRegistrationRepo{}
	mail := &recordingMailer{err: assert.AnError}
	svc := NewRegistrationService(repo, &mockAccountLookup{}, mail, nil, validator.New(), zap.NewNop(), RegistrationConfig{})

	res, err := svc.RegisterFaculty(context.Background(), facultyRequest())
	require.NoError(t, err)
	assert.False(t, res.Active)
	require.Len(t, repo.createdFaculty, 1)
}

func TestRegisterStudentInvalidPayload(t *testing.T) {
	svc := NewRegistrationService(&mockRegistrationRepo{}, &mockAccountLookup{}, nil, nil, validator.New(), zap.NewNop(), RegistrationConfig{})

	req := studentRequest()
	req.Email = "not-an-email"
	_, err := svc.RegisterStudent(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRegisterStudentNormalizesEmail(t *testing.T) {
	repo := &mockRegistrationRepo{}
	svc := NewRegistrationService(repo, &mockAccountLookup{}, nil, nil, validator.New(), zap.NewNop(), RegistrationConfig{})

	req := studentRequest()
	req.Email = "  Student@Example.COM "

	res, err := svc.RegisterStudent(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", res.Email)

	require.Len(t, repo.createdAccounts, 1)
	assert.Equal(t, "student@example.com", repo.createdAccounts[0].Email)
	assert.Equal(t, "student@example.com", repo.createdStudents[0].Email)
}
