package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/college-api/internal/models"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

type mockAccountRepo struct {
	account           *models.Account
	findByEmailErr    error
	findByIDErr       error
	updatePasswordErr error
	setActiveErr      error
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.account, nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	return m.account, nil
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	if m.account != nil && m.account.ID == id {
		m.account.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockAccountRepo) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	if m.setActiveErr != nil {
		return m.setActiveErr
	}
	if m.account != nil && m.account.ID == id {
		m.account.Active = active
	}
	return nil
}

type staticProfileResolver struct {
	profileID string
	err       error
}

func (r *staticProfileResolver) ResolveProfileID(ctx context.Context, account *models.Account) (string, error) {
	return r.profileID, r.err
}

func newTestAuthService(repo *mockAccountRepo, profileID string) *AuthService {
	return NewAuthService(repo, &staticProfileResolver{profileID: profileID}, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "secret",
		Expiration: 30 * time.Minute,
		Issuer:     "college-api",
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Email: "student@example.com", PasswordHash: string(password), Active: true, Role: models.RoleStudent}}
	svc := newTestAuthService(repo, "stu-1")

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, int64(1800), res.ExpiresIn)
	assert.Equal(t, "stu-1", res.User.ProfileID)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.UserID)
	assert.Equal(t, "stu-1", claims.ProfileID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockAccountRepo{findByEmailErr: sql.ErrNoRows}
	svc := newTestAuthService(repo, "")

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Email: "student@example.com", PasswordHash: string(password), Active: true, Role: models.RoleStudent}}
	svc := newTestAuthService(repo, "stu-1")

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@example.com", Password: "wrong-password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)

	// Wrong password and unknown email must be indistinguishable.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Status, appErr.Status)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Email: "faculty@example.com", PasswordHash: string(password), Active: false, Role: models.RoleFaculty}}
	svc := newTestAuthService(repo, "fac-1")

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "faculty@example.com", Password: "password123"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceValidateTokenTampered(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Email: "student@example.com", PasswordHash: string(password), Active: true, Role: models.RoleStudent}}
	svc := newTestAuthService(repo, "stu-1")

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken + "x")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Email: "student@example.com", PasswordHash: string(oldHash), Active: true, Role: models.RoleStudent}}
	svc := newTestAuthService(repo, "stu-1")

	err := svc.ChangePassword(context.Background(), "acc-1", models.ChangePasswordRequest{OldPassword: "old-password", NewPassword: "new-password-1"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.account.PasswordHash), []byte("new-password-1")))
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Email: "student@example.com", PasswordHash: string(oldHash), Active: true, Role: models.RoleStudent}}
	svc := newTestAuthService(repo, "stu-1")

	err := svc.ChangePassword(context.Background(), "acc-1", models.ChangePasswordRequest{OldPassword: "not-it", NewPassword: "new-password-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceActivateAccount(t *testing.T) {
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Email: "faculty@example.com", Active: false, Role: models.RoleFaculty}}
	svc := newTestAuthService(repo, "fac-1")

	require.NoError(t, svc.ActivateAccount(context.Background(), "acc-1"))
	assert.True(t, repo.account.Active)
}

func TestAuthServiceActivateAccountMissing(t *testing.T) {
	repo := &mockAccountRepo{setActiveErr: sql.ErrNoRows}
	svc := newTestAuthService(repo, "")

	err := svc.ActivateAccount(context.Background(), "missing")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
