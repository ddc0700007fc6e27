package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/college-api/internal/models"
)

// RegistrationRepository persists an account and its profile as one unit.
// Both rows commit or neither does; the unique indexes on accounts(email)
// and students(usn) are the final arbiter for concurrent registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const insertAccountQuery = `INSERT INTO accounts (id, email, password_hash, role, active, created_at, updated_at)
VALUES ($1, LOWER($2), $3, $4, $5, $6, $7)`

// CreateStudent inserts the account and student profile in one transaction.
func (r *RegistrationRepository) CreateStudent(ctx context.Context, account *models.Account, student *models.Student) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student registration: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, insertAccountQuery,
		account.ID, account.Email, account.PasswordHash, account.Role, account.Active, account.CreatedAt, account.UpdatedAt); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	const query = `INSERT INTO students (id, user_id, usn, name, dob, degree, stream, college, email, mobile_no, father_name, mother_name, address, year, photo_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, LOWER($9), $10, $11, $12, $13, $14, $15, $16, $17)`
	if _, err := tx.ExecContext(ctx, query,
		student.ID, student.UserID, student.USN, student.Name, student.DOB, student.Degree, student.Stream,
		student.College, student.Email, student.MobileNo, student.FatherName, student.MotherName,
		student.Address, student.Year, student.PhotoURL, student.CreatedAt, student.UpdatedAt); err != nil {
		return fmt.Errorf("insert student profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student registration: %w", err)
	}
	return nil
}

// CreateFaculty inserts the account and faculty profile in one transaction.
func (r *RegistrationRepository) CreateFaculty(ctx context.Context, account *models.Account, faculty *models.Faculty) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin faculty registration: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, insertAccountQuery,
		account.ID, account.Email, account.PasswordHash, account.Role, account.Active, account.CreatedAt, account.UpdatedAt); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	const query = `INSERT INTO faculty (id, user_id, name, email, position, department, stream, college_name, mobile_no, employee_id, experience_years, qualifications, photo_url, created_at, updated_at)
VALUES ($1, $2, $3, LOWER($4), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := tx.ExecContext(ctx, query,
		faculty.ID, faculty.UserID, faculty.Name, faculty.Email, faculty.Position, faculty.Department,
		faculty.Stream, faculty.CollegeName, faculty.MobileNo, faculty.EmployeeID, faculty.ExperienceYears,
		faculty.Qualifications, faculty.PhotoURL, faculty.CreatedAt, faculty.UpdatedAt); err != nil {
		return fmt.Errorf("insert faculty profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit faculty registration: %w", err)
	}
	return nil
}
