package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/college-api/internal/models"
)

const resultColumns = `id, student_id, faculty_id, subject, test_type, test_date, marks_obtained, total_marks, percentage, grade, semester, created_at, updated_at`

// ResultRepository handles persistence for exam results.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs the repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert stores a new result. A violation of the
// (student_id, test_date, subject) unique index propagates to the caller.
func (r *ResultRepository) Insert(ctx context.Context, result *models.Result) error {
	const query = `INSERT INTO results (id, student_id, faculty_id, subject, test_type, test_date, marks_obtained, total_marks, percentage, grade, semester, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		result.ID, result.StudentID, result.FacultyID, result.Subject, result.TestType,
		result.TestDate, result.MarksObtained, result.TotalMarks, result.Percentage,
		result.Grade, result.Semester, result.CreatedAt, result.UpdatedAt); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// FindByID returns a single result row.
func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.Result, error) {
	query := fmt.Sprintf(`SELECT %s FROM results WHERE id = $1`, resultColumns)
	var result models.Result
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	return &result, nil
}

// UpdateMarks rewrites the scored fields of an existing result.
func (r *ResultRepository) UpdateMarks(ctx context.Context, result *models.Result) error {
	const query = `UPDATE results
SET marks_obtained = $2, total_marks = $3, percentage = $4, grade = $5, updated_at = $6
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		result.ID, result.MarksObtained, result.TotalMarks, result.Percentage,
		result.Grade, result.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns results matching the provided filter.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, int, error) {
	baseQuery := `FROM results WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.TestType != nil && filter.TestType.Valid() {
		conditions = append(conditions, fmt.Sprintf("test_type = $%d", len(args)+1))
		args = append(args, *filter.TestType)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"test_date":  true,
		"subject":    true,
		"percentage": true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "test_date"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		resultColumns, baseQuery, sortBy, sortOrder, pageSize, offset)
	var rows []models.Result
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}
	return rows, total, nil
}

// AllForStudent returns every result for one student, oldest first.
// Semester summaries are recomputed from this set on demand.
func (r *ResultRepository) AllForStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	query := fmt.Sprintf(`SELECT %s FROM results WHERE student_id = $1 ORDER BY test_date ASC, subject ASC`, resultColumns)
	var rows []models.Result
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("load student results: %w", err)
	}
	return rows, nil
}

// Delete removes one result.
func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
