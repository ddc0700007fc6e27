package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/college-api/internal/models"
)

const (
	noteColumns         = `id, title, content, subject, note_type, faculty_id, file_url, created_at, updated_at`
	announcementColumns = `id, title, content, announcement_type, faculty_id, target_year, target_department, is_urgent, valid_until, created_at, updated_at`
)

// AcademicRepository handles persistence for notes and announcements.
type AcademicRepository struct {
	db *sqlx.DB
}

// NewAcademicRepository constructs the repository.
func NewAcademicRepository(db *sqlx.DB) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// InsertNote stores faculty study material.
func (r *AcademicRepository) InsertNote(ctx context.Context, note *models.Note) error {
	const query = `INSERT INTO notes (id, title, content, subject, note_type, faculty_id, file_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		note.ID, note.Title, note.Content, note.Subject, note.NoteType,
		note.FacultyID, note.FileURL, note.CreatedAt, note.UpdatedAt); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// FindNote returns a single note.
func (r *AcademicRepository) FindNote(ctx context.Context, id string) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM notes WHERE id = $1`, noteColumns)
	var note models.Note
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return &note, nil
}

// ListNotes returns notes filtered by subject and/or type, newest first.
func (r *AcademicRepository) ListNotes(ctx context.Context, subject string, noteType *models.NoteType, page, pageSize int) ([]models.Note, int, error) {
	baseQuery := `FROM notes WHERE 1=1`
	var conditions []string
	var args []interface{}

	if subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, subject)
	}
	if noteType != nil && noteType.Valid() {
		conditions = append(conditions, fmt.Sprintf("note_type = $%d", len(args)+1))
		args = append(args, *noteType)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		noteColumns, baseQuery, pageSize, offset)
	var rows []models.Note
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}
	return rows, total, nil
}

// DeleteNote removes a note.
func (r *AcademicRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// InsertAnnouncement stores a broadcast.
func (r *AcademicRepository) InsertAnnouncement(ctx context.Context, a *models.Announcement) error {
	const query = `INSERT INTO announcements (id, title, content, announcement_type, faculty_id, target_year, target_department, is_urgent, valid_until, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		a.ID, a.Title, a.Content, a.AnnouncementType, a.FacultyID,
		a.TargetYear, a.TargetDepartment, a.IsUrgent, a.ValidUntil,
		a.CreatedAt, a.UpdatedAt); err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

// ListAnnouncements returns broadcasts still valid at the given instant that
// match the viewer's year and department. Rows without a target match every
// viewer; expired rows are excluded.
func (r *AcademicRepository) ListAnnouncements(ctx context.Context, now time.Time, year int, department string) ([]models.Announcement, error) {
	const query = `SELECT ` + announcementColumns + `
FROM announcements
WHERE (valid_until IS NULL OR valid_until >= $1)
  AND (target_year IS NULL OR target_year = $2)
  AND (target_department IS NULL OR target_department = $3)
ORDER BY is_urgent DESC, created_at DESC`
	var rows []models.Announcement
	if err := r.db.SelectContext(ctx, &rows, query, now, year, department); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return rows, nil
}

// ListAllAnnouncements returns every broadcast regardless of scope, for
// faculty and admin views.
func (r *AcademicRepository) ListAllAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcements ORDER BY created_at DESC`, announcementColumns)
	var rows []models.Announcement
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list all announcements: %w", err)
	}
	return rows, nil
}

// DeleteAnnouncement removes a broadcast.
func (r *AcademicRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
