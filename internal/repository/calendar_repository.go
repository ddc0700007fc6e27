package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/college-api/internal/models"
)

const (
	holidayColumns = `id, date, name, description, state, holiday_type, created_at`
	leaveColumns   = `id, student_id, leave_type, reason, start_date, end_date, status, applied_date, reviewed_by, created_at, updated_at`
	eventColumns   = `id, title, description, event_date, event_time, location, organizer, event_type, created_at`
)

// CalendarRepository handles persistence for holidays, leave applications
// and campus events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs the repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// InsertHoliday stores a new calendar holiday.
func (r *CalendarRepository) InsertHoliday(ctx context.Context, h *models.Holiday) error {
	const query = `INSERT INTO holidays (id, date, name, description, state, holiday_type, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		h.ID, h.Date, h.Name, h.Description, h.State, h.HolidayType, h.CreatedAt); err != nil {
		return fmt.Errorf("insert holiday: %w", err)
	}
	return nil
}

// ListHolidays returns holidays within a date range, earliest first.
func (r *CalendarRepository) ListHolidays(ctx context.Context, from, to time.Time) ([]models.Holiday, error) {
	query := fmt.Sprintf(`SELECT %s FROM holidays WHERE date >= $1 AND date <= $2 ORDER BY date ASC`, holidayColumns)
	var rows []models.Holiday
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return rows, nil
}

// DeleteHoliday removes a holiday.
func (r *CalendarRepository) DeleteHoliday(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// InsertLeave stores a new leave application.
func (r *CalendarRepository) InsertLeave(ctx context.Context, l *models.LeaveApplication) error {
	const query = `INSERT INTO leave_applications (id, student_id, leave_type, reason, start_date, end_date, status, applied_date, reviewed_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		l.ID, l.StudentID, l.LeaveType, l.Reason, l.StartDate, l.EndDate,
		l.Status, l.AppliedDate, l.ReviewedBy, l.CreatedAt, l.UpdatedAt); err != nil {
		return fmt.Errorf("insert leave application: %w", err)
	}
	return nil
}

// FindLeave returns a single leave application.
func (r *CalendarRepository) FindLeave(ctx context.Context, id string) (*models.LeaveApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_applications WHERE id = $1`, leaveColumns)
	var leave models.LeaveApplication
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find leave application: %w", err)
	}
	return &leave, nil
}

// ListLeavesByStudent returns one student's leave history, newest first.
func (r *CalendarRepository) ListLeavesByStudent(ctx context.Context, studentID string) ([]models.LeaveApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_applications WHERE student_id = $1 ORDER BY applied_date DESC`, leaveColumns)
	var rows []models.LeaveApplication
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student leaves: %w", err)
	}
	return rows, nil
}

// ListLeavesByStatus returns applications in one state, oldest first so
// reviewers work the queue in arrival order.
func (r *CalendarRepository) ListLeavesByStatus(ctx context.Context, status models.LeaveStatus) ([]models.LeaveApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_applications WHERE status = $1 ORDER BY applied_date ASC`, leaveColumns)
	var rows []models.LeaveApplication
	if err := r.db.SelectContext(ctx, &rows, query, status); err != nil {
		return nil, fmt.Errorf("list leaves by status: %w", err)
	}
	return rows, nil
}

// ReviewLeave transitions a pending application to approved or rejected.
// Rows already reviewed are left untouched and reported as sql.ErrNoRows.
func (r *CalendarRepository) ReviewLeave(ctx context.Context, id string, status models.LeaveStatus, reviewerID string, reviewedAt time.Time) error {
	const query = `UPDATE leave_applications
SET status = $2, reviewed_by = $3, updated_at = $4
WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, reviewerID, reviewedAt)
	if err != nil {
		return fmt.Errorf("review leave application: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountLeavesByStatus returns how many applications sit in one state.
func (r *CalendarRepository) CountLeavesByStatus(ctx context.Context, status models.LeaveStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM leave_applications WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("count leaves: %w", err)
	}
	return count, nil
}

// InsertEvent stores a campus event.
func (r *CalendarRepository) InsertEvent(ctx context.Context, e *models.Event) error {
	const query = `INSERT INTO events (id, title, description, event_date, event_time, location, organizer, event_type, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.EventDate, e.EventTime, e.Location,
		e.Organizer, e.EventType, e.CreatedAt); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListUpcomingEvents returns events on or after the given date.
func (r *CalendarRepository) ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM events WHERE event_date >= $1 ORDER BY event_date ASC LIMIT %d`, eventColumns, limit)
	var rows []models.Event
	if err := r.db.SelectContext(ctx, &rows, query, from); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return rows, nil
}

// CountUpcomingEvents returns how many events are on or after the given date.
func (r *CalendarRepository) CountUpcomingEvents(ctx context.Context, from time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM events WHERE event_date >= $1`, from); err != nil {
		return 0, fmt.Errorf("count upcoming events: %w", err)
	}
	return count, nil
}

// DeleteEvent removes an event.
func (r *CalendarRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
