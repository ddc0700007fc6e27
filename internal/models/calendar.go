package models

import "time"

// Holiday is a calendar entry maintained by admins.
type Holiday struct {
	ID          string    `db:"id" json:"id"`
	Date        time.Time `db:"date" json:"date"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	State       string    `db:"state" json:"state"`
	HolidayType string    `db:"holiday_type" json:"holiday_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LeaveStatus tracks a leave application's lifecycle.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Valid returns true when the leave status is a supported value.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	default:
		return false
	}
}

// LeaveApplication is a student's leave request awaiting faculty review.
type LeaveApplication struct {
	ID          string      `db:"id" json:"id"`
	StudentID   string      `db:"student_id" json:"student_id"`
	LeaveType   string      `db:"leave_type" json:"leave_type"`
	Reason      string      `db:"reason" json:"reason"`
	StartDate   time.Time   `db:"start_date" json:"start_date"`
	EndDate     time.Time   `db:"end_date" json:"end_date"`
	Status      LeaveStatus `db:"status" json:"status"`
	AppliedDate time.Time   `db:"applied_date" json:"applied_date"`
	ReviewedBy  *string     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// Event is a campus event entry.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	EventDate   time.Time `db:"event_date" json:"event_date"`
	EventTime   string    `db:"event_time" json:"event_time"`
	Location    string    `db:"location" json:"location"`
	Organizer   string    `db:"organizer" json:"organizer"`
	EventType   string    `db:"event_type" json:"event_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
