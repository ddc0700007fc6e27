package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLeave   AttendanceStatus = "leave"
	AttendanceStatusHoliday AttendanceStatus = "holiday"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLeave, AttendanceStatusHoliday:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one (student, date, period) observation. At most one
// record exists per (student_id, date, period); the unique index is the
// arbiter, not the application-level check.
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	FacultyID string           `db:"faculty_id" json:"faculty_id"`
	Date      time.Time        `db:"date" json:"date"`
	Period    int              `db:"period" json:"period"`
	Subject   string           `db:"subject" json:"subject"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter scopes listing queries.
type AttendanceFilter struct {
	StudentID string
	Subject   string
	Status    *AttendanceStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SubjectAttendanceStats is the per-subject rollup computed from the record set.
type SubjectAttendanceStats struct {
	Subject         string  `json:"subject"`
	DailyCount      int     `json:"daily_count"`
	WeeklyCount     int     `json:"weekly_count"`
	MonthlyCount    int     `json:"monthly_count"`
	TotalClasses    int     `json:"total_classes"`
	AttendedClasses int     `json:"attended_classes"`
	Percentage      float64 `json:"percentage"`
}

// OverallAttendanceStats aggregates across all subjects.
type OverallAttendanceStats struct {
	DailyCount        int     `json:"daily_count"`
	WeeklyCount       int     `json:"weekly_count"`
	MonthlyCount      int     `json:"monthly_count"`
	TotalClasses      int     `json:"total_classes"`
	AttendedClasses   int     `json:"attended_classes"`
	AveragePercentage float64 `json:"average_percentage"`
}

// AttendanceStats bundles the full aggregation for one student.
type AttendanceStats struct {
	StudentID string                   `json:"student_id"`
	Subjects  []SubjectAttendanceStats `json:"subject_attendance"`
	Overall   OverallAttendanceStats   `json:"overall_attendance"`
}

// ClassDayReportRow summarises one student's status for a class/date report.
type ClassDayReportRow struct {
	StudentID   string           `db:"student_id" json:"student_id"`
	StudentName string           `db:"student_name" json:"student_name"`
	USN         string           `db:"usn" json:"usn"`
	Period      int              `db:"period" json:"period"`
	Subject     string           `db:"subject" json:"subject"`
	Status      AttendanceStatus `db:"status" json:"status"`
}
