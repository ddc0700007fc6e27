package models

import "time"

// Student represents a student profile linked 1:1 to an Account.
// Attendance and result rollups are never stored here; they are recomputed
// from the authoritative record sets on read.
type Student struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	USN        string    `db:"usn" json:"usn"`
	Name       string    `db:"name" json:"name"`
	DOB        time.Time `db:"dob" json:"dob"`
	Degree     string    `db:"degree" json:"degree"`
	Stream     string    `db:"stream" json:"stream"`
	College    string    `db:"college" json:"college"`
	Email      string    `db:"email" json:"email"`
	MobileNo   string    `db:"mobile_no" json:"mobile_no"`
	FatherName string    `db:"father_name" json:"father_name"`
	MotherName string    `db:"mother_name" json:"mother_name"`
	Address    string    `db:"address" json:"address"`
	Year       int       `db:"year" json:"year"`
	PhotoURL   *string   `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail extends the profile with computed rollups.
type StudentDetail struct {
	Student
	SubjectAttendance []SubjectAttendanceStats `json:"subject_attendance"`
	OverallAttendance OverallAttendanceStats   `json:"overall_attendance"`
	SemesterResults   []SemesterSummary        `json:"semester_results"`
	TotalCGPA         float64                  `json:"total_cgpa"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	Search    string
	Stream    string
	Year      *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
