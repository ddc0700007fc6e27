package models

import "time"

// TestType enumerates the supported exam kinds. The strict schema is the
// only one served; free-form test type strings are not accepted.
type TestType string

const (
	TestTypeClassTest       TestType = "class_test"
	TestTypePreparatoryTest TestType = "preparatory_test"
	TestTypeSemesterExam    TestType = "semester_exam"
)

// Valid returns true when the test type is a supported value.
func (t TestType) Valid() bool {
	switch t {
	case TestTypeClassTest, TestTypePreparatoryTest, TestTypeSemesterExam:
		return true
	default:
		return false
	}
}

// Result is one (student, subject, test) score. Percentage and grade are
// derived at write time and never accepted from the caller. At most one
// result exists per (student_id, test_date, subject).
type Result struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	FacultyID     string    `db:"faculty_id" json:"faculty_id"`
	Subject       string    `db:"subject" json:"subject"`
	TestType      TestType  `db:"test_type" json:"test_type"`
	TestDate      time.Time `db:"test_date" json:"test_date"`
	MarksObtained float64   `db:"marks_obtained" json:"marks_obtained"`
	TotalMarks    float64   `db:"total_marks" json:"total_marks"`
	Percentage    float64   `db:"percentage" json:"percentage"`
	Grade         string    `db:"grade" json:"grade"`
	Semester      int       `db:"semester" json:"semester"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ResultFilter scopes result listing queries.
type ResultFilter struct {
	StudentID string
	Subject   string
	TestType  *TestType
	Semester  *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SubjectResultSummary groups a student's results for one subject.
type SubjectResultSummary struct {
	Subject           string   `json:"subject"`
	Results           []Result `json:"results"`
	AveragePercentage float64  `json:"average_percentage"`
}

// SemesterSummary aggregates a student's semester across subjects.
type SemesterSummary struct {
	Semester          int                    `json:"semester"`
	Subjects          []SubjectResultSummary `json:"subjects"`
	OverallPercentage float64                `json:"overall_percentage"`
	CGPA              float64                `json:"cgpa"`
}
