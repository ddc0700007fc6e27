package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Qualification is a degree/institution/year tuple on a faculty profile.
type Qualification struct {
	Degree         string   `json:"degree"`
	Institution    string   `json:"institution"`
	Year           int      `json:"year"`
	Specialization *string  `json:"specialization,omitempty"`
	Percentage     *float64 `json:"percentage,omitempty"`
}

// QualificationList stores qualifications as a JSONB column.
type QualificationList []Qualification

// Value implements driver.Valuer.
func (q QualificationList) Value() (driver.Value, error) {
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q)
}

// Scan implements sql.Scanner.
func (q *QualificationList) Scan(src interface{}) error {
	if src == nil {
		*q = QualificationList{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("qualifications: unsupported scan type %T", src)
	}
	return json.Unmarshal(raw, q)
}

// Faculty represents a faculty profile linked 1:1 to an Account.
type Faculty struct {
	ID              string            `db:"id" json:"id"`
	UserID          string            `db:"user_id" json:"user_id"`
	Name            string            `db:"name" json:"name"`
	Email           string            `db:"email" json:"email"`
	Position        string            `db:"position" json:"position"`
	Department      string            `db:"department" json:"department"`
	Stream          string            `db:"stream" json:"stream"`
	CollegeName     string            `db:"college_name" json:"college_name"`
	MobileNo        string            `db:"mobile_no" json:"mobile_no"`
	EmployeeID      *string           `db:"employee_id" json:"employee_id,omitempty"`
	ExperienceYears *int              `db:"experience_years" json:"experience_years,omitempty"`
	Qualifications  QualificationList `db:"qualifications" json:"qualifications"`
	PhotoURL        *string           `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// FacultyFilter captures filtering criteria for listing faculty.
type FacultyFilter struct {
	Search     string
	Department string
	Position   string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
