package models

import "time"

// NoteType classifies study material uploaded by faculty.
type NoteType string

const (
	NoteTypeLecture    NoteType = "lecture_notes"
	NoteTypeAssignment NoteType = "assignment"
	NoteTypeReference  NoteType = "reference_material"
	NoteTypeSyllabus   NoteType = "syllabus"
	NoteTypePractical  NoteType = "practical_notes"
)

// Valid returns true when the note type is a supported value.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeLecture, NoteTypeAssignment, NoteTypeReference, NoteTypeSyllabus, NoteTypePractical:
		return true
	default:
		return false
	}
}

// Note is faculty-authored study material.
type Note struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Subject   string    `db:"subject" json:"subject"`
	NoteType  NoteType  `db:"note_type" json:"note_type"`
	FacultyID string    `db:"faculty_id" json:"faculty_id"`
	FileURL   *string   `db:"file_url" json:"file_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AnnouncementType classifies announcements.
type AnnouncementType string

const (
	AnnouncementGeneral AnnouncementType = "general"
	AnnouncementExam    AnnouncementType = "exam"
	AnnouncementEvent   AnnouncementType = "event"
	AnnouncementHoliday AnnouncementType = "holiday"
	AnnouncementUrgent  AnnouncementType = "urgent"
)

// Valid returns true when the announcement type is a supported value.
func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementGeneral, AnnouncementExam, AnnouncementEvent, AnnouncementHoliday, AnnouncementUrgent:
		return true
	default:
		return false
	}
}

// Announcement is a faculty/admin broadcast, optionally scoped to a year
// or department and optionally expiring.
type Announcement struct {
	ID               string           `db:"id" json:"id"`
	Title            string           `db:"title" json:"title"`
	Content          string           `db:"content" json:"content"`
	AnnouncementType AnnouncementType `db:"announcement_type" json:"announcement_type"`
	FacultyID        string           `db:"faculty_id" json:"faculty_id"`
	TargetYear       *int             `db:"target_year" json:"target_year,omitempty"`
	TargetDepartment *string          `db:"target_department" json:"target_department,omitempty"`
	IsUrgent         bool             `db:"is_urgent" json:"is_urgent"`
	ValidUntil       *time.Time       `db:"valid_until" json:"valid_until,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}
