package models

// RegisterStudentRequest is the payload for student sign-up.
type RegisterStudentRequest struct {
	Email      string    `json:"email" validate:"required,email"`
	Password   string    `json:"password" validate:"required,min=8"`
	USN        string    `json:"usn" validate:"required,min=3,max=20"`
	Name       string    `json:"name" validate:"required,min=2,max=100"`
	DOB        Date      `json:"dob" validate:"required"`
	Degree     string    `json:"degree" validate:"required"`
	Stream     string    `json:"stream" validate:"required"`
	College    string    `json:"college" validate:"required"`
	MobileNo   string    `json:"mobile_no" validate:"required,min=10,max=15"`
	FatherName string    `json:"father_name" validate:"omitempty,max=100"`
	MotherName string    `json:"mother_name" validate:"omitempty,max=100"`
	Address    string    `json:"address" validate:"omitempty,max=500"`
	Year       int       `json:"year" validate:"required,min=1,max=6"`
}

// RegisterFacultyRequest is the payload for faculty sign-up. Faculty accounts
// start inactive until the verification email link is followed.
type RegisterFacultyRequest struct {
	Email           string            `json:"email" validate:"required,email"`
	Password        string            `json:"password" validate:"required,min=8"`
	Name            string            `json:"name" validate:"required,min=2,max=100"`
	Position        string            `json:"position" validate:"required"`
	Department      string            `json:"department" validate:"required"`
	Stream          string            `json:"stream" validate:"required"`
	CollegeName     string            `json:"college_name" validate:"required"`
	MobileNo        string            `json:"mobile_no" validate:"required,min=10,max=15"`
	EmployeeID      *string           `json:"employee_id,omitempty"`
	ExperienceYears *int              `json:"experience_years,omitempty" validate:"omitempty,min=0,max=60"`
	Qualifications  QualificationList `json:"qualifications,omitempty"`
}

// RegistrationResponse reports the created account and profile identifiers.
type RegistrationResponse struct {
	UserID    string   `json:"user_id"`
	ProfileID string   `json:"profile_id"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Active    bool     `json:"active"`
}
