package models

import "time"

// FeeType enumerates the fee categories.
type FeeType string

const (
	FeeTypeTuition       FeeType = "tuition"
	FeeTypeExam          FeeType = "exam"
	FeeTypeLibrary       FeeType = "library"
	FeeTypeLab           FeeType = "lab"
	FeeTypeHostel        FeeType = "hostel"
	FeeTypeTransport     FeeType = "transport"
	FeeTypeMiscellaneous FeeType = "miscellaneous"
)

// Valid returns true when the fee type is a supported value.
func (t FeeType) Valid() bool {
	switch t {
	case FeeTypeTuition, FeeTypeExam, FeeTypeLibrary, FeeTypeLab, FeeTypeHostel, FeeTypeTransport, FeeTypeMiscellaneous:
		return true
	default:
		return false
	}
}

// FeeDetail tracks one payable item for a student.
type FeeDetail struct {
	ID           string     `db:"id" json:"id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	FeeType      FeeType    `db:"fee_type" json:"fee_type"`
	Amount       float64    `db:"amount" json:"amount"`
	DueDate      time.Time  `db:"due_date" json:"due_date"`
	PaidDate     *time.Time `db:"paid_date" json:"paid_date,omitempty"`
	IsPaid       bool       `db:"is_paid" json:"is_paid"`
	Semester     int        `db:"semester" json:"semester"`
	AcademicYear string     `db:"academic_year" json:"academic_year"`
	LateFee      float64    `db:"late_fee" json:"late_fee"`
	Discount     float64    `db:"discount" json:"discount"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FeePayment records one payment against a fee detail.
type FeePayment struct {
	ID            string    `db:"id" json:"id"`
	FeeDetailID   string    `db:"fee_detail_id" json:"fee_detail_id"`
	AmountPaid    float64   `db:"amount_paid" json:"amount_paid"`
	PaymentDate   time.Time `db:"payment_date" json:"payment_date"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	TransactionID *string   `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
