package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
	appErrors "github.com/campushub/college-api/pkg/errors"
)

type feeRepository interface {
	InsertDetail(ctx context.Context, fee *models.FeeDetail) error
	FindDetail(ctx context.Context, id string) (*models.FeeDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.FeeDetail, error)
	MarkPaid(ctx context.Context, payment *models.FeePayment) error
	ListPayments(ctx context.Context, feeDetailID string) ([]models.FeePayment, error)
	PendingStats(ctx context.Context) (int, float64, error)
}

// CreateFeeRequest is the payload for raising a payable item.
type CreateFeeRequest struct {
	StudentID    string         `json:"student_id" validate:"required"`
	FeeType      models.FeeType `json:"fee_type" validate:"required"`
	Amount       float64        `json:"amount" validate:"required,gt=0"`
	DueDate      models.Date    `json:"due_date" validate:"required"`
	Semester     int            `json:"semester" validate:"required,min=1,max=12"`
	AcademicYear string         `json:"academic_year" validate:"required,min=4,max=12"`
	LateFee      float64        `json:"late_fee" validate:"min=0"`
	Discount     float64        `json:"discount" validate:"min=0"`
}

// RecordPaymentRequest marks a fee detail paid.
type RecordPaymentRequest struct {
	AmountPaid    float64 `json:"amount_paid" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,min=2,max=50"`
	TransactionID *string `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
}

// FeeService manages payable items and their payments.
type FeeService struct {
	repo      feeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeService constructs a FeeService.
func NewFeeService(repo feeRepository, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FeeService{repo: repo, validator: validate, logger: logger}
}

// Create raises a payable item for a student.
func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*models.FeeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}
	if !req.FeeType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown fee type %q", req.FeeType))
	}

	now := time.Now().UTC()
	fee := &models.FeeDetail{
		ID:           uuid.NewString(),
		StudentID:    req.StudentID,
		FeeType:      req.FeeType,
		Amount:       req.Amount,
		DueDate:      req.DueDate.Time,
		IsPaid:       false,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		LateFee:      req.LateFee,
		Discount:     req.Discount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertDetail(ctx, fee); err != nil {
		return nil, wrapStorage(err, "failed to create fee detail")
	}
	return fee, nil
}

// Get returns one payable item.
func (s *FeeService) Get(ctx context.Context, id string) (*models.FeeDetail, error) {
	fee, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee detail not found")
		}
		return nil, wrapStorage(err, "failed to load fee detail")
	}
	return fee, nil
}

// ListByStudent returns all payable items for one student.
func (s *FeeService) ListByStudent(ctx context.Context, studentID string) ([]models.FeeDetail, error) {
	fees, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, wrapStorage(err, "failed to list fees")
	}
	return fees, nil
}

// RecordPayment records a payment and marks the fee detail paid. Paying an
// already-paid detail is rejected.
func (s *FeeService) RecordPayment(ctx context.Context, feeDetailID string, req RecordPaymentRequest) (*models.FeePayment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	fee, err := s.Get(ctx, feeDetailID)
	if err != nil {
		return nil, err
	}
	if fee.IsPaid {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fee detail is already paid")
	}

	now := time.Now().UTC()
	payment := &models.FeePayment{
		ID:            uuid.NewString(),
		FeeDetailID:   feeDetailID,
		AmountPaid:    req.AmountPaid,
		PaymentDate:   now,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		CreatedAt:     now,
	}
	if err := s.repo.MarkPaid(ctx, payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee detail not found")
		}
		return nil, wrapStorage(err, "failed to record payment")
	}
	return payment, nil
}

// Payments returns the payment history for one fee detail.
func (s *FeeService) Payments(ctx context.Context, feeDetailID string) ([]models.FeePayment, error) {
	payments, err := s.repo.ListPayments(ctx, feeDetailID)
	if err != nil {
		return nil, wrapStorage(err, "failed to list payments")
	}
	return payments, nil
}
