package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/college-api/internal/models"
)

const (
	feeDetailColumns  = `id, student_id, fee_type, amount, due_date, paid_date, is_paid, semester, academic_year, late_fee, discount, created_at, updated_at`
	feePaymentColumns = `id, fee_detail_id, amount_paid, payment_date, payment_method, transaction_id, created_at`
)

// FeeRepository handles persistence for fee details and payments.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs the repository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// InsertDetail stores a new payable item.
func (r *FeeRepository) InsertDetail(ctx context.Context, fee *models.FeeDetail) error {
	const query = `INSERT INTO fee_details (id, student_id, fee_type, amount, due_date, paid_date, is_paid, semester, academic_year, late_fee, discount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		fee.ID, fee.StudentID, fee.FeeType, fee.Amount, fee.DueDate, fee.PaidDate,
		fee.IsPaid, fee.Semester, fee.AcademicYear, fee.LateFee, fee.Discount,
		fee.CreatedAt, fee.UpdatedAt); err != nil {
		return fmt.Errorf("insert fee detail: %w", err)
	}
	return nil
}

// FindDetail returns one payable item.
func (r *FeeRepository) FindDetail(ctx context.Context, id string) (*models.FeeDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM fee_details WHERE id = $1`, feeDetailColumns)
	var fee models.FeeDetail
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find fee detail: %w", err)
	}
	return &fee, nil
}

// ListByStudent returns all fee details for one student, unpaid first.
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.FeeDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM fee_details WHERE student_id = $1 ORDER BY is_paid ASC, due_date ASC`, feeDetailColumns)
	var rows []models.FeeDetail
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student fees: %w", err)
	}
	return rows, nil
}

// MarkPaid records a payment inside a transaction and flips the fee detail.
func (r *FeeRepository) MarkPaid(ctx context.Context, payment *models.FeePayment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertPayment = `INSERT INTO fee_payments (id, fee_detail_id, amount_paid, payment_date, payment_method, transaction_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insertPayment,
		payment.ID, payment.FeeDetailID, payment.AmountPaid, payment.PaymentDate,
		payment.PaymentMethod, payment.TransactionID, payment.CreatedAt); err != nil {
		return fmt.Errorf("insert fee payment: %w", err)
	}

	const updateDetail = `UPDATE fee_details SET is_paid = TRUE, paid_date = $2, updated_at = $2 WHERE id = $1`
	res, err := tx.ExecContext(ctx, updateDetail, payment.FeeDetailID, payment.PaymentDate)
	if err != nil {
		return fmt.Errorf("mark fee paid: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment tx: %w", err)
	}
	return nil
}

// ListPayments returns the payment history for one fee detail.
func (r *FeeRepository) ListPayments(ctx context.Context, feeDetailID string) ([]models.FeePayment, error) {
	query := fmt.Sprintf(`SELECT %s FROM fee_payments WHERE fee_detail_id = $1 ORDER BY payment_date DESC`, feePaymentColumns)
	var rows []models.FeePayment
	if err := r.db.SelectContext(ctx, &rows, query, feeDetailID); err != nil {
		return nil, fmt.Errorf("list fee payments: %w", err)
	}
	return rows, nil
}

// PendingStats returns the count and total outstanding amount of unpaid fees.
func (r *FeeRepository) PendingStats(ctx context.Context) (int, float64, error) {
	const query = `SELECT COUNT(*), COALESCE(SUM(amount + late_fee - discount), 0)
FROM fee_details WHERE is_paid = FALSE`
	var count int
	var amount float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count, &amount); err != nil {
		return 0, 0, fmt.Errorf("pending fee stats: %w", err)
	}
	return count, amount, nil
}
