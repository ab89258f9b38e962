package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benhmida/formatech/internal/app/models"
	"github.com/benhmida/formatech/internal/pkg/apperrors"
)

// IPaymentRepository defines the interface for payment database operations
type IPaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	GetByTransactionReference(ctx context.Context, reference string) (*models.Payment, error)
	GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*models.Payment, int64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status models.PaymentStatus, paymentDate *time.Time) error
}

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = "id, user_id, course_id, event_id, amount, currency, status, gateway_token, transaction_reference, payment_date, created_at"

func scanPayment(row pgx.Row, extra ...any) (*models.Payment, error) {
	p := &models.Payment{}
	dest := []any{
		&p.ID, &p.UserID, &p.CourseID, &p.EventID, &p.Amount, &p.Currency,
		&p.Status, &p.GatewayToken, &p.TransactionReference, &p.PaymentDate, &p.CreatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new payment and returns its ID
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (user_id, course_id, event_id, amount, currency, status, gateway_token, transaction_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		payment.UserID, payment.CourseID, payment.EventID, payment.Amount, payment.Currency,
		payment.Status, payment.GatewayToken, payment.TransactionReference).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating payment: %w", err)
	}
	return id, nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}
	return p, nil
}

// GetByTransactionReference retrieves a payment by its platform reference
func (r *PaymentRepository) GetByTransactionReference(ctx context.Context, reference string) (*models.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE transaction_reference = $1`, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(apperrors.ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}
	return p, nil
}

// GetByUserID retrieves a user's payments with pagination
func (r *PaymentRepository) GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*models.Payment, int64, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+`, COUNT(*) OVER() AS total_count
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	var total int64
	for rows.Next() {
		p := &models.Payment{}
		err := rows.Scan(
			&p.ID, &p.UserID, &p.CourseID, &p.EventID, &p.Amount, &p.Currency,
			&p.Status, &p.GatewayToken, &p.TransactionReference, &p.PaymentDate, &p.CreatedAt,
			&total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return payments, total, nil
}

// UpdateStatus updates a payment's status, optionally recording when the
// charge settled
func (r *PaymentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status models.PaymentStatus, paymentDate *time.Time) error {
	q := querier(r.db, tx)
	cmdTag, err := q.Exec(ctx, `
		UPDATE payments SET status = $1, payment_date = COALESCE($2, payment_date) WHERE id = $3`,
		status, paymentDate, id)
	if err != nil {
		return fmt.Errorf("error updating payment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound(apperrors.ErrPaymentNotFound)
	}
	return nil
}
