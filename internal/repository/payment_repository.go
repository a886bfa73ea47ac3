package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Desktoo/WorkEzy-demo/internal/models"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	// FindActiveByEmployer returns the most recent unconsumed successful
	// payment for the employer, or nil when none exists.
	FindActiveByEmployer(ctx context.Context, employerID string) (*models.Payment, error)
	ListByEmployer(ctx context.Context, employerID string) ([]models.Payment, error)
	// ConsumeTx flips is_consumed inside the job-creation transaction. It
	// only matches a still-unconsumed row, so of two racing consumers at
	// most one sees a row affected.
	ConsumeTx(ctx context.Context, tx *sql.Tx, id string) (bool, error)
	DeleteByEmployerTx(ctx context.Context, tx *sql.Tx, employerID string) error
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, employer_id, plan_id, transaction_id, provider, amount, currency, status, is_consumed, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, employer_id, plan_id, transaction_id, provider, amount, currency, status, is_consumed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.EmployerID, payment.PlanID, payment.TransactionID,
		payment.Provider, payment.Amount, payment.Currency, payment.Status,
		payment.IsConsumed, now, now)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, transactionID))
}

func (r *paymentRepository) FindActiveByEmployer(ctx context.Context, employerID string) (*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE employer_id = ? AND status = ? AND is_consumed = 0
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, employerID, models.PaymentSuccess))
}

func (r *paymentRepository) scanOne(row *sql.Row) (*models.Payment, error) {
	payment := &models.Payment{}
	err := row.Scan(
		&payment.ID, &payment.EmployerID, &payment.PlanID, &payment.TransactionID,
		&payment.Provider, &payment.Amount, &payment.Currency, &payment.Status,
		&payment.IsConsumed, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return payment, nil
}

func (r *paymentRepository) ListByEmployer(ctx context.Context, employerID string) ([]models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE employer_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID, &payment.EmployerID, &payment.PlanID, &payment.TransactionID,
			&payment.Provider, &payment.Amount, &payment.Currency, &payment.Status,
			&payment.IsConsumed, &payment.CreatedAt, &payment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func (r *paymentRepository) ConsumeTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	query := `
		UPDATE payments
		SET is_consumed = 1, updated_at = ?
		WHERE id = ? AND is_consumed = 0
	`
	result, err := tx.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to consume payment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (r *paymentRepository) DeleteByEmployerTx(ctx context.Context, tx *sql.Tx, employerID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE employer_id = ?`, employerID)
	if err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}

	return nil
}
