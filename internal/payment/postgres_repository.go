package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

const paymentColumns = "id, lease_id, tenant_id, amount, payment_method, payment_reference, status, payment_date, verified_by, verified_at, created_at"

func scanPayment(row pgx.Row, p *Payment) error {
	return row.Scan(&p.ID, &p.LeaseID, &p.TenantID, &p.Amount, &p.Method, &p.Reference, &p.Status, &p.PaymentDate, &p.VerifiedBy, &p.VerifiedAt, &p.CreatedAt)
}

// Create inserts a new payment record.
func (r *PostgresRepository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (lease_id, tenant_id, amount, payment_method, payment_reference, status, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		p.LeaseID, p.TenantID, p.Amount, p.Method, p.Reference, p.Status, p.PaymentDate,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

// GetByID retrieves a single payment by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	query := "SELECT " + paymentColumns + " FROM payments WHERE id = $1"

	var p Payment
	if err := scanPayment(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("querying payment: %w", err)
	}

	return &p, nil
}

// List retrieves all payments, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Payment, error) {
	return r.queryPayments(ctx, "SELECT "+paymentColumns+" FROM payments ORDER BY created_at DESC")
}

// ListByTenant retrieves the payments made by one tenant.
func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Payment, error) {
	return r.queryPayments(ctx, "SELECT "+paymentColumns+" FROM payments WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
}

func (r *PostgresRepository) queryPayments(ctx context.Context, query string, args ...any) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment rows: %w", err)
	}

	if payments == nil {
		payments = []Payment{}
	}

	return payments, nil
}

// Verify marks a pending payment verified or failed. Returns
// ErrPaymentNotFound for a missing payment and ErrAlreadyVerified when the
// payment has already left the pending state.
func (r *PostgresRepository) Verify(ctx context.Context, id uuid.UUID, status string, verifiedBy uuid.UUID) error {
	query := `
		UPDATE payments
		SET status = $2, verified_by = $3, verified_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := r.pool.Exec(ctx, query, id, status, verifiedBy)
	if err != nil {
		return fmt.Errorf("verifying payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)", id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking payment existence: %w", err)
		}
		if !exists {
			return ErrPaymentNotFound
		}
		return ErrAlreadyVerified
	}

	return nil
}
