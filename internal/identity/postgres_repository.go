package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAccountRepository implements AccountRepository using pgxpool.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository backed by the given pool.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// CreateTx inserts a new account record inside the given transaction.
func (r *PostgresAccountRepository) CreateTx(ctx context.Context, tx pgx.Tx, a *Account) error {
	query := `
		INSERT INTO accounts (email, full_name, password_hash, email_confirmed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		a.Email, a.FullName, a.PasswordHash, a.EmailConfirmedAt,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

// GetByID retrieves a single account by its UUID.
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := `
		SELECT id, email, full_name, password_hash, email_confirmed_at, created_at
		FROM accounts
		WHERE id = $1`

	var a Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.EmailConfirmedAt, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("querying account: %w", err)
	}

	return &a, nil
}

// GetByEmail retrieves a single account by email, case-insensitively.
func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, email, full_name, password_hash, email_confirmed_at, created_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)`

	var a Account
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.EmailConfirmedAt, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("querying account by email: %w", err)
	}

	return &a, nil
}
