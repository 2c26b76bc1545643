package admin

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

// Create inserts a new admin record.
func (r *PostgresRepository) Create(ctx context.Context, a *Admin) error {
	query := `
		INSERT INTO admins (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, a.ID, a.Email, a.FullName, a.Tier).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting admin: %w", err)
	}

	return nil
}

// CreateTx inserts a new admin record inside the given transaction.
func (r *PostgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, a *Admin) error {
	query := `
		INSERT INTO admins (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := tx.QueryRow(ctx, query, a.ID, a.Email, a.FullName, a.Tier).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting admin: %w", err)
	}

	return nil
}

// GetByPrincipalID retrieves a single admin by its principal id.
func (r *PostgresRepository) GetByPrincipalID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	query := `
		SELECT id, email, full_name, role, created_at
		FROM admins
		WHERE id = $1`

	var a Admin
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.FullName, &a.Tier, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("querying admin: %w", err)
	}

	return &a, nil
}

// List retrieves all admins ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Admin, error) {
	query := `
		SELECT id, email, full_name, role, created_at
		FROM admins
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	var admins []Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.FullName, &a.Tier, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin row: %w", err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating admin rows: %w", err)
	}

	if admins == nil {
		admins = []Admin{}
	}

	return admins, nil
}

// Delete removes an admin record. Returns ErrAdminNotFound if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM admins WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting admin: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAdminNotFound
	}

	return nil
}
