package tenant

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

// Create inserts a new tenant record.
func (r *PostgresRepository) Create(ctx context.Context, t *Tenant) error {
	query := `
		INSERT INTO tenants (id, email, full_name, phone, profile_image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Email, t.FullName, t.Phone, t.ProfileImageURL, t.Status,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting tenant: %w", err)
	}

	return nil
}

// CreateTx inserts a new tenant record inside the given transaction.
func (r *PostgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *Tenant) error {
	query := `
		INSERT INTO tenants (id, email, full_name, phone, profile_image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := tx.QueryRow(ctx, query,
		t.ID, t.Email, t.FullName, t.Phone, t.ProfileImageURL, t.Status,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting tenant: %w", err)
	}

	return nil
}

// GetByPrincipalID retrieves a single tenant by its principal id.
func (r *PostgresRepository) GetByPrincipalID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	query := `
		SELECT id, email, full_name, phone, profile_image_url, status, created_at
		FROM tenants
		WHERE id = $1`

	var t Tenant
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Email, &t.FullName, &t.Phone, &t.ProfileImageURL, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("querying tenant: %w", err)
	}

	return &t, nil
}

// List retrieves all tenants ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Tenant, error) {
	query := `
		SELECT id, email, full_name, phone, profile_image_url, status, created_at
		FROM tenants
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		err := rows.Scan(&t.ID, &t.Email, &t.FullName, &t.Phone, &t.ProfileImageURL, &t.Status, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning tenant row: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenant rows: %w", err)
	}

	if tenants == nil {
		tenants = []Tenant{}
	}

	return tenants, nil
}

// Update overwrites the mutable fields of a tenant record.
func (r *PostgresRepository) Update(ctx context.Context, t *Tenant) error {
	query := `
		UPDATE tenants
		SET full_name = $2, phone = $3, profile_image_url = $4, status = $5
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, t.ID, t.FullName, t.Phone, t.ProfileImageURL, t.Status)
	if err != nil {
		return fmt.Errorf("updating tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}

	return nil
}

// Delete removes a tenant record. Returns ErrTenantNotFound if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM tenants WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}

	return nil
}
