package property

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

// Create inserts a new property record.
func (r *PostgresRepository) Create(ctx context.Context, p *Property) error {
	query := `
		INSERT INTO properties (name, address, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, p.Name, p.Address, p.Description).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// GetByID retrieves a single property by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	query := `
		SELECT id, name, address, description, created_at
		FROM properties
		WHERE id = $1`

	var p Property
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Address, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("querying property: %w", err)
	}

	return &p, nil
}

// List retrieves all properties ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Property, error) {
	query := `
		SELECT id, name, address, description, created_at
		FROM properties
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var properties []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property rows: %w", err)
	}

	if properties == nil {
		properties = []Property{}
	}

	return properties, nil
}

// Update overwrites the mutable fields of a property record.
func (r *PostgresRepository) Update(ctx context.Context, p *Property) error {
	query := `
		UPDATE properties
		SET name = $2, address = $3, description = $4
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Address, p.Description)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPropertyNotFound
	}

	return nil
}

// Delete removes a property record. Returns ErrPropertyNotFound if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM properties WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPropertyNotFound
	}

	return nil
}
