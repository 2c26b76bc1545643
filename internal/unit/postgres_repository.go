package unit

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

const unitColumns = "id, property_id, unit_number, floor, size, status, assigned_to, created_at"

func scanUnit(row pgx.Row, u *Unit) error {
	return row.Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.Floor, &u.Size, &u.Status, &u.AssignedTo, &u.CreatedAt)
}

// Create inserts a new unit record.
func (r *PostgresRepository) Create(ctx context.Context, u *Unit) error {
	query := `
		INSERT INTO units (property_id, unit_number, floor, size, status, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		u.PropertyID, u.UnitNumber, u.Floor, u.Size, u.Status, u.AssignedTo,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting unit: %w", err)
	}

	return nil
}

// GetByID retrieves a single unit by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Unit, error) {
	query := "SELECT " + unitColumns + " FROM units WHERE id = $1"

	var u Unit
	if err := scanUnit(r.pool.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("querying unit: %w", err)
	}

	return &u, nil
}

// List retrieves all units ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Unit, error) {
	query := "SELECT " + unitColumns + " FROM units ORDER BY created_at ASC"
	return r.queryUnits(ctx, query)
}

// ListByProperty retrieves the units belonging to one property.
func (r *PostgresRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]Unit, error) {
	query := "SELECT " + unitColumns + " FROM units WHERE property_id = $1 ORDER BY unit_number ASC"
	return r.queryUnits(ctx, query, propertyID)
}

func (r *PostgresRepository) queryUnits(ctx context.Context, query string, args ...any) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		var u Unit
		if err := scanUnit(rows, &u); err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit rows: %w", err)
	}

	if units == nil {
		units = []Unit{}
	}

	return units, nil
}

// Update overwrites the mutable fields of a unit record.
func (r *PostgresRepository) Update(ctx context.Context, u *Unit) error {
	query := `
		UPDATE units
		SET unit_number = $2, floor = $3, size = $4, status = $5, assigned_to = $6
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, u.ID, u.UnitNumber, u.Floor, u.Size, u.Status, u.AssignedTo)
	if err != nil {
		return fmt.Errorf("updating unit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUnitNotFound
	}

	return nil
}

// Delete removes a unit record. Returns ErrUnitNotFound if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM units WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting unit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUnitNotFound
	}

	return nil
}
