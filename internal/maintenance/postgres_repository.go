package maintenance

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

const requestColumns = "id, unit_id, tenant_id, title, description, photo_url, status, assigned_to, submitted_at, resolved_at"

func scanRequest(row pgx.Row, m *Request) error {
	return row.Scan(&m.ID, &m.UnitID, &m.TenantID, &m.Title, &m.Description, &m.PhotoURL, &m.Status, &m.AssignedTo, &m.SubmittedAt, &m.ResolvedAt)
}

// Create inserts a new maintenance request.
func (r *PostgresRepository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO maintenance_requests (unit_id, tenant_id, title, description, photo_url, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, submitted_at`

	err := r.pool.QueryRow(ctx, query,
		req.UnitID, req.TenantID, req.Title, req.Description, req.PhotoURL, req.Status,
	).Scan(&req.ID, &req.SubmittedAt)
	if err != nil {
		return fmt.Errorf("inserting maintenance request: %w", err)
	}

	return nil
}

// GetByID retrieves a single maintenance request by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	query := "SELECT " + requestColumns + " FROM maintenance_requests WHERE id = $1"

	var m Request
	if err := scanRequest(r.pool.QueryRow(ctx, query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("querying maintenance request: %w", err)
	}

	return &m, nil
}

// List retrieves all maintenance requests, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Request, error) {
	return r.queryRequests(ctx, "SELECT "+requestColumns+" FROM maintenance_requests ORDER BY submitted_at DESC")
}

// ListByTenant retrieves the maintenance requests submitted by one tenant.
func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Request, error) {
	return r.queryRequests(ctx, "SELECT "+requestColumns+" FROM maintenance_requests WHERE tenant_id = $1 ORDER BY submitted_at DESC", tenantID)
}

func (r *PostgresRepository) queryRequests(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance requests: %w", err)
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var m Request
		if err := scanRequest(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning maintenance request row: %w", err)
		}
		requests = append(requests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating maintenance request rows: %w", err)
	}

	if requests == nil {
		requests = []Request{}
	}

	return requests, nil
}

// UpdateStatus applies an admin status update to a maintenance request.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) error {
	query := `
		UPDATE maintenance_requests
		SET status = $2,
		    assigned_to = COALESCE($3, assigned_to),
		    resolved_at = COALESCE($4, resolved_at)
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, upd.Status, upd.AssignedTo, upd.ResolvedAt)
	if err != nil {
		return fmt.Errorf("updating maintenance request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	return nil
}
