package lease

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

const leaseColumns = "id, unit_id, tenant_id, start_date, end_date, rent_amount, status, agreement_pdf_url, created_at"

func scanLease(row pgx.Row, l *Lease) error {
	return row.Scan(&l.ID, &l.UnitID, &l.TenantID, &l.StartDate, &l.EndDate, &l.RentAmount, &l.Status, &l.AgreementPDFURL, &l.CreatedAt)
}

// Create inserts a new lease record.
func (r *PostgresRepository) Create(ctx context.Context, l *Lease) error {
	query := `
		INSERT INTO leases (unit_id, tenant_id, start_date, end_date, rent_amount, status, agreement_pdf_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		l.UnitID, l.TenantID, l.StartDate, l.EndDate, l.RentAmount, l.Status, l.AgreementPDFURL,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting lease: %w", err)
	}

	return nil
}

// GetByID retrieves a single lease by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lease, error) {
	query := "SELECT " + leaseColumns + " FROM leases WHERE id = $1"

	var l Lease
	if err := scanLease(r.pool.QueryRow(ctx, query, id), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeaseNotFound
		}
		return nil, fmt.Errorf("querying lease: %w", err)
	}

	return &l, nil
}

// List retrieves all leases ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Lease, error) {
	return r.queryLeases(ctx, "SELECT "+leaseColumns+" FROM leases ORDER BY created_at ASC")
}

// ListByTenant retrieves the leases belonging to one tenant.
func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Lease, error) {
	return r.queryLeases(ctx, "SELECT "+leaseColumns+" FROM leases WHERE tenant_id = $1 ORDER BY start_date DESC", tenantID)
}

func (r *PostgresRepository) queryLeases(ctx context.Context, query string, args ...any) ([]Lease, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leases: %w", err)
	}
	defer rows.Close()

	var leases []Lease
	for rows.Next() {
		var l Lease
		if err := scanLease(rows, &l); err != nil {
			return nil, fmt.Errorf("scanning lease row: %w", err)
		}
		leases = append(leases, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lease rows: %w", err)
	}

	if leases == nil {
		leases = []Lease{}
	}

	return leases, nil
}

// UpdateStatus sets the status of a lease.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.pool.Exec(ctx, "UPDATE leases SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("updating lease status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLeaseNotFound
	}

	return nil
}
