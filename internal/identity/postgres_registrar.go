package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/tenant"
)

// PostgresRegistrar implements Registrar with a single pgx transaction
// spanning the accounts insert and the role-table insert.
type PostgresRegistrar struct {
	pool     *pgxpool.Pool
	accounts AccountRepository
	admins   admin.Repository
	tenants  tenant.Repository
}

// NewRegistrar creates a Registrar backed by the given pool and repositories.
func NewRegistrar(pool *pgxpool.Pool, accounts AccountRepository, admins admin.Repository, tenants tenant.Repository) *PostgresRegistrar {
	return &PostgresRegistrar{
		pool:     pool,
		accounts: accounts,
		admins:   admins,
		tenants:  tenants,
	}
}

// RegisterAdmin creates an account and its admin profile row atomically.
// The profile ID is taken from the generated account ID.
func (r *PostgresRegistrar) RegisterAdmin(ctx context.Context, acct *Account, a *admin.Admin) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.accounts.CreateTx(ctx, tx, acct); err != nil {
			return err
		}
		a.ID = acct.ID
		return r.admins.CreateTx(ctx, tx, a)
	})
}

// RegisterTenant creates an account and its tenant profile row atomically.
func (r *PostgresRegistrar) RegisterTenant(ctx context.Context, acct *Account, t *tenant.Tenant) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.accounts.CreateTx(ctx, tx, acct); err != nil {
			return err
		}
		t.ID = acct.ID
		return r.tenants.CreateTx(ctx, tx, t)
	})
}

func (r *PostgresRegistrar) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
