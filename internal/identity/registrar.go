package identity

import (
	"context"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/tenant"
)

// Registrar creates an account together with its role profile row. Both
// writes commit atomically: a failed profile insert must roll back the
// account, so sign-up can never produce a roleless principal.
type Registrar interface {
	RegisterAdmin(ctx context.Context, acct *Account, a *admin.Admin) error
	RegisterTenant(ctx context.Context, acct *Account, t *tenant.Tenant) error
}
