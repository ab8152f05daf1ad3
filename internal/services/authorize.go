package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"provider-locator-service/internal/ports"
)

// ErrUnauthorized covers both "tenant missing" and "tenant inactive".
// The two cases are deliberately indistinguishable to the caller so tenant
// ids cannot be enumerated.
var ErrUnauthorized = errors.New("tenant not authorized")

// Authorizer confirms a tenant exists and is active before any routing work.
type Authorizer struct {
	Tenants ports.TenantRepository
}

// Authorize returns nil for an active tenant, ErrUnauthorized for a missing
// or inactive one, and a wrapped error when the tenant store itself fails.
func (a Authorizer) Authorize(ctx context.Context, id uuid.UUID) error {
	tenant, err := a.Tenants.GetTenant(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrTenantNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("authorize tenant: %w", err)
	}

	if !tenant.Active {
		return ErrUnauthorized
	}

	return nil
}
