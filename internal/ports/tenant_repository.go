package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"provider-locator-service/internal/domain"
)

// ErrTenantNotFound is returned when no tenant record matches the id.
var ErrTenantNotFound = errors.New("tenant not found")

// Port: a boundary for reading tenant records from the tenant store.
type TenantRepository interface {
	// Retrieve a tenant by id. Returns ErrTenantNotFound when absent;
	// any other error means the store itself is unreachable.
	GetTenant(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}
